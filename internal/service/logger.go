package service

import (
	"io"

	"github.com/charmbracelet/log"
)

func orDiscard(logger *log.Logger) *log.Logger {
	if logger != nil {
		return logger
	}
	return log.New(io.Discard)
}
