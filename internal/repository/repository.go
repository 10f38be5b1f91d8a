package repository

import (
	"context"
	"errors"

	"fabtopo/internal/domain"
)

// ErrRunNotFound is returned when an archive has no run with the given id
var ErrRunNotFound = errors.New("run not found")

// Archive defines the interface for persisting conversion runs
type Archive interface {
	// Write operations
	SaveRun(ctx context.Context, run *domain.Run) error

	// Read operations
	ListRuns(ctx context.Context, limit int) ([]*domain.RunInfo, error)
	GetRun(ctx context.Context, id string) (*domain.RunInfo, error)
	ListNodes(ctx context.Context, runID, subnet string) ([]*domain.Node, error)
	ListLinks(ctx context.Context, runID, subnet string) ([]domain.DirectedLink, error)

	// Close releases resources
	Close() error
}
