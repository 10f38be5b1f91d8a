package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"fabtopo/internal/config"
)

// app carries state shared by every subcommand
type app struct {
	cfgFile  string
	logLevel string

	cfg     *config.Config
	cfgPath string
	logger  *log.Logger
	stderr  io.Writer
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stderr: stderr}

	root := &cobra.Command{
		Use:   "fabtopo",
		Short: "Convert fabric inventory reports into netloc topology files",
		Long: `fabtopo reads an Omni-Path fabric inventory (an opareport snapshot or
topology report, or an equivalent YAML inventory) and writes one netloc
topology file per subnet.

Examples:
  fabtopo convert snapshot.xml -o /var/lib/netloc
  fabtopo convert topology.xml --mode topology --strict
  fabtopo config init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: search $"+config.EnvConfigPath+", ./"+config.ConfigFileName+", XDG dirs, /etc)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newConvertCommand(a))
	root.AddCommand(newRunsCommand(a))
	root.AddCommand(newConfigCommand(a))
	root.AddCommand(newVersionCommand())

	return root
}

// init loads configuration and builds the logger
func (a *app) init() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, a.cfgPath, err = config.LoadFromPath(a.cfgFile)
	} else {
		a.cfg, a.cfgPath, err = config.Load()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}

	level, err := log.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	a.logger = log.NewWithOptions(a.stderr, log.Options{
		Prefix:          "fabtopo",
		Level:           level,
		ReportTimestamp: true,
	})
	if a.cfgPath != "" {
		a.logger.Debug("loaded config", "path", a.cfgPath)
	}

	return nil
}
