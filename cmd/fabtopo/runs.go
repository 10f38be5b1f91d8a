package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fabtopo/internal/repository/sqlite"
)

func newRunsCommand(a *app) *cobra.Command {
	var archivePath string

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect conversions recorded in the run archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	runsCmd.PersistentFlags().StringVar(&archivePath, "archive", "", "SQLite archive (default: archive.path from config)")

	openArchive := func() (*sqlite.Repository, error) {
		path := archivePath
		if path == "" {
			path = a.cfg.Archive.Path
		}
		if path == "" {
			return nil, errors.New("no archive configured: pass --archive or set archive.path")
		}
		return sqlite.New(path)
	}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openArchive()
			if err != nil {
				return err
			}
			defer repo.Close()

			runs, err := repo.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tCREATED\tMODE\tSUBNETS\tDIAGNOSTICS\tSOURCE")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Mode,
					len(r.Subnets), len(r.Diagnostics), r.Source)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the subnets and diagnostics of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openArchive()
			if err != nil {
				return err
			}
			defer repo.Close()

			run, err := repo.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run:        %s\n", run.ID)
			fmt.Fprintf(out, "Created:    %s\n", run.CreatedAt.Format("2006-01-02 15:04:05 MST"))
			fmt.Fprintf(out, "Source:     %s (%s)\n", run.Source, run.Format)
			fmt.Fprintf(out, "Mode:       %s\n", run.Mode)
			fmt.Fprintf(out, "Label:      %s\n", run.Label)
			fmt.Fprintf(out, "Partitions: %v\n\n", run.Partitions)

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SUBNET\tNODES\tADJACENCIES\tLINKS\tFILE\tBLAKE2B")
			for _, s := range run.Subnets {
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\n",
					s.ID, s.Nodes, s.Adjacencies, s.DirectedLinks, s.Path, s.Digest)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(run.Diagnostics) > 0 {
				fmt.Fprintf(out, "\nDiagnostics (%d):\n", len(run.Diagnostics))
				for _, d := range run.Diagnostics {
					fmt.Fprintf(out, "  %s\n", d)
				}
			}
			return nil
		},
	}

	runsCmd.AddCommand(listCmd, showCmd)
	return runsCmd
}
