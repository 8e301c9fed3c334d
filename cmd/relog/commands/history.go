package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relog-dev/relog/config"
	"github.com/relog-dev/relog/core"
	"github.com/relog-dev/relog/gen"
	"github.com/relog-dev/relog/store"
)

// archivePath resolves the archive location from flag or config file.
func archivePath(opts *rootOptions, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return "", err
	}
	cfg = cfg.FromEnv()
	if cfg.Archive == "" {
		return "", fmt.Errorf("%w: no archive configured, pass --archive or set it in %s", core.ErrConfig, config.DefaultPath)
	}
	return cfg.Archive, nil
}

func newHistoryCommand(opts *rootOptions) *cobra.Command {
	var (
		archive string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded changelog runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := archivePath(opts, archive)
			if err != nil {
				return err
			}

			s, err := store.Open(path)
			if err != nil {
				return err
			}
			defer s.Close()

			runs, err := s.History(cmd.Context(), limit)
			if err != nil {
				return err
			}

			table := gen.NewTable(cmd.OutOrStdout())
			table.Header([]string{"ID", "REPO", "RANGE", "GENERATED", "SCANNED", "RETAINED", "FAILED"})
			for _, r := range runs {
				table.Row([]string{
					strconv.FormatInt(r.ID, 10),
					r.Repo,
					r.Range,
					r.GeneratedAt,
					strconv.Itoa(r.Scanned),
					strconv.Itoa(r.Retained),
					strconv.Itoa(r.Failed),
				})
			}
			table.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d run(s)\n", len(runs))
			return nil
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "DuckDB archive path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")

	return cmd
}
