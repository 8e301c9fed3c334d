package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/relog-dev/relog/gen"
	"github.com/relog-dev/relog/store"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var archive string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-author stats over recorded runs",
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

			stats, err := s.AuthorStats(cmd.Context())
			if err != nil {
				return err
			}

			table := gen.NewTable(cmd.OutOrStdout())
			table.Header([]string{"AUTHOR", "RETAINED", "FAILED"})
			for _, stat := range stats {
				table.Row([]string{stat.Author, strconv.Itoa(stat.Retained), strconv.Itoa(stat.Failed)})
			}
			table.Render()
			fmt.Fprintf(cmd.OutOrStdout(), "%d author(s)\n", len(stats))
			return nil
		},
	}

	cmd.Flags().StringVar(&archive, "archive", "", "DuckDB archive path")

	return cmd
}
