package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relog-dev/relog/core"
	"github.com/relog-dev/relog/gen"
	"github.com/relog-dev/relog/remote"
	"github.com/relog-dev/relog/repo"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var (
		repoPath  string
		sinceTag  string
		sinceDate string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "fetch-commits",
		Short: "Fetch raw commit records as JSON",
		Long:  "Walks history newest-first down to the given tag or date and writes the raw commit records as JSON, without shaping or summarizing.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repository, err := repo.Open(repoPath)
			if err != nil {
				return err
			}

			generator, err := gen.NewGenerator(repository, gen.Config{
				Bound:  core.Bound{Tag: sinceTag, Since: sinceDate},
				DryRun: true,
				Logger: opts.logger,
			})
			if err != nil {
				return err
			}

			result, err := generator.Fetch(ctx)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(result.Commits, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal commits: %w", err)
			}

			w, err := remote.NewWriter(ctx, output, nil)
			if err != nil {
				return err
			}
			if _, err := w.Write(append(data, '\n')); err != nil {
				w.Close()
				return fmt.Errorf("failed to write commits: %w", err)
			}
			if err := w.Close(); err != nil {
				return err
			}

			if output != remote.Stdout {
				result.Display(os.Stderr)
				fmt.Fprintf(os.Stderr, "%sWrote %d commit(s) to %s%s\n", SuccessColor, result.RecordsRead, output, ResetColor)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&repoPath, "repo-path", "r", "", "path to the git repository (required)")
	cmd.Flags().StringVar(&sinceTag, "since-tag", "", "fetch commits after this tag")
	cmd.Flags().StringVar(&sinceDate, "since-date", "", "fetch commits at or after this RFC 3339 date")
	cmd.Flags().StringVarP(&output, "output", "o", remote.Stdout, "output destination: -, path, file://, s3://")
	cmd.MarkFlagRequired("repo-path")

	return cmd
}
