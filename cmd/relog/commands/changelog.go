package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relog-dev/relog/config"
	"github.com/relog-dev/relog/core"
	"github.com/relog-dev/relog/gen"
	"github.com/relog-dev/relog/llm"
	"github.com/relog-dev/relog/prompt"
	"github.com/relog-dev/relog/remote"
	"github.com/relog-dev/relog/repo"
	"github.com/relog-dev/relog/store"
)

type changelogOptions struct {
	repoPath  string
	repoURL   string
	sinceTag  string
	sinceDate string
	input     string
	output    string

	model       string
	temperature float64
	maxTokens   int
	baseURL     string
	apiKey      string
	promptPath  string
	dryRun      bool
	concurrency int
	archive     string

	authType        string
	token           string
	keyPath         string
	username        string
	password        string
	appID           string
	appKeyPath      string
	appInstallation string
}

func newChangelogCommand(opts *rootOptions) *cobra.Command {
	var o changelogOptions

	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Generate a summarized changelog",
		Long:  "Fetches commits from a repository (or a previously fetched JSON file), shapes them for release notes and summarizes each retained commit. The Markdown document is written only after every summarization attempt has settled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			cfg = cfg.FromEnv()
			o.applyDefaults(cmd, cfg)

			source, err := o.source(ctx)
			if err != nil {
				return err
			}

			template, err := o.template(ctx)
			if err != nil {
				return err
			}

			genConfig := gen.Config{
				Bound:       core.Bound{Tag: o.sinceTag, Since: o.sinceDate},
				Template:    template,
				Concurrency: o.concurrency,
				DryRun:      o.dryRun,
				Logger:      opts.logger,
			}

			if !o.dryRun {
				apiKey := o.apiKey
				if apiKey == "" {
					apiKey = os.Getenv("OPENAI_API_KEY")
				}
				client, err := llm.NewOpenAI(llm.Config{
					APIKey:      apiKey,
					BaseURL:     o.baseURL,
					Model:       o.model,
					Temperature: o.temperature,
					MaxTokens:   o.maxTokens,
					Logger:      opts.logger,
				})
				if err != nil {
					return err
				}
				genConfig.Client = client
			}

			generator, err := gen.NewGenerator(source, genConfig)
			if err != nil {
				return err
			}

			result, err := generator.Changelog(ctx)
			if err != nil {
				return err
			}

			if o.archive != "" && !o.dryRun {
				if err := recordRun(ctx, o.archive, result); err != nil {
					return err
				}
			}

			document := result.Markdown()
			if o.dryRun {
				document = result.DryRunReport()
			}

			w, err := remote.NewWriter(ctx, o.output, nil)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, document); err != nil {
				w.Close()
				return fmt.Errorf("failed to write changelog: %w", err)
			}
			if err := w.Close(); err != nil {
				return err
			}

			result.Display(os.Stderr)
			return nil
		},
	}

	cmd.Flags().StringVarP(&o.repoPath, "repo-path", "r", "", "path to the git repository")
	cmd.Flags().StringVar(&o.repoURL, "repo-url", "", "clone this repository URL instead of opening a path")
	cmd.Flags().StringVar(&o.sinceTag, "since-tag", "", "summarize commits after this tag")
	cmd.Flags().StringVar(&o.sinceDate, "since-date", "", "summarize commits at or after this RFC 3339 date")
	cmd.Flags().StringVar(&o.input, "input", "", "read commit records from a previously fetched JSON file instead of a repository")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output destination: -, path, file://, s3://")

	cmd.Flags().StringVar(&o.model, "model", "", "model identifier")
	cmd.Flags().Float64Var(&o.temperature, "temperature", llm.DefaultTemperature, "sampling temperature")
	cmd.Flags().IntVar(&o.maxTokens, "max-tokens", 0, "maximum summary tokens")
	cmd.Flags().StringVar(&o.baseURL, "base-url", "", "chat completion API base URL")
	cmd.Flags().StringVar(&o.apiKey, "api-key", "", "API key (default OPENAI_API_KEY)")
	cmd.Flags().StringVar(&o.promptPath, "prompt", "", "prompt template: path, file://, s3:// or http(s):// URL")
	cmd.Flags().BoolVar(&o.dryRun, "dry-run", false, "skip the summarization calls and report the prompts that would be sent")
	cmd.Flags().IntVar(&o.concurrency, "concurrency", 0, "concurrent summarization calls")
	cmd.Flags().StringVar(&o.archive, "archive", "", "record the run in this DuckDB archive")

	cmd.Flags().StringVar(&o.authType, "auth", "none", "auth for --repo-url: none, token, ssh, basic, github-app")
	cmd.Flags().StringVar(&o.token, "token", "", "access token for token auth")
	cmd.Flags().StringVar(&o.keyPath, "key-path", "", "SSH private key path")
	cmd.Flags().StringVar(&o.username, "username", "", "username for basic auth")
	cmd.Flags().StringVar(&o.password, "password", "", "password for basic auth")
	cmd.Flags().StringVar(&o.appID, "app-id", "", "GitHub App id")
	cmd.Flags().StringVar(&o.appKeyPath, "app-key", "", "GitHub App private key path")
	cmd.Flags().StringVar(&o.appInstallation, "app-installation", "", "GitHub App installation id")

	return cmd
}

// applyDefaults fills unset flags from the config file. Flags the user set
// always win; the file only provides fallbacks.
func (o *changelogOptions) applyDefaults(cmd *cobra.Command, cfg config.File) {
	if o.model == "" {
		o.model = cfg.Model
	}
	if o.baseURL == "" {
		o.baseURL = cfg.BaseURL
	}
	if !cmd.Flags().Changed("temperature") && cfg.Temperature != nil {
		o.temperature = *cfg.Temperature
	}
	if o.maxTokens == 0 {
		o.maxTokens = cfg.MaxTokens
	}
	if o.promptPath == "" {
		o.promptPath = cfg.Prompt
	}
	if o.concurrency == 0 {
		o.concurrency = cfg.Concurrency
	}
	if o.archive == "" {
		o.archive = cfg.Archive
	}
	if o.output == "" {
		o.output = cfg.Output
	}
	if o.output == "" {
		o.output = remote.Stdout
	}
}

// source picks the commit source: a JSON file, a remote clone, or a local
// repository path.
func (o *changelogOptions) source(ctx context.Context) (gen.Source, error) {
	if o.input != "" {
		if o.repoPath != "" || o.repoURL != "" {
			return nil, fmt.Errorf("%w: --input is mutually exclusive with --repo-path and --repo-url", core.ErrConfig)
		}

		r, err := remote.NewReader(ctx, o.input, nil)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		var commits []core.Commit
		if err := json.NewDecoder(r).Decode(&commits); err != nil {
			return nil, fmt.Errorf("%w: failed to decode commits from %s: %v", core.ErrFormat, o.input, err)
		}

		name := strings.TrimSuffix(filepath.Base(o.input), filepath.Ext(o.input))
		return gen.NewRecords(name, commits), nil
	}

	if o.repoPath != "" && o.repoURL != "" {
		return nil, fmt.Errorf("%w: --repo-path and --repo-url are mutually exclusive", core.ErrConfig)
	}

	if o.repoURL != "" {
		return repo.Clone(o.repoURL, &repo.Auth{
			Type:            repo.AuthType(o.authType),
			Token:           o.token,
			KeyPath:         o.keyPath,
			Username:        o.username,
			Password:        o.password,
			AppID:           o.appID,
			AppKeyPath:      o.appKeyPath,
			AppInstallation: o.appInstallation,
		})
	}

	if o.repoPath == "" {
		return nil, fmt.Errorf("%w: one of --repo-path, --repo-url or --input is required", core.ErrConfig)
	}
	return repo.Open(o.repoPath)
}

// template loads the prompt template from a path or URL, falling back to
// the built-in one.
func (o *changelogOptions) template(ctx context.Context) (*prompt.Template, error) {
	if o.promptPath == "" {
		return nil, nil // generator falls back to the built-in template
	}

	r, err := remote.NewReader(ctx, o.promptPath, nil)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template %s: %w", o.promptPath, err)
	}
	return prompt.Parse(string(data))
}

// recordRun archives the finished run.
func recordRun(ctx context.Context, path string, result gen.ChangelogResult) error {
	archive, err := store.Open(path)
	if err != nil {
		return err
	}
	defer archive.Close()

	_, err = archive.RecordRun(ctx, result.Changelog, result.CommitsScanned)
	return err
}
