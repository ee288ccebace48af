package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/shelfport/shelfport/internal/adapters/fs"
	rodadapter "github.com/shelfport/shelfport/internal/adapters/rod"
	"github.com/shelfport/shelfport/internal/app"
	"github.com/shelfport/shelfport/internal/cliconfig"
	"github.com/shelfport/shelfport/internal/domain"
	"github.com/shelfport/shelfport/internal/ledger"
	"github.com/shelfport/shelfport/internal/resolve"
	"github.com/shelfport/shelfport/internal/strategy"
	"github.com/shelfport/shelfport/internal/workflow"
	logpkg "github.com/shelfport/shelfport/pkg/log"
)

const helpDescription = `
Import a JSON library export into your cataloging account by driving the
site's own entry forms in a real browser session.

Highlights:
  - Matches books against the catalog by identifier before falling back to
    manual entry, so existing works stay linked.
  - Resumes cleanly: failed ids land in the errors file and can be re-run
    with --book-ids @errors.txt in their original order.
  - Configure via file ($HOME/.shelfport/config.toml), SHELFPORT_* env, or flags.

Log in once in the opened browser; the session is saved for later runs.
`

var exampleUsage = strings.TrimSpace(`
  shelfport export.json
  shelfport export.json --supplement export_full.json --tag imported
  shelfport export.json --book-ids @errors.txt --errors-file errors.txt
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "shelfport [input.json]",
		Short:   "Import a JSON library export into your cataloging account",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Args:    cobra.MaximumNArgs(1),
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				cfg.InputPath = args[0]
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags so file and env never override
			// anything given explicitly.
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) > 0 {
				changed["input"] = true
			}

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, err)
			}

			return run(cmd.Context(), cfg, cfgFile)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.shelfport/config.toml)")
	root.Flags().StringVar(&cfg.SupplementPath, "supplement", cfg.SupplementPath, "supplementary JSON export with fields the primary export lacks")
	root.Flags().StringVarP(&cfg.BookIDs, "book-ids", "i", cfg.BookIDs, "book ids to import (comma/space separated, or @file)")
	root.Flags().StringVarP(&cfg.ErrorsFile, "errors-file", "e", cfg.ErrorsFile, "write ids of failed books to this file as they fail")
	root.Flags().StringVarP(&cfg.SessionFile, "session-file", "c", cfg.SessionFile, "file holding the saved browser session")
	root.Flags().StringVar(&cfg.Tag, "tag", cfg.Tag, "extra tag added to every imported book")
	root.Flags().BoolVar(&cfg.NoSourceSearch, "no-source", cfg.NoSourceSearch, "skip catalog search and enter every book manually")
	root.Flags().StringVar(&cfg.SearchBy, "search-by", cfg.SearchBy, "identifier priority for catalog searches, comma-separated (ean, upc, asin, lccn, oclc, isbn)")
	root.Flags().BoolVar(&cfg.NoVenueSearch, "no-venue-search", cfg.NoVenueSearch, "enter the from-where value as free text without searching venues")
	root.Flags().StringVar(&cfg.Summary, "summary", cfg.Summary, "summary field handling: auto (let the site generate it) or json (use the export value)")
	root.Flags().StringVar(&cfg.PhysicalSummary, "physical-summary", cfg.PhysicalSummary, "physical description handling: auto or json")
	root.Flags().BoolVar(&cfg.Private, "private", cfg.Private, "mark every imported book private")
	root.Flags().DurationVar(&cfg.StepTimeout, "step-timeout", cfg.StepTimeout, "timeout for each browser interaction")
	root.Flags().DurationVar(&cfg.Pacing, "pacing", cfg.Pacing, "delay between books")
	root.Flags().CountVarP(&cfg.Verbose, "verbose", "v", "increase log verbosity (repeatable)")

	root.Flags().StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "destination site base URL")
	if err := root.Flags().MarkHidden("base-url"); err != nil {
		fmt.Fprintln(os.Stderr, "failed to hide base-url flag:", err)
	}
	root.Flags().BoolVar(&cfg.Headless, "headless", cfg.Headless, "run the browser without a window (requires a saved session)")
	root.Flags().StringVar(&cfg.BrowserBin, "browser-bin", cfg.BrowserBin, "browser binary to launch")
	root.Flags().StringVar(&cfg.DebuggerURL, "debugger-url", cfg.DebuggerURL, "attach to a running browser at this debugger URL")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "shelfport:", err)
		if errors.Is(err, domain.ErrInterrupted) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliconfig.Config, cfgFile string) error {
	zl := cliconfig.Logger(cfg.Verbose)
	logger := logpkg.NewZerologAdapterWithLogger(zl)

	// Log configuration, masking nothing sensitive: the session lives in a
	// file, not in the config.
	zl.Info().Interface("config", cfg).Msg("configuration")

	var bookIDs []string
	if cfg.BookIDs != "" {
		ids, err := ledger.ParseIDList(cfg.BookIDs)
		if err != nil {
			return err
		}
		bookIDs = ids
	}

	sessions := fs.NewSessionFileStore(cfg.SessionFile)
	driver := rodadapter.New(rodadapter.Config{
		BaseURL:     cfg.BaseURL,
		DebuggerURL: cfg.DebuggerURL,
		Bin:         cfg.BrowserBin,
		Headless:    cfg.Headless,
		NavTimeout:  cfg.StepTimeout,
	}, sessions, logger)

	if err := driver.Start(ctx); err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		if err := driver.Stop(context.Background()); err != nil {
			logger.Warn("browser shutdown", logpkg.Err(err))
		}
	}()

	searchBy, err := strategy.ParseSearchBy(cfg.SearchBy)
	if err != nil {
		return err
	}
	if len(searchBy) == 0 {
		searchBy = strategy.DefaultSearchBy
	}

	flow := workflow.New(workflow.Config{
		Resolve: resolve.Config{
			VenueSearch:    !cfg.NoVenueSearch,
			SummaryPolicy:  fillPolicy(cfg.Summary),
			PhysicalPolicy: fillPolicy(cfg.PhysicalSummary),
		},
		Strategy: strategy.Config{
			ForceManual: cfg.NoSourceSearch,
			SearchBy:    searchBy,
		},
		Tag:           cfg.Tag,
		ImportPrivate: cfg.Private,
		StepTimeout:   cfg.StepTimeout,
	}, driver, logger)

	runner := app.NewRunner(app.RunnerConfig{
		InputPath:      cfg.InputPath,
		SupplementPath: cfg.SupplementPath,
		BookIDs:        bookIDs,
		ErrorsFile:     cfg.ErrorsFile,
		Pacing:         cfg.Pacing,
	}, driver, flow, logger)

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		watcher := app.NewConfigWatcher(cfgFile, runner, cliconfig.ReloadPacing, logger)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watch unavailable", logpkg.Err(err))
		} else {
			defer watcher.Stop()
		}
	}

	runErr := runner.Run(ctx)
	if cfg.ErrorsFile == "" && len(runner.Ledger().FailedIDs()) > 0 {
		// Failed ids go to stderr when no errors file captures them.
		fmt.Fprintln(os.Stderr, "failed book ids:")
		if err := runner.Ledger().Flush(os.Stderr); err != nil {
			logger.Warn("could not list failed ids", logpkg.Err(err))
		}
	}
	return runErr
}

func fillPolicy(policy string) resolve.FillPolicy {
	if policy == cliconfig.SummaryJSON {
		return resolve.FillAlways
	}
	return resolve.FillBlank
}
