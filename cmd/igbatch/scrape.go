package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"igbatch/internal/runner"
	"igbatch/pkg/auth"
	"igbatch/pkg/config"
	"igbatch/pkg/errors"
	"igbatch/pkg/logger"
	"igbatch/pkg/ui"
	"igbatch/pkg/ui/tui"
)

var (
	// Scrape command flags
	batchFile   string
	outputDir   string
	postsFlag   int
	dedupeEdges bool
	useTUI      bool
	uploadFlag  bool
	databaseURL string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape every username in a batch file",
	Long: `Scrape every username listed in the batch file, one per line.

For each account igbatch records the profile, up to --posts recent posts,
and every follower and followee. Usernames that do not exist are skipped.

The login comes from instagram.username and instagram.password, or from a
credential stored with 'igbatch auth login'.`,
	Example: `  # Scrape 10 posts per user into ./out
  igbatch scrape -b users.txt -o ./out --posts 10

  # Profiles and follower network only
  igbatch scrape -b users.txt --posts 0

  # Live progress view, then upload the results
  igbatch scrape -b users.txt --tui --upload`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&batchFile, "batch", "b", "", "file with one username per line")
	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: directory of the executable)")
	scrapeCmd.Flags().IntVar(&postsFlag, "posts", -1, "posts per username (overrides instagram.posts_per_username)")
	scrapeCmd.Flags().BoolVar(&dedupeEdges, "dedupe-edges", false, "write each follow relation once")
	scrapeCmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive progress view")
	scrapeCmd.Flags().BoolVar(&uploadFlag, "upload", false, "upload the output files to the configured bucket")
	scrapeCmd.Flags().StringVar(&databaseURL, "database-url", "", "also write rows to this Postgres database")
	_ = scrapeCmd.MarkFlagRequired("batch")
}

// scrapeFlags collects the flags that override configuration values
func scrapeFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if postsFlag >= 0 {
		flags["posts"] = postsFlag
	}
	if dedupeEdges {
		flags["dedupe-edges"] = true
	}
	if uploadFlag {
		flags["upload"] = true
	}
	if databaseURL != "" {
		flags["database-url"] = databaseURL
	}
	if logLevel != "" {
		flags["log-level"] = logLevel
	}
	return flags
}

func runScrape(cmd *cobra.Command, args []string) error {
	manager, err := auth.NewManager()
	if err != nil {
		manager = auth.NewManagerWithStores(auth.NewEnvironmentStore())
	}

	cfg, err := loadScrapeConfig(manager)
	if err != nil {
		return err
	}

	// progress lines replace info logs unless asked for
	if !verbose && logLevel == "" && cfg.Logging.Level == "info" {
		cfg.Logging.Level = "error"
	}

	var console io.Writer = os.Stderr
	if useTUI {
		// zerolog output would tear the alternate screen
		console = io.Discard
	}
	if err := logger.InitializeWithWriter(&cfg.Logging, console); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := runner.New(cfg, logger.GetLogger())

	var result *runner.Result
	if useTUI {
		result, err = runWithTUI(ctx, r)
	} else {
		if !ui.IsQuiet() {
			r.SetReporter(ui.NewConsoleReporter(nil, verbose))
		}
		result, err = r.Run(ctx, batchFile)
	}
	if err != nil {
		if errors.IsType(err, errors.ErrorTypeTwoFactor) {
			auth.ShowTwoFactorHelp(cfg.Instagram.Username)
			return &reportedError{err: err}
		}
		return err
	}

	ui.PrintInfo("Output directory", result.OutputDir)
	ui.PrintInfo("Run ID", result.RunID)
	if len(result.Uploaded) > 0 {
		ui.PrintInfo("Uploaded to", cfg.Upload.Bucket+": "+strings.Join(result.Uploaded, ", "))
	}
	ui.Println("Done!")
	return nil
}

// loadScrapeConfig layers all configuration sources and fills in the login
// from the credential store when the configuration does not carry it
func loadScrapeConfig(manager *auth.Manager) (*config.Config, error) {
	cfg, err := config.LoadUnvalidated(configFile, scrapeFlags())
	if err != nil {
		return nil, err
	}

	if cfg.Instagram.Username == "" {
		if accounts, err := manager.List(); err == nil && len(accounts) == 1 {
			cfg.Instagram.Username = accounts[0].Username
		}
	}
	if cfg.Instagram.Password == "" && cfg.Instagram.Username != "" {
		if password, err := manager.Password(cfg.Instagram.Username); err == nil {
			cfg.Instagram.Password = password
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.Instagram.Password == "" {
		return nil, fmt.Errorf("%w: instagram.password (or store one with 'igbatch auth login')", config.ErrMissingConfig)
	}
	return cfg, nil
}

// runWithTUI runs the batch in the background while the progress view owns
// the terminal. Quitting the view cancels the run.
func runWithTUI(ctx context.Context, r *runner.Runner) (*runner.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	view := tui.NewTUI(cancel)
	r.SetReporter(view)

	type outcome struct {
		result *runner.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := r.Run(ctx, batchFile)
		if err == nil {
			view.Log(tui.LevelInfo, "Wrote %s", strings.Join(result.Files, ", "))
		}
		// no-op when Start has already failed
		view.Done(err)
		done <- outcome{result: result, err: err}
	}()

	if err := view.Start(); err != nil {
		cancel()
		<-done
		return nil, fmt.Errorf("terminal UI failed: %w", err)
	}

	o := <-done
	return o.result, o.err
}
