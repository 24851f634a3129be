package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pinsnap/pkg/browser"
	"pinsnap/pkg/config"
	"pinsnap/pkg/export"
	"pinsnap/pkg/logger"
	"pinsnap/pkg/models"
	"pinsnap/pkg/retry"
	"pinsnap/pkg/scraper"
	"pinsnap/pkg/storage"
	"pinsnap/pkg/ui"
)

var (
	// Scrape command flags
	outputDir    string
	captureCount int
	captureDelay time.Duration
	maxRounds    int
	selector     string
	headless     bool
	exportDir    string
	exportFormat string
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <query> [query...]",
	Short: "Capture feed images matching one or more search queries",
	Long: `Search the configured feed for each query and capture the matching
images as files.

Queries run one after another. Each run scrolls the feed until the
requested number of images was captured, the feed stops yielding new
content, or the scan-round budget runs out.`,
	Example: `  # Capture ten images with default settings
  pinsnap scrape "interior design"

  # Capture 25 images per query into a specific directory
  pinsnap scrape "mountains" "lakes" --count 25 --output ./captures

  # Slow down between captures and watch the browser work
  pinsnap scrape "tattoo ideas" --rate-limit 5s --headless=false

  # Write a JSON run report next to the captures
  pinsnap scrape "posters" --export ./reports --export-format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "base directory for captured images")
	scrapeCmd.Flags().IntVarP(&captureCount, "count", "n", 0, "number of images to capture per query")
	scrapeCmd.Flags().DurationVar(&captureDelay, "rate-limit", -1, "pause between capture attempts")
	scrapeCmd.Flags().IntVar(&maxRounds, "max-rounds", 0, "maximum scan rounds per query")
	scrapeCmd.Flags().StringVar(&selector, "selector", "", "CSS selector for feed images")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().StringVar(&exportDir, "export", "", "directory to write run reports to")
	scrapeCmd.Flags().StringVar(&exportFormat, "export-format", "json", "run report format (json, csv)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadScrapeConfig(cmd)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		return err
	}

	format := export.FormatJSON
	if exportDir != "" {
		format, err = export.ParseFormat(exportFormat)
		if err != nil {
			ui.PrintError("Invalid export format", err.Error())
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := browser.NewChrome(ctx, browser.Options{
		Headless:        cfg.Browser.Headless,
		UserAgent:       cfg.Browser.UserAgent,
		ViewportWidth:   cfg.Browser.ViewportWidth,
		ViewportHeight:  cfg.Browser.ViewportHeight,
		NavigateTimeout: cfg.Browser.NavigateTimeout.Std(),
		CallTimeout:     cfg.Browser.CallTimeout.Std(),
	}, logger.GetLogger())
	if err != nil {
		ui.PrintError("Failed to start browser", err.Error())
		return err
	}
	defer driver.Close()

	for _, query := range args {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if !quiet {
			ui.PrintInfo("Query", query)
		}

		result, err := captureQuery(ctx, driver, cfg, query, format)
		if outcome := queryOutcome(result, err); outcome != nil {
			return outcome
		}
	}
	return nil
}

// queryOutcome translates a finished query into the command's error.
// An aborted run stops the whole invocation, letting the deferred
// browser and signal teardown fire on the way out.
func queryOutcome(result *models.RunResult, err error) error {
	if err != nil {
		ui.PrintError("Capture aborted", err.Error())
		return errRunFailed
	}
	if result != nil && !result.Succeeded() {
		return errRunFailed
	}
	return nil
}

func captureQuery(ctx context.Context, driver browser.Driver, cfg *config.Config, query string, format export.Format) (*models.RunResult, error) {
	store, err := storage.NewManager(scraper.OutputDir(cfg, query), cfg.Output.FileExtension)
	if err != nil {
		return nil, fmt.Errorf("storage setup: %w", err)
	}

	url := scraper.SearchURL(cfg.Search.BaseURL, query)
	err = retry.Do(func() error {
		start := time.Now()
		navErr := driver.Navigate(ctx, url)
		logger.LogNavigation(url, time.Since(start), navErr)
		return navErr
	}, &retry.Config{
		MaxAttempts: cfg.RateLimit.MaxRetries,
		Backoff:     &retry.ConstantBackoff{Delay: cfg.RateLimit.RetryDelay.Std()},
		RetryIf:     retry.DefaultRetryIf,
		Context:     ctx,
		Logger:      logger.GetLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}

	progress := ui.NewProgress(quiet)
	progress.Start(query)

	engine := scraper.New(driver, store, cfg)
	result, runErr := engine.Run(ctx, query)
	progress.Summary(result)

	if exportDir != "" {
		reportPath := filepath.Join(exportDir, storage.Slugify(query)+"_report."+string(format))
		if err := export.WriteRunResult(result, reportPath, format); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to write run report")
			ui.PrintWarning("Failed to write run report", err.Error())
		} else if !quiet {
			ui.PrintInfo("Report", reportPath)
		}
	}

	return result, runErr
}

func loadScrapeConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if captureCount > 0 {
		flags["count"] = captureCount
	}
	if captureDelay >= 0 {
		flags["rate-limit"] = captureDelay
	}
	if maxRounds > 0 {
		flags["max-rounds"] = maxRounds
	}
	if selector != "" {
		flags["selector"] = selector
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return config.Load(configFile, flags)
}
