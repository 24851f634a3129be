package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"pinsnap/pkg/config"
	"pinsnap/pkg/enrich"
	"pinsnap/pkg/export"
	"pinsnap/pkg/logger"
	"pinsnap/pkg/ui"
)

var (
	// Analyze command flags
	ocrEndpoint     string
	captionEndpoint string
	analyzeOut      string
	analyzeFormat   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <directory>",
	Short: "Enrich captured images with OCR text, captions and keywords",
	Long: `Run every image in a capture directory through the configured
inference services and write the enrichment results.

Text extraction and captioning each need an inference endpoint; a
stage without one is skipped. Files the services cannot process are
logged and skipped, the sweep continues.`,
	Example: `  # Analyze a capture directory with both stages configured
  pinsnap analyze ./captures/interior_design \
    --ocr-endpoint http://localhost:8601/ocr \
    --caption-endpoint http://localhost:8601/caption

  # Write results as CSV
  pinsnap analyze ./captures/posters --out analyses.csv --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&ocrEndpoint, "ocr-endpoint", "", "text extraction inference endpoint")
	analyzeCmd.Flags().StringVar(&captionEndpoint, "caption-endpoint", "", "captioning inference endpoint")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "analyses.json", "output file for enrichment results")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format (json, csv)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	dir := strings.TrimSpace(args[0])

	cfg, err := config.Load(configFile, map[string]interface{}{"log-level": logLevel})
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		return err
	}
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logger", err.Error())
		return err
	}

	if ocrEndpoint != "" {
		cfg.Analysis.OCREndpoint = ocrEndpoint
	}
	if captionEndpoint != "" {
		cfg.Analysis.CaptionEndpoint = captionEndpoint
	}

	format, err := export.ParseFormat(analyzeFormat)
	if err != nil {
		ui.PrintError("Invalid output format", err.Error())
		return err
	}

	analyzer := enrich.NewAnalyzer(&cfg.Analysis)
	defer analyzer.Close()
	if !analyzer.Enabled() {
		err := fmt.Errorf("no inference endpoint configured (set --ocr-endpoint or --caption-endpoint)")
		ui.PrintError("Nothing to do", err.Error())
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		ui.PrintInfo("Analyzing", dir)
	}

	analyses, err := analyzer.AnalyzeDirectory(ctx, dir)
	if err != nil {
		ui.PrintError("Analysis failed", err.Error())
		return err
	}

	if err := export.WriteAnalyses(analyses, analyzeOut, format); err != nil {
		ui.PrintError("Failed to write results", err.Error())
		return err
	}

	if !quiet {
		ui.PrintSuccess(fmt.Sprintf("Analyzed %d files", len(analyses)))
		ui.PrintInfo("Results", analyzeOut)
	}
	return nil
}
