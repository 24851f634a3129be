package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"pinsnap/pkg/config"
	"pinsnap/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage pinsnap configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (PINSNAP_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'pinsnap.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration after merging all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

const exampleConfig = `# pinsnap configuration file
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with PINSNAP_
# For example: PINSNAP_BASE_URL, PINSNAP_MAX_ITEMS

# Feed search configuration
search:
  # Feed URL template; {query} is replaced with the escaped query
  base_url: "https://www.pinterest.com/search/pins/?q={query}"

  # CSS selector matching the feed images
  selector: 'img[src*="pinimg"]'

  # Number of images to capture per query
  max_items: 10

# Browser configuration
browser:
  # Run the browser without a visible window
  headless: true

  # User agent string (optional, leave empty for the browser default)
  user_agent: ""

  # Viewport dimensions
  viewport_width: 1920
  viewport_height: 1080

  # Page load timeout
  navigate_timeout: 30s

  # Per-operation timeout for queries, scrolls and screenshots
  call_timeout: 10s

# Rate limiting configuration
rate_limit:
  # Pause after every capture attempt
  capture_delay: 2s

  # Retry attempts for transient failures
  max_retries: 3
  retry_delay: 2s

# Infinite scroll configuration
scroll:
  # Maximum scan rounds per query
  max_rounds: 20

  # How long to wait for new content after a scroll
  settle_timeout: 5s

  # Fallback wait when the page height does not change
  settle_delay: 1s

  # Content polling period during the settle wait
  poll_interval: 250ms

# Output configuration
output:
  # Base directory for captured images
  base_directory: "./captures"

  # Create a sub-directory per query
  create_query_folders: true

  # Capture file extension
  file_extension: "png"

# Enrichment configuration
analysis:
  # Text extraction (OCR) inference endpoint; empty disables the stage
  ocr_endpoint: ""

  # Captioning inference endpoint; empty disables the stage
  caption_endpoint: ""

  # Per-request timeout for inference calls
  request_timeout: 60s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional, leave empty for console only)
  file: ""
`

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "pinsnap.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to match your feed")
	fmt.Println("2. Run 'pinsnap config validate' to check the configuration")
	fmt.Println("3. Start capturing with 'pinsnap scrape <query>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (PINSNAP_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			"pinsnap.yaml",
			"pinsnap.yml",
			".pinsnap.yaml",
			".pinsnap.yml",
			filepath.Join(os.Getenv("HOME"), ".pinsnap.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "pinsnap", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg := config.DefaultConfig()
	if err := cfg.LoadFromFile(configFile); err != nil {
		ui.PrintError("Configuration file is invalid", err.Error())
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration is valid")
}
