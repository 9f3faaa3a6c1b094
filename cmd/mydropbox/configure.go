package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/mydropbox/config"
	"github.com/sagarc03/mydropbox/gateway"
	"github.com/sagarc03/mydropbox/shell"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Write the gateway settings to a config file",
	Long: `Write the gateway settings to a config file interactively.

You will be prompted for:
  - Gateway endpoint URL
  - API path prefix
  - Output format

The endpoint connection will be tested before saving.

Configuration is stored in ~/.mydropbox/config.yaml unless --config is given.`,
	Args: cobra.NoArgs,
	// The endpoint may not exist yet, so the full config is not loaded.
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		setupLogging(config.LogConfig{Level: level, Format: "text"})
		return nil
	},
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	if configPath == "" {
		return errors.New("cannot determine config path, use --config")
	}

	cfg := &config.Config{
		Gateway: config.GatewayConfig{APIPrefix: gateway.DefaultAPIPrefix},
		Log:     config.LogConfig{Level: "warn", Format: "text"},
		Output:  config.OutputConfig{Format: shell.FormatText},
		Files:   config.FilesConfig{Dir: "."},
	}

	existing, err := config.ReadFile(configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load config: %w", err)
	}
	if existing != nil {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Config '%s' already exists. Update it", configPath),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
		mergeExisting(cfg, existing)
	}

	// Prompt for endpoint URL
	endpointPrompt := promptui.Prompt{
		Label:    "Gateway endpoint URL",
		Default:  cfg.Gateway.Endpoint,
		Validate: validateEndpoint,
	}
	endpointURL, err := endpointPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	// Prompt for API prefix
	prefixPrompt := promptui.Prompt{
		Label:   "API path prefix",
		Default: cfg.Gateway.APIPrefix,
	}
	apiPrefix, err := prefixPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	// Select output format
	formatSelect := promptui.Select{
		Label: "Output format",
		Items: []string{shell.FormatText, shell.FormatJSON, shell.FormatYAML},
	}
	_, outputFormat, err := formatSelect.Run()
	if err != nil {
		return handlePromptError(err)
	}

	cfg.Gateway.Endpoint = strings.TrimSuffix(endpointURL, "/")
	cfg.Gateway.APIPrefix = apiPrefix
	cfg.Output.Format = outputFormat

	// Test connection
	fmt.Print("Testing connection... ")
	if connErr := testServerConnection(cfg.Gateway.ClientConfig().WithDefaults().BaseURL()); connErr != nil {
		fmt.Println("FAILED")
		fmt.Printf("Warning: Could not connect to gateway: %v\n", connErr)

		continuePrompt := promptui.Prompt{
			Label:     "Save config anyway",
			IsConfirm: true,
		}
		if _, promptErr := continuePrompt.Run(); promptErr != nil {
			fmt.Println("Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	} else {
		fmt.Println("OK")
	}

	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("Config saved to %s.\n", configPath)
	return nil
}

// mergeExisting keeps the non-empty values of a previously saved config.
func mergeExisting(cfg, existing *config.Config) {
	if existing.Gateway.Endpoint != "" {
		cfg.Gateway.Endpoint = existing.Gateway.Endpoint
	}
	if existing.Gateway.APIPrefix != "" {
		cfg.Gateway.APIPrefix = existing.Gateway.APIPrefix
	}
	cfg.Gateway.Timeout = existing.Gateway.Timeout
	if existing.Log.Level != "" {
		cfg.Log.Level = existing.Log.Level
	}
	if existing.Log.Format != "" {
		cfg.Log.Format = existing.Log.Format
	}
	if existing.Output.Format != "" {
		cfg.Output.Format = existing.Output.Format
	}
	if existing.Files.Dir != "" {
		cfg.Files.Dir = existing.Files.Dir
	}
}

func validateEndpoint(input string) error {
	if input == "" {
		return errors.New("endpoint URL is required")
	}
	parsedURL, parseErr := url.Parse(input)
	if parseErr != nil {
		return fmt.Errorf("invalid URL: %w", parseErr)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}
	if parsedURL.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

// testServerConnection tests if the gateway is reachable.
// Any HTTP response counts as success.
func testServerConnection(endpointURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	return nil
}

// handlePromptError handles promptui errors.
func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) {
		fmt.Println("\nCancelled.")
		os.Exit(0)
	}
	if errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
