package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sagarc03/mydropbox"
	"github.com/sagarc03/mydropbox/config"
	"github.com/sagarc03/mydropbox/gateway"
	"github.com/sagarc03/mydropbox/shell"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "mydropbox",
	Version: version,
	Short:   "Interactive client for the myDropbox storage gateway",
	Long: `mydropbox is an interactive shell for storing, retrieving and sharing
files through the myDropbox storage gateway.

The gateway endpoint is read from --endpoint, MYDROPBOX_GATEWAY_ENDPOINT,
API_GATEWAY (environment or ./.env) or the config file written by
'mydropbox configure'.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runShell,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default: ./config.yaml, then ~/.mydropbox/config.yaml)")
	flags.String("endpoint", "", "gateway endpoint URL (env: MYDROPBOX_GATEWAY_ENDPOINT or API_GATEWAY)")
	flags.String("api-prefix", "", "gateway API path prefix (default: /act5/api/v1)")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none")
	flags.String("log-level", "", "log level: debug, info, warn, error (default: warn)")
	flags.String("log-format", "", "log format: text, json (default: text)")
	flags.StringP("output", "o", "", "output format: text, json, yaml (default: text)")
	flags.String("dir", "", "local directory for put and get (default: .)")
	flags.BoolP("quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(configureCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves configuration, sets up logging and stores the config
// in the command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	setupLogging(cfg.Log)
	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
	return nil
}

func runShell(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	client, err := gateway.New(cfg.Gateway.ClientConfig(), gateway.WithLogger(slog.Default()))
	if err != nil {
		return err
	}

	svc, err := mydropbox.NewService(client,
		mydropbox.WithLocalDir(cfg.Files.Dir),
		mydropbox.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	formatter, err := shell.NewFormatter(cfg.Output.Format, quiet)
	if err != nil {
		return err
	}

	opts := []shell.Option{
		shell.WithInput(cmd.InOrStdin()),
		shell.WithOutput(cmd.OutOrStdout()),
		shell.WithFormatter(formatter),
		shell.WithLogger(slog.Default()),
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		opts = append(opts, shell.WithPrompter(&shell.TerminalPrompter{}))
	}

	slog.Debug("starting shell", "base_url", client.BaseURL(), "dir", cfg.Files.Dir)

	err = shell.New(svc, mydropbox.NewSession(), opts...).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
