package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessiex/kytan/application"
	"github.com/jessiex/kytan/infrastructure/logging"
	"github.com/jessiex/kytan/infrastructure/settings"
	"github.com/jessiex/kytan/presentation"
	"github.com/jessiex/kytan/presentation/elevation"
	"github.com/spf13/cobra"
)

func main() {
	logger := logging.NewLogrusLogger()

	if !elevation.NewProcessElevation().IsElevated() {
		logger.Warnf("kytan must be run with admin privileges")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if err := newRootCommand(ctx, logger).Execute(); err != nil {
		logger.Warnf("%v", err)
		os.Exit(1)
	}
}

func newRootCommand(ctx context.Context, logger application.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "kytan",
		Short:         "A lightweight point-to-point VPN over UDP",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(ctx, logger)
		},
	}

	var clientSettings settings.ClientSettings
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Connect to a kytan server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return presentation.StartClient(ctx, clientSettings, logger)
		},
	}
	clientCmd.Flags().StringVarP(&clientSettings.Host, "server", "s", "", "server host name or address")
	clientCmd.Flags().Uint16VarP(&clientSettings.Port, "port", "p", settings.DefaultPort, "server UDP port")
	clientCmd.Flags().BoolVarP(&clientSettings.DefaultGateway, "default-gateway", "d", false,
		"route all traffic through the tunnel")
	_ = clientCmd.MarkFlagRequired("server")

	var serverSettings settings.ServerSettings
	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Accept kytan clients (Linux only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return presentation.StartServer(ctx, serverSettings, logger)
		},
	}
	serverCmd.Flags().Uint16VarP(&serverSettings.Port, "port", "p", settings.DefaultPort, "UDP port to listen on")

	root.AddCommand(clientCmd, serverCmd)
	return root
}

func runInteractive(ctx context.Context, logger application.Logger) error {
	mode, err := presentation.PromptMode()
	if err != nil {
		return err
	}

	switch mode {
	case presentation.ClientMode:
		clientSettings, promptErr := presentation.PromptClientSettings()
		if promptErr != nil {
			return promptErr
		}
		return presentation.StartClient(ctx, clientSettings, logger)
	case presentation.ServerMode:
		serverSettings, promptErr := presentation.PromptServerSettings()
		if promptErr != nil {
			return promptErr
		}
		return presentation.StartServer(ctx, serverSettings, logger)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}
