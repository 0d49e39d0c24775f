package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cookaihq/cookai/internal/config"
	"github.com/cookaihq/cookai/internal/server"
)

// ServerConfig holds the loaded server configuration (set by main)
var ServerConfig *config.Config

var cfgFile string

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "cookai",
		Short: "CookAI - cooking assistant backend",
		Long: `CookAI is the backend for a voice-first cooking assistant.

It serves a realtime voice session over WebSocket, recipe and grocery
endpoints backed by Gemini, and meal reminder notifications.

Just type 'cookai' to start the server.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (overrides embedded defaults)")

	rootCmd.AddCommand(ServeCmd())
	rootCmd.AddCommand(RemindCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// ServeCmd creates the serve command.
func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
}

func runServe() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := server.Run(ctx, *ServerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
