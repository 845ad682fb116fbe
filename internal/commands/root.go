package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	configCmd "github.com/stratushq/stratus/internal/commands/config"
	runsCmd "github.com/stratushq/stratus/internal/commands/runs"
	"github.com/stratushq/stratus/internal/ui"
	"github.com/stratushq/stratus/internal/version"
	stratusbugsnag "github.com/stratushq/stratus/pkg/bugsnag"
	"github.com/stratushq/stratus/pkg/config"
	"github.com/stratushq/stratus/pkg/stratalog"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "stratus",
		Short: "Stratus CLI",
		Long:  "Command line console for Stratus workflow orchestration",
		// Silence errors - we handle them in main.go
		// Note: SilenceUsage is NOT set here so unknown commands show usage.
		// Individual commands set cmd.SilenceUsage = true to hide usage on errors.
		SilenceErrors: true,
		// Load config once and store in context for all subcommands
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			stratusbugsnag.SetCommandContext(cmd.Name(), args)

			verbose, _ := cmd.Flags().GetBool("verbose")

			displayOpts, err := ui.NewDisplayConfig(cmd, verbose)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error getting display options: %v\n", err)
				os.Exit(1)
			}

			// Config carries the log level, so it loads before the logger
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}

			if verbose {
				logFile, err := stratalog.Setup(displayOpts.IsInteractive, cfg.GetLogLevel())
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error setting up logger: %v\n", err)
					os.Exit(1)
				}

				if logFile != "" {
					fmt.Fprintf(os.Stderr, "Debug logs: %s\n", logFile)
				}
			} else {
				stratalog.Disable()
			}

			slog.Debug("Config loaded successfully")

			ctx := context.WithValue(cmd.Context(), config.GetContextKey(), cfg)
			ctx = context.WithValue(ctx, ui.GetDisplayConfigContextKey(), displayOpts)
			cmd.SetContext(ctx)

			// Skip the update check for version and config commands so they
			// stay fast and never hit the network.
			name := cmd.Name()
			if parent := cmd.Parent(); parent != nil && parent.Name() == "config" {
				name = "config"
			}
			if name != "version" && name != "config" {
				version.PrintUpdateNotification(cmd.Context(), cfg.SkipVersionCheck)
			}
		},
	}

	// Persistent flags are inherited by all subcommands
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output and animations")
	rootCmd.PersistentFlags().Bool("no-ansi", false, "Disable colored output and animations (equivalent to --no-color)")
	rootCmd.PersistentFlags().Bool("disable-animation", false, "Disable animations but keep colors")

	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewLogsCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(configCmd.NewConfigCmd())
	rootCmd.AddCommand(runsCmd.NewRunsCmd())

	return rootCmd
}
