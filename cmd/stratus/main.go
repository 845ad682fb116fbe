package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/stratushq/stratus/internal/commands"
	stratusbugsnag "github.com/stratushq/stratus/pkg/bugsnag"
)

func main() {
	if err := stratusbugsnag.Initialize(); err != nil {
		// Error tracking is best effort
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize error tracking: %v\n", err)
	}

	// Recover from panics and report them before exiting
	defer stratusbugsnag.NotifyOnPanic(context.Background())

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !stratusbugsnag.IsUserCancellation(err) {
			stratusbugsnag.NotifyError(context.Background(), err)
		}

		// Commands handle their own error presentation. SilenceUsage is set
		// per command, so unknown commands still need usage printed here.
		errMsg := err.Error()
		if strings.HasPrefix(errMsg, "unknown command") {
			_ = rootCmd.Usage()
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, err)
		} else if strings.HasPrefix(errMsg, "unknown flag") {
			// Cobra already showed usage, don't duplicate
			fmt.Fprintln(os.Stderr, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
