package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratushq/stratus/pkg/config"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in ~/.stratus/config.yaml

Examples:
  stratus config set api-url https://airflow.example.com/api/v1
  stratus config set timezone America/New_York
  stratus config set show-external-log-redirect true`,
		Args: cobra.ExactArgs(2),
		RunE: runSet,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := args[0]
	value := args[1]

	normalizedKey := strings.ToLower(strings.ReplaceAll(key, "-", ""))

	if !config.IsValidUserFacingKey(normalizedKey) {
		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: '%s' is not a recognized configuration key\n\n", key)
		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(cmd.ErrOrStderr(), "Valid configuration keys:\n")

		for _, validKey := range config.GetUserFacingKeys() {
			normalized := strings.ToLower(strings.ReplaceAll(validKey, "-", ""))
			desc := config.GetConfigKeyDescription(normalized)
			if desc != "" {
				//nolint:errcheck // Writing to stderr, error not actionable
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s - %s\n", validKey, desc)
			} else {
				//nolint:errcheck // Writing to stderr, error not actionable
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", validKey)
			}
		}

		//nolint:errcheck // Writing to stderr, error not actionable
		fmt.Fprintf(cmd.ErrOrStderr(), "\nNote: the API token is managed by your orchestrator's auth flow, set STRATUS_API_TOKEN to override\n")
		return fmt.Errorf("invalid configuration key")
	}

	// Convert string values to appropriate types
	var typedValue any
	switch strings.ToLower(value) {
	case "true":
		typedValue = true
	case "false":
		typedValue = false
	default:
		typedValue = value
	}

	viper.Set(normalizedKey, typedValue)

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✓ Set %s = %v\n", key, typedValue)
	return nil
}
