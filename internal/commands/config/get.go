package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratushq/stratus/pkg/config"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value from ~/.stratus/config.yaml

Examples:
  stratus config get api-url
  stratus config get timezone
  stratus config get show-external-log-redirect`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}
}

func runGet(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	key := args[0]

	// Keys are stored lowercase without separators
	normalizedKey := strings.ToLower(strings.ReplaceAll(key, "-", ""))

	if !config.IsValidUserFacingKey(normalizedKey) {
		return fmt.Errorf("'%s' is not a recognized configuration key. Run 'stratus config set --help' for valid keys", key)
	}

	if !viper.IsSet(normalizedKey) {
		return fmt.Errorf("configuration key '%s' not set", key)
	}

	fmt.Println(viper.Get(normalizedKey))

	return nil
}
