package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stratushq/stratus/pkg/config"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration",
		Long: `List all configuration keys and values from ~/.stratus/config.yaml

Example:
  stratus config list`,
		Args: cobra.NoArgs,
		RunE: runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("No configuration found")
		return nil
	}

	type item struct {
		displayKey string
		value      any
	}

	var items []item
	for _, displayKey := range config.GetUserFacingKeys() {
		normalized := strings.ReplaceAll(displayKey, "-", "")
		if val, ok := settings[normalized]; ok {
			items = append(items, item{displayKey: displayKey, value: val})
		}
	}

	// The token stays hidden; its presence is still worth surfacing
	if token, ok := settings["token"].(string); ok && token != "" {
		items = append(items, item{displayKey: "token", value: "(set)"})
	}

	if len(items) == 0 {
		fmt.Println("No configuration found")
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].displayKey < items[j].displayKey
	})

	for _, it := range items {
		fmt.Printf("%s: %v\n", it.displayKey, it.value)
	}

	return nil
}
