package projectconfig

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// DefaultFileName is the project config file looked up in the working directory
const DefaultFileName = "stratus.toml"

var (
	DefaultTimezone = "" // empty = local time
	DefaultLevels   = []string{}
	DefaultSources  = []string{}
)

// Load reads and parses a stratus.toml configuration file
func Load(configPath string) (*ProjectConfig, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s. Please run `stratus init` to create one", configPath)
	}

	// Separate viper instance; the global one holds the user-level config
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if !v.IsSet("stratus") {
		return nil, fmt.Errorf("'stratus' key not found in %s. Please ensure your config file is valid", configPath)
	}

	var config ProjectConfig

	if err := v.UnmarshalKey("stratus.project", &config.Project); err != nil {
		return nil, fmt.Errorf("failed to parse project config: %w", err)
	}

	if v.IsSet("stratus.logs") {
		if err := v.UnmarshalKey("stratus.logs", &config.Logs); err != nil {
			return nil, fmt.Errorf("failed to parse logs config: %w", err)
		}
	}

	if v.IsSet("stratus.external_logs") {
		var ext ExternalLogsSection
		if err := v.UnmarshalKey("stratus.external_logs", &ext); err != nil {
			return nil, fmt.Errorf("failed to parse external_logs config: %w", err)
		}
		config.ExternalLogs = &ext
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadIfPresent loads stratus.toml from the working directory when it exists.
// A missing file is not an error, commands fall back to flags and user config.
func LoadIfPresent() (*ProjectConfig, error) {
	if _, err := os.Stat(DefaultFileName); os.IsNotExist(err) {
		return nil, nil
	}
	return Load(DefaultFileName)
}

func applyDefaults(config *ProjectConfig) {
	if config.Logs.Timezone == "" {
		config.Logs.Timezone = DefaultTimezone
	}
	if config.Logs.Levels == nil {
		config.Logs.Levels = DefaultLevels
	}
	if config.Logs.Sources == nil {
		config.Logs.Sources = DefaultSources
	}
}
