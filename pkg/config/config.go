package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	DefaultConfigDir  = ".stratus"
	DefaultConfigFile = "config.yaml"

	// DefaultAPIURL points at the orchestrator's REST API.
	DefaultAPIURL = "http://localhost:8080/api/v1"
)

// Config holds the CLI configuration
type Config struct {
	APIURL           string
	Token            string // API token (JWT), issued by the orchestrator
	Timezone         string // IANA name for log timestamp display; empty = local
	SkipVersionCheck bool
	LogLevel         string

	// External log provider settings. When ShowExternalLogRedirect is set,
	// completed attempts link out to the provider instead of rendering inline.
	ShowExternalLogRedirect bool
	ExternalLogName         string
	ExternalLogURL          string
}

// ValidUserFacingConfigKeys lists config keys that users should interact with
// (excludes the token, which is managed by the orchestrator's auth flow)
var ValidUserFacingConfigKeys = map[string]bool{
	"apiurl":                  true,
	"timezone":                true,
	"skipversioncheck":        true,
	"loglevel":                true,
	"showexternallogredirect": true,
	"externallogname":         true,
	"externallogurl":          true,
}

// IsValidUserFacingKey checks if a config key is a recognized user-facing key
func IsValidUserFacingKey(key string) bool {
	return ValidUserFacingConfigKeys[key]
}

// GetUserFacingKeys returns the user-facing config keys in their kebab-case
// display form, in a stable order.
func GetUserFacingKeys() []string {
	return []string{
		"api-url",
		"timezone",
		"skip-version-check",
		"log-level",
		"show-external-log-redirect",
		"external-log-name",
		"external-log-url",
	}
}

// GetConfigKeyDescription returns a description for a config key
func GetConfigKeyDescription(key string) string {
	descriptions := map[string]string{
		"apiurl":                  "Base URL of the orchestrator REST API",
		"timezone":                "IANA timezone for log timestamp display (default: local time)",
		"skipversioncheck":        "Disable automatic version update checks (true/false)",
		"loglevel":                "Logging level (debug/info/warn/error, default: info)",
		"showexternallogredirect": "Redirect completed attempts to the external log provider (true/false)",
		"externallogname":         "Display name of the external log provider",
		"externallogurl":          "Base URL of the external log provider",
		"token":                   "API token (managed by the orchestrator's auth flow)",
	}
	return descriptions[key]
}

// Load reads the configuration from ~/.stratus/config.yaml
func Load() (*Config, error) {
	configPath := getConfigPath()
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// Create config file if it doesn't exist
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := ensureConfigDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := viper.WriteConfig(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	viper.SetDefault("apiurl", DefaultAPIURL)

	config := &Config{
		APIURL:                  viper.GetString("apiurl"),
		Token:                   viper.GetString("token"),
		Timezone:                viper.GetString("timezone"),
		SkipVersionCheck:        viper.GetBool("skipversioncheck"),
		LogLevel:                viper.GetString("loglevel"),
		ShowExternalLogRedirect: viper.GetBool("showexternallogredirect"),
		ExternalLogName:         viper.GetString("externallogname"),
		ExternalLogURL:          viper.GetString("externallogurl"),
	}

	// Environment overrides, useful in CI
	if url := os.Getenv("STRATUS_API_URL"); url != "" {
		config.APIURL = url
	}
	if token := os.Getenv("STRATUS_API_TOKEN"); token != "" {
		config.Token = token
	}

	return config, nil
}

// Save writes the current configuration to disk
func Save(config *Config) error {
	viper.Set("apiurl", config.APIURL)
	viper.Set("token", config.Token)
	viper.Set("timezone", config.Timezone)
	viper.Set("skipversioncheck", config.SkipVersionCheck)
	viper.Set("loglevel", config.LogLevel)
	viper.Set("showexternallogredirect", config.ShowExternalLogRedirect)
	viper.Set("externallogname", config.ExternalLogName)
	viper.Set("externallogurl", config.ExternalLogURL)

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// getConfigPath returns the full path to the config file
func getConfigPath() string {
	if path := os.Getenv("STRATUS_CONFIG_PATH"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback
		return filepath.Join(".", DefaultConfigDir, DefaultConfigFile)
	}

	return filepath.Join(homeDir, DefaultConfigDir, DefaultConfigFile)
}

// Context key for storing config
type contextKey string

const configContextKey contextKey = "config"

// GetConfigFromContext retrieves the config from the command context
func GetConfigFromContext(cmd *cobra.Command) (*Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, fmt.Errorf("no context available")
	}

	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("config not found in context")
	}

	return cfg, nil
}

// GetContextKey returns the context key used for storing config
// This is needed by root.go to store the config in context
func GetContextKey() interface{} {
	return configContextKey
}

// ensureConfigDir ensures the config directory exists
func ensureConfigDir() error {
	configPath := getConfigPath()
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755) //nolint:gosec // Config directory needs standard permissions
}

// GetLogLevel returns the configured log level as slog.Level
// Defaults to Info if not set or invalid
func (c *Config) GetLogLevel() slog.Level {
	if c.LogLevel == "" {
		return slog.LevelInfo
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
