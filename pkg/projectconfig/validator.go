package projectconfig

import (
	"fmt"
	"net/url"
	"time"

	"github.com/stratushq/stratus/internal/tasklog"
)

// Validate checks a parsed config for values that would fail later in
// surprising places, like an unknown timezone surfacing mid-render.
func Validate(config *ProjectConfig) error {
	if config.Project.DAG == "" {
		return fmt.Errorf("[stratus.project] dag is required")
	}

	if config.Logs.Timezone != "" {
		if _, err := time.LoadLocation(config.Logs.Timezone); err != nil {
			return fmt.Errorf("[stratus.logs] invalid timezone %q: %w", config.Logs.Timezone, err)
		}
	}

	for _, lvl := range config.Logs.Levels {
		if !validLevel(lvl) {
			return fmt.Errorf("[stratus.logs] unknown level %q, valid levels: %v", lvl, tasklog.Levels)
		}
	}

	if config.ExternalLogs != nil {
		if config.ExternalLogs.Redirect && config.ExternalLogs.URL == "" {
			return fmt.Errorf("[stratus.external_logs] url is required when redirect is enabled")
		}
		if config.ExternalLogs.URL != "" {
			if _, err := url.Parse(config.ExternalLogs.URL); err != nil {
				return fmt.Errorf("[stratus.external_logs] invalid url: %w", err)
			}
		}
	}

	return nil
}

func validLevel(s string) bool {
	for _, lvl := range tasklog.Levels {
		if string(lvl) == s {
			return true
		}
	}
	return false
}
