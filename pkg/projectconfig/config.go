// Package projectconfig reads the per-repository stratus.toml file. It holds
// defaults for the DAG a team works on so that commands can be run without
// repeating --dag and provider flags in every invocation.
package projectconfig

// ProjectConfig is the parsed stratus.toml
type ProjectConfig struct {
	Project      ProjectSection       `mapstructure:"project"`
	Logs         LogsSection          `mapstructure:"logs"`
	ExternalLogs *ExternalLogsSection `mapstructure:"external_logs"`
}

// ProjectSection identifies the pipelines this repository owns
type ProjectSection struct {
	Name string `mapstructure:"name"`
	DAG  string `mapstructure:"dag"`  // default --dag value
	Task string `mapstructure:"task"` // default --task value, optional
}

// LogsSection holds default log viewer settings
type LogsSection struct {
	Timezone string   `mapstructure:"timezone"` // IANA name, empty = local
	Levels   []string `mapstructure:"levels"`   // initial level filter selection
	Sources  []string `mapstructure:"sources"`  // initial source glob patterns
}

// ExternalLogsSection configures the external log provider for this project.
// Overrides the user-level config when present.
type ExternalLogsSection struct {
	Redirect bool   `mapstructure:"redirect"`
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
}
