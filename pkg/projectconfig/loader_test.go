package projectconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tcs := []struct {
		name    string
		content string
		wantErr string
		check   func(t *testing.T, cfg *ProjectConfig)
	}{
		{
			name: "full config",
			content: `[stratus.project]
name = "payments-pipelines"
dag = "payments_etl"
task = "extract"

[stratus.logs]
timezone = "America/New_York"
levels = ["INFO", "ERROR"]
sources = ["worker-*.log"]

[stratus.external_logs]
redirect = true
name = "loghouse"
url = "https://logs.example.com/search"
`,
			check: func(t *testing.T, cfg *ProjectConfig) {
				assert.Equal(t, "payments_etl", cfg.Project.DAG)
				assert.Equal(t, "extract", cfg.Project.Task)
				assert.Equal(t, "America/New_York", cfg.Logs.Timezone)
				assert.Equal(t, []string{"INFO", "ERROR"}, cfg.Logs.Levels)
				require.NotNil(t, cfg.ExternalLogs)
				assert.True(t, cfg.ExternalLogs.Redirect)
				assert.Equal(t, "loghouse", cfg.ExternalLogs.Name)
			},
		},
		{
			name: "minimal config",
			content: `[stratus.project]
dag = "demo_dag"
`,
			check: func(t *testing.T, cfg *ProjectConfig) {
				assert.Equal(t, "demo_dag", cfg.Project.DAG)
				assert.Empty(t, cfg.Logs.Levels)
				assert.Nil(t, cfg.ExternalLogs)
			},
		},
		{
			name:    "missing stratus key",
			content: `[other]` + "\n" + `x = 1` + "\n",
			wantErr: "'stratus' key not found",
		},
		{
			name: "missing dag",
			content: `[stratus.project]
name = "x"
`,
			wantErr: "dag is required",
		},
		{
			name: "bad timezone",
			content: `[stratus.project]
dag = "demo_dag"

[stratus.logs]
timezone = "Mars/Olympus"
`,
			wantErr: "invalid timezone",
		},
		{
			name: "unknown level",
			content: `[stratus.project]
dag = "demo_dag"

[stratus.logs]
levels = ["LOUD"]
`,
			wantErr: "unknown level",
		},
		{
			name: "redirect without url",
			content: `[stratus.project]
dag = "demo_dag"

[stratus.external_logs]
redirect = true
`,
			wantErr: "url is required",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.content))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}
