package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratushq/stratus/pkg/projectconfig"
)

func TestValidateProjectName(t *testing.T) {
	tcs := []struct {
		name        string
		projectName string
		wantErr     string
	}{
		{name: "valid simple name", projectName: "payments"},
		{name: "valid with dashes", projectName: "payments-pipelines"},
		{name: "valid with underscores", projectName: "payments_etl"},
		{name: "empty", projectName: "", wantErr: "cannot be empty"},
		{name: "dot", projectName: ".", wantErr: "cannot be '.' or '..'"},
		{name: "dotdot", projectName: "..", wantErr: "cannot be '.' or '..'"},
		{name: "absolute path", projectName: "/etc/payments", wantErr: "absolute path"},
		{name: "forward slash", projectName: "a/b", wantErr: "path separators"},
		{name: "backslash", projectName: "a\\b", wantErr: "path separators"},
		{name: "traversal", projectName: "../escape", wantErr: "path separators"},
		{name: "windows reserved", projectName: "CON", wantErr: "reserved name"},
		{name: "null byte", projectName: "pay\x00ments", wantErr: "null bytes"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			err := validateProjectName(tc.projectName)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestRunInitCreatesProject(t *testing.T) {
	dir := t.TempDir()

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"payments", "--dir", dir, "--dag", "payments_etl"})
	require.NoError(t, cmd.Execute())

	tomlPath := filepath.Join(dir, "payments", projectconfig.DefaultFileName)
	data, err := os.ReadFile(tomlPath)
	require.NoError(t, err)

	// The generated file must be valid TOML with the expected shape
	var parsed struct {
		Stratus struct {
			Project struct {
				Name string `toml:"name"`
				DAG  string `toml:"dag"`
			} `toml:"project"`
			ExternalLogs struct {
				Redirect bool `toml:"redirect"`
			} `toml:"external_logs"`
		} `toml:"stratus"`
	}
	require.NoError(t, toml.Unmarshal(data, &parsed))
	assert.Equal(t, "payments", parsed.Stratus.Project.Name)
	assert.Equal(t, "payments_etl", parsed.Stratus.Project.DAG)
	assert.False(t, parsed.Stratus.ExternalLogs.Redirect)

	// And the loader must accept it as-is
	cfg, err := projectconfig.Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "payments_etl", cfg.Project.DAG)
}

func TestRunInitDefaultsDAGToName(t *testing.T) {
	dir := t.TempDir()

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"demo", "--dir", dir})
	require.NoError(t, cmd.Execute())

	cfg, err := projectconfig.Load(filepath.Join(dir, "demo", projectconfig.DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.Project.DAG)
}

func TestRunInitRefusesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "payments"), 0755))

	cmd := NewInitCmd()
	cmd.SetArgs([]string{"payments", "--dir", dir})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory already exists")
}
