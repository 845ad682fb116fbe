package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stratushq/stratus/internal/ui"
	"github.com/stratushq/stratus/pkg/projectconfig"
)

// NewInitCmd creates a new init command
func NewInitCmd() *cobra.Command {
	var dir string
	var dagID string

	cmd := &cobra.Command{
		Use:   "init [name]",
		Short: "Initialize a stratus project directory",
		Long: `Initialize a stratus project directory with a default configuration.

This command will:
1. Create a new directory with the specified name
2. Create a stratus.toml configuration file with sensible defaults

Example:
  stratus init payments
  stratus init payments --dag payments_etl
  stratus init payments --dir ./teams`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, args[0], dir, dagID)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "./", "Directory to create the project in")
	cmd.Flags().StringVar(&dagID, "dag", "", "Default DAG ID written to stratus.toml (defaults to the project name)")

	return cmd
}

// validateProjectName validates the project name to prevent path traversal and other security issues
func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	// Check for relative path components first (more specific)
	if name == "." || name == ".." {
		return fmt.Errorf("project name cannot be '.' or '..'")
	}

	// Check for absolute paths (before checking separators)
	if filepath.IsAbs(name) {
		return fmt.Errorf("project name cannot be an absolute path - use --dir to initialise in a specific directory")
	}

	// Check for path separators
	if strings.Contains(name, string(filepath.Separator)) || strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return fmt.Errorf("project name cannot contain path separators")
	}

	// Check for reserved names on Windows
	reserved := []string{"CON", "PRN", "AUX", "NUL", "COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9", "LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9"}
	upperName := strings.ToUpper(name)
	for _, r := range reserved {
		if upperName == r {
			return fmt.Errorf("project name '%s' is a reserved name on Windows", name)
		}
	}

	// Check for null bytes
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("project name cannot contain null bytes")
	}

	return nil
}

func runInit(cmd *cobra.Command, name string, dir string, dagID string) error {
	cmd.SilenceUsage = true

	// Validate project name to prevent path traversal attacks
	if err := validateProjectName(name); err != nil {
		return ui.NewValidationError(err)
	}

	if dagID == "" {
		dagID = name
	}

	projectPath := filepath.Join(dir, name)
	tomlPath := filepath.Join(projectPath, projectconfig.DefaultFileName)

	// Verify the resulting path is safe (no path traversal)
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("invalid directory path: %w", err))
	}
	absProjectPath, err := filepath.Abs(projectPath)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("invalid project path: %w", err))
	}
	// Ensure the project path is a subdirectory of the target directory
	if !strings.HasPrefix(absProjectPath, absDir+string(filepath.Separator)) {
		return ui.NewValidationError(fmt.Errorf("invalid project name: path traversal detected"))
	}

	if dir != "./" {
		fmt.Printf("Initializing stratus project in new directory %s\n", name)
	} else {
		fmt.Printf("Initializing stratus project in directory %s\n", projectPath)
	}

	// Check if directory already exists
	if _, err := os.Stat(projectPath); err == nil {
		return ui.NewValidationError(fmt.Errorf("directory already exists. Please choose a different name"))
	} else if !os.IsNotExist(err) {
		return ui.NewFileSystemError(fmt.Errorf("failed to check directory: %w", err))
	}

	if err := os.MkdirAll(projectPath, 0755); err != nil { //nolint:gosec // Project directory needs standard permissions
		return ui.NewFileSystemError(fmt.Errorf("failed to create directory: %w", err))
	}

	if err := createDefaultConfig(tomlPath, name, dagID); err != nil {
		return ui.NewFileSystemError(fmt.Errorf("failed to create stratus.toml: %w", err))
	}

	fmt.Println("Stratus project initialized successfully!")
	fmt.Printf("cd %s && stratus logs --run RUN_ID --task TASK_ID to get started\n", projectPath)

	return nil
}

// createDefaultConfig creates a stratus.toml file with sensible defaults
func createDefaultConfig(path string, name string, dagID string) error {
	content := fmt.Sprintf(`[stratus.project]
name = "%s"
dag = "%s"

[stratus.logs]
# timezone = "America/New_York"
# levels = ["INFO", "WARNING", "ERROR", "CRITICAL"]
# sources = ["worker-*.log"]

[stratus.external_logs]
redirect = false
name = ""
url = ""
`, name, dagID)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // Config file needs to be readable by tools
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
