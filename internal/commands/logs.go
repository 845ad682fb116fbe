package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stratushq/stratus/internal/api"
	"github.com/stratushq/stratus/internal/tasklog"
	"github.com/stratushq/stratus/internal/timeutil"
	"github.com/stratushq/stratus/internal/ui"
	uiCommands "github.com/stratushq/stratus/internal/ui/commands"
	"github.com/stratushq/stratus/pkg/config"
	"github.com/stratushq/stratus/pkg/projectconfig"
)

// exportConcurrency bounds parallel per-attempt fetches in export mode
const exportConcurrency = 4

func NewLogsCmd() *cobra.Command {
	var (
		dagID       string
		runID       string
		taskID      string
		mapIndex    int
		attempt     int
		fullContent bool
		levels      []string
		sources     []string
		exportDir   string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View task attempt logs",
		Long: `Open the log viewer for one task instance of a DAG run.

The viewer splits the log blob into per-source sections, lets you switch
between attempts and filter by level or source, and links out to the external
log provider for attempts that were redirected there.

Examples:
  # Interactive viewer
  stratus logs --dag payments_etl --run run-2026-08-29 --task extract

  # Mapped task instance
  stratus logs --dag payments_etl --run run-2026-08-29 --task load --map-index 3

  # Start on attempt 2 with only errors shown
  stratus logs --dag payments_etl --run run-2026-08-29 --task extract --attempt 2 --level ERROR

  # Write every attempt's full log to a directory
  stratus logs --dag payments_etl --run run-2026-08-29 --task extract --export ./logs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := logsFlags{
				dagID:       dagID,
				runID:       runID,
				taskID:      taskID,
				fullContent: fullContent,
				levels:      levels,
				sources:     sources,
				exportDir:   exportDir,
			}
			if cmd.Flags().Changed("map-index") {
				flags.mapIndex = &mapIndex
			}
			if cmd.Flags().Changed("attempt") {
				flags.attempt = &attempt
			}
			return runLogsCommand(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&dagID, "dag", "", "DAG ID (defaults to [stratus.project] dag in stratus.toml)")
	cmd.Flags().StringVar(&runID, "run", "", "DAG run ID")
	cmd.Flags().StringVar(&taskID, "task", "", "Task ID (defaults to [stratus.project] task in stratus.toml)")
	cmd.Flags().IntVar(&mapIndex, "map-index", 0, "Map index for mapped task instances")
	cmd.Flags().IntVar(&attempt, "attempt", 0, "Attempt to open initially (0 = live attempt)")
	cmd.Flags().BoolVar(&fullContent, "full-content", false, "Fetch the complete log instead of the truncated head")
	cmd.Flags().StringSliceVar(&levels, "level", nil, "Only show these levels (TRACE, DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	cmd.Flags().StringSliceVar(&sources, "source", nil, "Only show sources matching these glob patterns, e.g. 'worker-*.log'")
	cmd.Flags().StringVar(&exportDir, "export", "", "Write every attempt's full log to this directory and exit")

	return cmd
}

type logsFlags struct {
	dagID       string
	runID       string
	taskID      string
	mapIndex    *int
	attempt     *int
	fullContent bool
	levels      []string
	sources     []string
	exportDir   string
}

func runLogsCommand(cmd *cobra.Command, flags logsFlags) error {
	cmd.SilenceUsage = true

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	// stratus.toml fills in flags the user left out
	proj, err := projectconfig.LoadIfPresent()
	if err != nil {
		return ui.NewConfigurationError(err)
	}
	applyProjectDefaults(&flags, proj)

	if flags.dagID == "" {
		return ui.NewValidationError(fmt.Errorf("--dag is required (or set [stratus.project] dag in stratus.toml)"))
	}
	if flags.runID == "" {
		return ui.NewValidationError(fmt.Errorf("--run is required"))
	}
	if flags.taskID == "" {
		return ui.NewValidationError(fmt.Errorf("--task is required (or set [stratus.project] task in stratus.toml)"))
	}

	levelFilters, err := parseLevels(flags.levels)
	if err != nil {
		return ui.NewValidationError(err)
	}

	timezone := cfg.Timezone
	if proj != nil && proj.Logs.Timezone != "" {
		timezone = proj.Logs.Timezone
	}
	location, err := timeutil.LoadDisplayLocation(timezone)
	if err != nil {
		return ui.NewConfigurationError(fmt.Errorf("invalid timezone %q: %w", timezone, err))
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to create API client: %w", err))
	}

	if flags.exportDir != "" {
		return runLogsExport(cmd, client, flags)
	}

	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get display options: %w", err))
	}

	redirect, extName, extURL := externalLogSettings(cfg, proj)

	model := uiCommands.NewTaskLogsView(cmd.Context(), uiCommands.TaskLogsConfig{
		DisplayConfig:           displayOpts,
		Client:                  client,
		DAGID:                   flags.dagID,
		RunID:                   flags.runID,
		TaskID:                  flags.taskID,
		MapIndex:                flags.mapIndex,
		InitialAttempt:          flags.attempt,
		FullContent:             flags.fullContent,
		Location:                location,
		ShowExternalLogRedirect: redirect,
		ExternalLogName:         extName,
		ExternalLogURL:          extURL,
		LevelFilters:            levelFilters,
		SourcePatterns:          flags.sources,
	})

	var programOpts []tea.ProgramOption
	if !displayOpts.IsInteractive {
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	} else {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(model, programOpts...)

	ui.SetupSignalHandling(p, 0)

	finalModel, err := p.Run()
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("program error: %w", err))
	}

	//nolint:errcheck // Type assertion guaranteed by Bubbletea model structure
	m := finalModel.(*uiCommands.TaskLogsView)
	if uiErr := m.GetError(); uiErr != nil {
		if uiErr.SilentExit {
			return nil
		}
		return uiErr
	}

	return nil
}

// runLogsExport fetches the full log of every internal attempt concurrently
// and writes one file per attempt into the export directory.
func runLogsExport(cmd *cobra.Command, client api.Client, flags logsFlags) error {
	ctx := cmd.Context()

	if err := os.MkdirAll(flags.exportDir, 0755); err != nil { //nolint:gosec // Export directory needs standard permissions
		return ui.NewFileSystemError(fmt.Errorf("failed to create export directory: %w", err))
	}

	spinner := ui.NewSimpleSpinner(fmt.Sprintf("Exporting logs for %s...", flags.taskID))
	spinner.Start()

	instance, err := client.GetTaskInstance(ctx, flags.dagID, flags.runID, flags.taskID, flags.mapIndex)
	if err != nil {
		spinner.Stop()
		return ui.NewAPIError(err)
	}

	// Export ignores the redirect setting: provider links are not exportable,
	// so every attempt is fetched from the orchestrator.
	internal, _ := tasklog.PartitionAttempts(instance.TryNumber, false)
	if len(internal) == 0 {
		spinner.Stop()
		fmt.Printf("No attempts to export for task: %s\n", flags.taskID)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(exportConcurrency)

	for _, a := range internal {
		g.Go(func() error {
			resp, err := client.FetchTaskLogs(gctx, flags.dagID, flags.runID, flags.taskID, api.TaskLogOptions{
				Attempt:     a,
				MapIndex:    flags.mapIndex,
				FullContent: true,
			})
			if err != nil {
				return fmt.Errorf("attempt %d: %w", a, err)
			}

			path := filepath.Join(flags.exportDir, exportFileName(flags.taskID, flags.mapIndex, a))
			if err := os.WriteFile(path, []byte(resp.Content), 0644); err != nil { //nolint:gosec // Exported logs need to be readable
				return fmt.Errorf("attempt %d: %w", a, err)
			}
			return nil
		})
	}

	err = g.Wait()
	spinner.Stop()
	if err != nil {
		return ui.NewAPIError(fmt.Errorf("export failed: %w", err))
	}

	fmt.Printf("Exported %d attempt(s) to %s\n", len(internal), flags.exportDir)
	return nil
}

func exportFileName(taskID string, mapIndex *int, attempt int) string {
	if mapIndex != nil {
		return fmt.Sprintf("%s-%d-attempt-%d.log", taskID, *mapIndex, attempt)
	}
	return fmt.Sprintf("%s-attempt-%d.log", taskID, attempt)
}

// applyProjectDefaults fills unset flags from stratus.toml
func applyProjectDefaults(flags *logsFlags, proj *projectconfig.ProjectConfig) {
	if proj == nil {
		return
	}

	if flags.dagID == "" {
		flags.dagID = proj.Project.DAG
	}
	if flags.taskID == "" {
		flags.taskID = proj.Project.Task
	}
	if len(flags.levels) == 0 {
		flags.levels = proj.Logs.Levels
	}
	if len(flags.sources) == 0 {
		flags.sources = proj.Logs.Sources
	}
}

// externalLogSettings resolves the provider settings, project config winning
// over the user-level config.
func externalLogSettings(cfg *config.Config, proj *projectconfig.ProjectConfig) (redirect bool, name, url string) {
	redirect = cfg.ShowExternalLogRedirect
	name = cfg.ExternalLogName
	url = cfg.ExternalLogURL

	if proj != nil && proj.ExternalLogs != nil {
		redirect = proj.ExternalLogs.Redirect
		if proj.ExternalLogs.Name != "" {
			name = proj.ExternalLogs.Name
		}
		if proj.ExternalLogs.URL != "" {
			url = proj.ExternalLogs.URL
		}
	}

	return redirect, name, url
}

// parseLevels validates --level values against the known severity names
func parseLevels(values []string) ([]tasklog.Level, error) {
	var levels []tasklog.Level
	for _, v := range values {
		lvl := tasklog.Level(strings.ToUpper(strings.TrimSpace(v)))
		if !lvl.Valid() {
			return nil, fmt.Errorf("unknown level %q, valid levels: %v", v, tasklog.Levels)
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}
