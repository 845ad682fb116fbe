package runs

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/stratushq/stratus/internal/api"
	"github.com/stratushq/stratus/internal/ui"
	uiCommands "github.com/stratushq/stratus/internal/ui/commands"
	"github.com/stratushq/stratus/pkg/config"
	"github.com/stratushq/stratus/pkg/projectconfig"
)

func newTasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks RUN_ID [DAG_ID]",
		Short: "List task instances of a DAG run",
		Long: `List the task instances of one DAG run with their state and attempt count.

Examples:
  stratus runs tasks run-2026-08-29 payments_etl
  stratus runs tasks run-2026-08-29   # DAG from stratus.toml`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dagID := ""
			if len(args) > 1 {
				dagID = args[1]
			}
			return runTasks(cmd, args[0], dagID)
		},
	}

	return cmd
}

func runTasks(cmd *cobra.Command, runID string, dagID string) error {
	cmd.SilenceUsage = true

	cfg, err := config.GetConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get config: %w", err))
	}

	if dagID == "" {
		proj, err := projectconfig.LoadIfPresent()
		if err != nil {
			return ui.NewConfigurationError(err)
		}
		if proj != nil {
			dagID = proj.Project.DAG
		}
	}
	if dagID == "" {
		return ui.NewValidationError(fmt.Errorf("DAG_ID is required (or set [stratus.project] dag in stratus.toml)"))
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to create API client: %w", err))
	}

	spinner := ui.NewSimpleSpinner("Loading task instances...")
	spinner.Start()

	instances, err := client.ListTaskInstances(cmd.Context(), dagID, runID)
	spinner.Stop()
	if err != nil {
		return ui.NewAPIError(err)
	}

	if len(instances) == 0 {
		fmt.Printf("No task instances found for run: %s\n", runID)
		return nil
	}

	// Stable order: task ID, then map index
	sort.Slice(instances, func(i, j int) bool {
		if instances[i].TaskID != instances[j].TaskID {
			return instances[i].TaskID < instances[j].TaskID
		}
		return mapIndexValue(instances[i].MapIndex) < mapIndexValue(instances[j].MapIndex)
	})

	fmt.Printf("%-30s %-10s %-15s %-9s %-25s\n", "TASK ID", "MAP", "STATE", "ATTEMPTS", "STARTED")
	for _, ti := range instances {
		mapCol := "-"
		if ti.MapIndex != nil {
			mapCol = fmt.Sprintf("%d", *ti.MapIndex)
		}

		attempts := "-"
		if ti.TryNumber != nil {
			attempts = fmt.Sprintf("%d", *ti.TryNumber)
		}

		fmt.Printf("%-30s %-10s %-15s %-9s %-25s\n",
			ti.TaskID,
			mapCol,
			uiCommands.DisplayState(ti.State),
			attempts,
			ti.StartDate,
		)
	}

	fmt.Printf("\nView logs with: stratus logs --dag %s --run %s --task TASK_ID\n", dagID, runID)
	return nil
}

func mapIndexValue(idx *int) int {
	if idx == nil {
		return -1
	}
	return *idx
}
