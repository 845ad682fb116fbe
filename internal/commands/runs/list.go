package runs

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stratushq/stratus/internal/api"
	"github.com/stratushq/stratus/internal/ui"
	uiCommands "github.com/stratushq/stratus/internal/ui/commands"
	"github.com/stratushq/stratus/pkg/config"
	"github.com/stratushq/stratus/pkg/projectconfig"
)

func newListCmd() *cobra.Command {
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "list [DAG_ID]",
		Short: "List runs of a DAG",
		Long: `List the runs of a DAG, most recent first.

Examples:
  stratus runs list payments_etl
  stratus runs list payments_etl --state failed
  stratus runs list --limit 10   # DAG from stratus.toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dagID := ""
			if len(args) > 0 {
				dagID = args[0]
			}
			return runList(cmd, dagID, state, limit)
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "Only show runs in this state (e.g. running, success, failed)")
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of runs to show (0 = all)")

	return cmd
}

func runList(cmd *cobra.Command, dagID string, state string, limit int) error {
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

	displayOpts, err := ui.GetDisplayConfigFromContext(cmd)
	if err != nil {
		return ui.NewValidationError(fmt.Errorf("failed to get display options: %w", err))
	}

	model := uiCommands.NewRunsListView(cmd.Context(), uiCommands.RunsListConfig{
		DisplayConfig: displayOpts,
		Client:        client,
		DAGID:         dagID,
		State:         state,
		Limit:         limit,
	})

	var programOpts []tea.ProgramOption
	if !displayOpts.IsInteractive {
		programOpts = append(programOpts,
			tea.WithoutRenderer(),
			tea.WithInput(nil),
		)
	}

	p := tea.NewProgram(model, programOpts...)

	ui.SetupSignalHandling(p, 0)

	finalModel, err := p.Run()
	if err != nil {
		return ui.NewInternalError(fmt.Errorf("program error: %w", err))
	}

	//nolint:errcheck // Type assertion guaranteed by Bubbletea model structure
	m := finalModel.(*uiCommands.RunsListView)
	if viewErr := m.Error(); viewErr != nil {
		if uiErr, ok := viewErr.(*ui.UIError); ok && uiErr.SilentExit {
			return nil
		}
		return viewErr
	}

	return nil
}
