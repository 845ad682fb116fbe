package runs

import (
	"github.com/spf13/cobra"
)

// NewRunsCmd creates the runs command group
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect DAG runs",
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newTasksCmd())

	return cmd
}
