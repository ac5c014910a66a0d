package commands

import (
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the kanban board",
	Long: `Open the kanban board: To Do, In Progress and Done columns.
Move the selected task between columns with H and L.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		return tui.RunBoard(app.store)
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Open the sortable task list",
	Long: `Open the task list with sorting and filtering. Cycle the sort
field with s, flip direction with d, filter by category, tag or your
own assignments with c, t and a.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		return tui.RunList(app.store)
	}),
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Open the overview dashboard",
	Long: `Open the dashboard: overdue, due-today and completed counts, the
priority chart, upcoming deadlines and the recent activity feed.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		return tui.RunDashboard(app.store)
	}),
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "Open the trash",
	Long: `Open the trash screen. Restore a task with r, or delete it
forever with d (asks for confirmation).`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		return tui.RunTrash(app.store)
	}),
}
