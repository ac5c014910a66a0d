package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Show and change individual tasks",
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Open the detail screen for a task",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		return tui.RunTaskDetail(app.store, taskID)
	}),
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a task",
	Long: `Create a task. The title comes from the arguments, everything else
from flags. Title and --due are required.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		if err := app.store.LoadBoard(cmd.Context()); err != nil {
			return err
		}

		form := store.TaskForm{
			Title:    strings.Join(args, " "),
			Status:   models.StatusPending,
			Priority: models.PriorityMedium,
		}
		form.Description, _ = cmd.Flags().GetString("description")
		form.StartDate, _ = cmd.Flags().GetString("start")
		form.DueDate, _ = cmd.Flags().GetString("due")
		form.Category, _ = cmd.Flags().GetString("category")
		form.Tags, _ = cmd.Flags().GetStringSlice("tags")
		form.AssigneeIDs, _ = cmd.Flags().GetInt64Slice("assignees")
		if p, _ := cmd.Flags().GetString("priority"); p != "" {
			priority, err := parsePriority(p)
			if err != nil {
				return err
			}
			form.Priority = priority
		}

		task, err := app.store.CreateTask(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Printf("Created task #%d: %s\n", task.ID, task.Title)
		if task.DueDate != "" {
			fmt.Printf("  Due: %s\n", task.DueDate)
		}
		fmt.Printf("  Priority: %s\n", task.Priority)
		return nil
	}),
}

var taskEditCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Edit a task",
	Long: `Edit a task. Only the fields named by flags change; everything
else keeps its current value.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := app.store.LoadBoard(cmd.Context()); err != nil {
			return err
		}
		var existing *models.Task
		for i := range app.store.Tasks {
			if app.store.Tasks[i].ID == taskID {
				existing = &app.store.Tasks[i]
			}
		}
		if existing == nil {
			return fmt.Errorf("task %d not found", taskID)
		}

		form := store.TaskForm{
			Title:       existing.Title,
			Description: existing.Description,
			StartDate:   existing.StartDate,
			DueDate:     existing.DueDate,
			Status:      existing.Status,
			Priority:    existing.Priority,
			Category:    existing.Category,
			Tags:        existing.Tags,
			AssigneeIDs: existing.AssigneeIDs,
		}
		if cmd.Flags().Changed("title") {
			form.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("description") {
			form.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("start") {
			form.StartDate, _ = cmd.Flags().GetString("start")
		}
		if cmd.Flags().Changed("due") {
			form.DueDate, _ = cmd.Flags().GetString("due")
		}
		if cmd.Flags().Changed("category") {
			form.Category, _ = cmd.Flags().GetString("category")
		}
		if cmd.Flags().Changed("tags") {
			form.Tags, _ = cmd.Flags().GetStringSlice("tags")
		}
		if cmd.Flags().Changed("assignees") {
			form.AssigneeIDs, _ = cmd.Flags().GetInt64Slice("assignees")
		}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetString("priority")
			priority, err := parsePriority(p)
			if err != nil {
				return err
			}
			form.Priority = priority
		}
		if cmd.Flags().Changed("status") {
			raw, _ := cmd.Flags().GetString("status")
			status, err := parseStatus(raw)
			if err != nil {
				return err
			}
			form.Status = status
		}

		task, err := app.store.UpdateTask(cmd.Context(), taskID, form)
		if err != nil {
			return err
		}
		fmt.Printf("Updated task #%d: %s\n", task.ID, task.Title)
		return nil
	}),
}

var taskTrashCmd = &cobra.Command{
	Use:   "trash [task-id]",
	Short: "Move a task to the trash",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := app.store.LoadBoard(cmd.Context()); err != nil {
			return err
		}
		if err := app.store.TrashTask(cmd.Context(), taskID); err != nil {
			return err
		}
		fmt.Printf("Moved task #%d to the trash\n", taskID)
		return nil
	}),
}

var taskRestoreCmd = &cobra.Command{
	Use:   "restore [task-id]",
	Short: "Restore a task from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := app.store.LoadTrash(cmd.Context()); err != nil {
			return err
		}
		task, err := app.store.RestoreTask(cmd.Context(), taskID)
		if err != nil {
			return err
		}
		fmt.Printf("Restored task #%d: %s\n", task.ID, task.Title)
		return nil
	}),
}

var taskPurgeCmd = &cobra.Command{
	Use:   "purge [task-id]",
	Short: "Permanently delete a trashed task",
	Long: `Permanently delete a trashed task. This cannot be undone; pass
--force to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if force, _ := cmd.Flags().GetBool("force"); !force {
			fmt.Printf("Permanently delete task #%d? This cannot be undone. [y/N] ", taskID)
			var answer string
			fmt.Scanln(&answer)
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Println("Cancelled")
				return nil
			}
		}
		if err := app.store.LoadTrash(cmd.Context()); err != nil {
			return err
		}
		if err := app.store.PurgeTask(cmd.Context(), taskID); err != nil {
			return err
		}
		fmt.Printf("Permanently deleted task #%d\n", taskID)
		return nil
	}),
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q", arg)
	}
	return id, nil
}

func parsePriority(raw string) (models.Priority, error) {
	switch strings.ToLower(raw) {
	case "low":
		return models.PriorityLow, nil
	case "medium":
		return models.PriorityMedium, nil
	case "high":
		return models.PriorityHigh, nil
	case "urgent":
		return models.PriorityUrgent, nil
	}
	return "", fmt.Errorf("invalid priority %q (low, medium, high, urgent)", raw)
}

func parseStatus(raw string) (models.Status, error) {
	switch strings.ToLower(raw) {
	case "pending", "todo", "to-do":
		return models.StatusPending, nil
	case "in-progress", "in progress", "progress":
		return models.StatusInProgress, nil
	case "completed", "done":
		return models.StatusCompleted, nil
	case "on-hold", "on hold", "hold":
		return models.StatusOnHold, nil
	}
	return "", fmt.Errorf("invalid status %q (pending, in-progress, completed, on-hold)", raw)
}

func init() {
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskEditCmd)
	taskCmd.AddCommand(taskTrashCmd)
	taskCmd.AddCommand(taskRestoreCmd)
	taskCmd.AddCommand(taskPurgeCmd)

	for _, c := range []*cobra.Command{taskAddCmd, taskEditCmd} {
		c.Flags().StringP("description", "d", "", "Task description")
		c.Flags().String("start", "", "Start date (YYYY-MM-DD)")
		c.Flags().String("due", "", "Due date (YYYY-MM-DD)")
		c.Flags().StringP("category", "c", "", "Category name")
		c.Flags().StringSliceP("tags", "t", nil, "Comma-separated tags")
		c.Flags().Int64Slice("assignees", nil, "Assignee user IDs")
		c.Flags().StringP("priority", "p", "", "Priority: low, medium, high, urgent")
	}
	taskEditCmd.Flags().String("title", "", "Task title")
	taskEditCmd.Flags().StringP("status", "s", "", "Status: pending, in-progress, completed, on-hold")
	taskPurgeCmd.Flags().BoolP("force", "f", false, "Skip the confirmation prompt")
}
