package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/models"
)

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Work with task comments",
}

var commentAddCmd = &cobra.Command{
	Use:   "add [task-id] [text]",
	Short: "Comment on a task",
	Long: `Comment on a task. The category defaults to "Commented"; pass
--reply-to to answer an existing comment.

Categories: ` + strings.Join(categoryNames(), ", "),
	Args: cobra.MinimumNArgs(2),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		taskID, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")

		category := models.CategoryCommented
		if raw, _ := cmd.Flags().GetString("category"); raw != "" {
			category = models.CommentCategory(raw)
			if !models.ValidCommentCategory(category) {
				return fmt.Errorf("unknown category %q (%s)", raw, strings.Join(categoryNames(), ", "))
			}
		}

		var parentID *int64
		if id, _ := cmd.Flags().GetInt64("reply-to"); id > 0 {
			parentID = &id
		}

		if err := app.store.LoadTaskDetail(cmd.Context(), taskID); err != nil {
			return err
		}
		comment, err := app.store.AddComment(cmd.Context(), taskID, text, category, parentID)
		if err != nil {
			return err
		}
		fmt.Printf("Added comment #%d on task #%d [%s]\n", comment.ID, taskID, comment.Category)
		return nil
	}),
}

func categoryNames() []string {
	names := make([]string, len(models.CommentCategories))
	for i, c := range models.CommentCategories {
		names[i] = string(c)
	}
	return names
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentAddCmd.Flags().StringP("category", "c", "", "Comment category")
	commentAddCmd.Flags().Int64("reply-to", 0, "Parent comment ID")
}
