package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Open the team roster",
	Long: `Open the team roster. Group leaders can toggle a member between
active and inactive with t.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		return tui.RunTeam(app.store)
	}),
}

var teamAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a team member",
	Long:  `Add a team member. Group leaders only.`,
	Args:  cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		form := store.UserForm{Role: models.RoleEmployee}
		form.Username, _ = cmd.Flags().GetString("username")
		form.FullName, _ = cmd.Flags().GetString("name")
		form.Email, _ = cmd.Flags().GetString("email")
		form.Password, _ = cmd.Flags().GetString("password")
		if admin, _ := cmd.Flags().GetBool("admin"); admin {
			form.Role = models.RoleAdmin
		}

		if err := app.store.LoadTeam(cmd.Context()); err != nil {
			return err
		}
		user, err := app.store.CreateUser(cmd.Context(), form)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", user.FullName, user.Username)
		return nil
	}),
}

var teamToggleCmd = &cobra.Command{
	Use:   "toggle [user-id]",
	Short: "Toggle a member between active and inactive",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		userID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || userID <= 0 {
			return fmt.Errorf("invalid user ID %q", args[0])
		}
		if err := app.store.LoadTeam(cmd.Context()); err != nil {
			return err
		}
		user, err := app.store.ToggleUserStatus(cmd.Context(), userID)
		if err != nil {
			return err
		}
		state := "inactive"
		if user.Active {
			state = "active"
		}
		fmt.Printf("%s is now %s\n", user.FullName, state)
		return nil
	}),
}

func init() {
	teamCmd.AddCommand(teamAddCmd)
	teamCmd.AddCommand(teamToggleCmd)

	teamAddCmd.Flags().StringP("username", "u", "", "Username")
	teamAddCmd.Flags().StringP("name", "n", "", "Full name")
	teamAddCmd.Flags().StringP("email", "e", "", "Email address")
	teamAddCmd.Flags().StringP("password", "p", "", "Initial password")
	teamAddCmd.Flags().Bool("admin", false, "Make the member a group leader")
}
