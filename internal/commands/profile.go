package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the signed-in user's profile",
	Args:  cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		user := app.store.User()
		role := "Member"
		if user.Role == models.RoleAdmin {
			role = "Group Leader"
		}
		fmt.Printf("[%s] %s\n", user.Initials(), user.FullName)
		fmt.Printf("  Username: %s\n", user.Username)
		fmt.Printf("  Email:    %s\n", user.Email)
		fmt.Printf("  Role:     %s\n", role)
		if !user.CreatedAt.IsZero() {
			fmt.Printf("  Joined:   %s\n", user.CreatedAt.Format("January 2006"))
		}
		return nil
	}),
}

var profileEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the signed-in user's profile",
	Long: `Edit the signed-in user's profile. Only the fields named by flags
change; an omitted --password keeps the current one.`,
	Args: cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		user := app.store.User()
		form := store.UserForm{
			Username:    user.Username,
			FullName:    user.FullName,
			Email:       user.Email,
			Role:        user.Role,
			AvatarColor: user.AvatarColor,
		}
		if cmd.Flags().Changed("name") {
			form.FullName, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("email") {
			form.Email, _ = cmd.Flags().GetString("email")
		}
		if cmd.Flags().Changed("password") {
			form.Password, _ = cmd.Flags().GetString("password")
		}
		if cmd.Flags().Changed("avatar-color") {
			form.AvatarColor, _ = cmd.Flags().GetString("avatar-color")
		}

		updated, err := app.store.UpdateProfile(cmd.Context(), form)
		if err != nil {
			return err
		}
		if err := app.sessions.Save(*updated, app.client.Token()); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Profile updated: %s <%s>\n", updated.FullName, updated.Email)
		return nil
	}),
}

func init() {
	profileCmd.AddCommand(profileEditCmd)

	profileEditCmd.Flags().StringP("name", "n", "", "Full name")
	profileEditCmd.Flags().StringP("email", "e", "", "Email address")
	profileEditCmd.Flags().StringP("password", "p", "", "New password (min 6 characters)")
	profileEditCmd.Flags().String("avatar-color", "", "Avatar color (hex)")
}
