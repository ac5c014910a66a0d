package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/tui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the taskdeck server",
	Long: `Sign in to the taskdeck server and save the session locally.

Without flags an interactive form opens. With --username and --password
the login runs directly, which suits scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap()
		if err != nil {
			return err
		}
		defer app.sessions.Close()

		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		var user *models.User
		var token string
		if username != "" || password != "" {
			user, token, err = store.Login(cmd.Context(), app.client, username, password)
		} else {
			user, token, err = tui.RunLogin(app.client)
			if errors.Is(err, tui.ErrLoginCancelled) {
				fmt.Println("Login cancelled")
				return nil
			}
		}
		if err != nil {
			return err
		}

		if err := app.sessions.Save(*user, token); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap()
		if err != nil {
			return err
		}
		defer app.sessions.Close()

		if _, _, err := app.sessions.Load(); errors.Is(err, session.ErrNoSession) {
			fmt.Println("Not signed in")
			return nil
		}
		if err := app.sessions.Clear(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: withSession(func(app *appContext, cmd *cobra.Command, args []string) error {
		user := app.store.User()
		role := "Member"
		if user.Role == models.RoleAdmin {
			role = "Group Leader"
		}
		fmt.Printf("%s (%s)\n", user.FullName, user.Username)
		fmt.Printf("  Email: %s\n", user.Email)
		fmt.Printf("  Role:  %s\n", role)
		if !user.CreatedAt.IsZero() {
			fmt.Printf("  Since: %s\n", user.CreatedAt.Format("2006-01-02"))
		}
		return nil
	}),
}

func init() {
	loginCmd.Flags().StringP("username", "u", "", "Username (skip the interactive form)")
	loginCmd.Flags().StringP("password", "p", "", "Password (skip the interactive form)")
}
