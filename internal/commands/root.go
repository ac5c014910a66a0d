package commands

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/logging"
	"github.com/taskdeck/taskdeck/internal/session"
	"github.com/taskdeck/taskdeck/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "A terminal client for the taskdeck task manager",
	Long: `taskdeck is a terminal client for a shared task board. Browse the
kanban board, the dashboard and the team roster, move tasks through
their statuses, and comment on tasks without leaving the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// appContext holds everything a signed-in command needs.
type appContext struct {
	cfg      *config.Config
	logger   *logrus.Logger
	client   *api.Client
	sessions *session.Store
	store    *store.Store
}

// bootstrap wires the config, the logger, the API client and the local
// session store. It does not require a signed-in user.
func bootstrap() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogPath(), cfg.LogLevel)
	sessions, err := session.Open(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	return &appContext{
		cfg:      cfg,
		logger:   logger,
		client:   api.NewClient(cfg.APIURL, logger),
		sessions: sessions,
	}, nil
}

// withSession wraps a command function, requiring a signed-in user. The
// saved token is installed on the client and the collection store is
// built around the session user.
func withSession(fn func(*appContext, *cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap()
		if err != nil {
			return err
		}
		defer app.sessions.Close()

		user, token, err := app.sessions.Load()
		if errors.Is(err, session.ErrNoSession) {
			return fmt.Errorf("not signed in. Run 'taskdeck login' first")
		}
		if err != nil {
			return err
		}
		app.client.SetToken(token)
		app.store = store.New(app.client, user, app.logger)
		app.store.SetCache(app.sessions)

		if err := fn(app, cmd, args); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				return fmt.Errorf("session expired. Run 'taskdeck login' again")
			}
			return err
		}
		return nil
	}
}

// SetVersion sets the build information stamped at link time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(versionCmd)
}
