package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
)

// ErrLoginCancelled reports that the user left the sign-in form without
// submitting.
var ErrLoginCancelled = errors.New("login cancelled")

func run(model tea.Model) error {
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("could not start terminal ui: %w", err)
	}
	return nil
}

// RunBoard starts the kanban board screen.
func RunBoard(s *store.Store) error {
	return run(NewBoardModel(s))
}

// RunList starts the sortable, filterable list screen.
func RunList(s *store.Store) error {
	return run(NewListModel(s))
}

// RunDashboard starts the overview dashboard screen.
func RunDashboard(s *store.Store) error {
	return run(NewDashboardModel(s))
}

// RunTaskDetail starts the detail screen for one task.
func RunTaskDetail(s *store.Store, taskID int64) error {
	return run(NewDetailModel(s, taskID))
}

// RunTrash starts the trash screen.
func RunTrash(s *store.Store) error {
	return run(NewTrashModel(s))
}

// RunTeam starts the team roster screen.
func RunTeam(s *store.Store) error {
	return run(NewTeamModel(s))
}

// RunLogin starts the sign-in form and returns the authenticated user
// and token once the form submits successfully.
func RunLogin(client *api.Client) (*models.User, string, error) {
	p := tea.NewProgram(NewLoginModel(client), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return nil, "", fmt.Errorf("could not start terminal ui: %w", err)
	}
	m, ok := final.(LoginModel)
	if !ok || m.User == nil {
		return nil, "", ErrLoginCancelled
	}
	return m.User, m.Token, nil
}
