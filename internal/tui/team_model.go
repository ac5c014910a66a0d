package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/permissions"
	"github.com/taskdeck/taskdeck/internal/store"
)

// TeamModel is the team roster screen. Admins can toggle a member
// between active and inactive; everyone else just browses.
type TeamModel struct {
	store  *store.Store
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	cursor    int
	notice    string
	noticeErr bool
}

// NewTeamModel creates the team screen model.
func NewTeamModel(s *store.Store) TeamModel {
	return TeamModel{
		store:   s,
		loading: true,
		spinner: newSpinner(),
	}
}

func (m TeamModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadTeam))
}

func (m TeamModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.loadErr = nil
		m.clampCursor()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case mutationDoneMsg:
		m.notice = msg.notice
		m.noticeErr = false
		return m, nil

	case mutationFailedMsg:
		m.notice = noticeText(msg.err)
		m.noticeErr = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "r":
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadTeam))

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.store.Users)-1 {
				m.cursor++
			}

		case "t", "enter":
			return m.toggleSelected()
		}
	}
	return m, nil
}

func (m TeamModel) toggleSelected() (tea.Model, tea.Cmd) {
	if len(m.store.Users) == 0 {
		return m, nil
	}
	member := m.store.Users[m.cursor]
	action := "Deactivated"
	if !member.Active {
		action = "Activated"
	}
	cmd := mutateCmd(fmt.Sprintf("%s %s", action, member.FullName),
		func(ctx context.Context) error {
			_, err := m.store.ToggleUserStatus(ctx, member.ID)
			return err
		})
	return m, cmd
}

func (m *TeamModel) clampCursor() {
	if n := len(m.store.Users); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m TeamModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "team", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}

	var b strings.Builder
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render(fmt.Sprintf("Team (%d)", len(m.store.Users))))
	b.WriteString("\n\n")

	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	inactiveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	for i, member := range m.store.Users {
		prefix := "  "
		style := rowStyle
		if i == m.cursor {
			prefix = "> "
			style = selectedStyle
		}

		initials := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorAccentMain)).
			Render("[" + member.Initials() + "]")

		role := "Member"
		if member.Role == models.RoleAdmin {
			role = "Group Leader"
		}

		status := activeStyle.Render("active")
		if !member.Active {
			status = inactiveStyle.Render("inactive")
		}

		b.WriteString(prefix)
		b.WriteString(initials)
		b.WriteString(" ")
		b.WriteString(style.Render(fmt.Sprintf("%-24s", truncate(member.FullName, 24))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-28s", truncate(member.Email, 28))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-14s", role)))
		b.WriteString(status)
		b.WriteString("\n")
	}

	content := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(m.width - 2).
		Padding(0, 1).
		Render(b.String())

	var bottom string
	switch {
	case m.notice != "":
		bottom = renderNotice(m.notice, m.noticeErr, m.width)
	case permissions.CanManageTeam(m.store.User()):
		bottom = renderHelpBar("↑/↓ select · t toggle active · r reload · q quit", m.width)
	default:
		bottom = renderHelpBar("↑/↓ select · r reload · q quit", m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}
