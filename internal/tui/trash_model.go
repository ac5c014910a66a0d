package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
)

// retentionDays is how long a trashed task stays restorable before the
// server's cleanup job removes it.
const retentionDays = 30

// TrashModel is the trash screen: trashed tasks with restore and
// permanent delete. Permanent delete asks for confirmation first.
type TrashModel struct {
	store  *store.Store
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	cursor     int
	confirming bool // purge confirmation pending for the selected task
	notice     string
	noticeErr  bool
}

// NewTrashModel creates the trash screen model.
func NewTrashModel(s *store.Store) TrashModel {
	return TrashModel{
		store:   s,
		loading: true,
		spinner: newSpinner(),
	}
}

func (m TrashModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadTrash))
}

func (m TrashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.confirming = false
		m.clampCursor()
		return m, nil

	case mutationFailedMsg:
		m.notice = noticeText(msg.err)
		m.noticeErr = true
		m.confirming = false
		return m, nil

	case tea.KeyMsg:
		if m.confirming {
			return m.handleConfirmKeys(msg)
		}
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m TrashModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "r":
		if m.loadErr != nil {
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadTrash))
		}
		return m.restoreSelected()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.store.TrashedTasks)-1 {
			m.cursor++
		}

	case "d", "x":
		if len(m.store.TrashedTasks) > 0 {
			m.confirming = true
			m.notice = ""
		}
	}
	return m, nil
}

func (m TrashModel) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.purgeSelected()
	case "n", "N", "esc":
		m.confirming = false
	}
	return m, nil
}

func (m TrashModel) restoreSelected() (tea.Model, tea.Cmd) {
	if len(m.store.TrashedTasks) == 0 {
		return m, nil
	}
	task := m.store.TrashedTasks[m.cursor]
	cmd := mutateCmd(fmt.Sprintf("Restored %q", truncate(task.Title, 30)),
		func(ctx context.Context) error {
			_, err := m.store.RestoreTask(ctx, task.ID)
			return err
		})
	return m, cmd
}

func (m TrashModel) purgeSelected() (tea.Model, tea.Cmd) {
	if len(m.store.TrashedTasks) == 0 {
		m.confirming = false
		return m, nil
	}
	task := m.store.TrashedTasks[m.cursor]
	cmd := mutateCmd(fmt.Sprintf("Permanently deleted %q", truncate(task.Title, 30)),
		func(ctx context.Context) error {
			return m.store.PurgeTask(ctx, task.ID)
		})
	return m, cmd
}

func (m *TrashModel) clampCursor() {
	if n := len(m.store.TrashedTasks); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// daysRemaining reports how many retention days a trashed task has left,
// based on when it was last touched.
func daysRemaining(task models.Task, now time.Time) int {
	expires := task.UpdatedAt.AddDate(0, 0, retentionDays)
	days := int(expires.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (m TrashModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "trash", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}

	var b strings.Builder
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render(fmt.Sprintf("Trash (%d)", len(m.store.TrashedTasks))))
	b.WriteString("\n\n")

	if len(m.store.TrashedTasks) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("Trash is empty"))
	}

	now := time.Now()
	selectedStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	rowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning))

	for i, task := range m.store.TrashedTasks {
		prefix := "  "
		style := rowStyle
		if i == m.cursor {
			prefix = "> "
			style = selectedStyle
		}
		remaining := daysRemaining(task, now)
		remainingText := fmt.Sprintf("%d days left", remaining)
		if remaining <= 5 {
			remainingText = warnStyle.Render(remainingText)
		} else {
			remainingText = mutedStyle.Render(remainingText)
		}
		b.WriteString(prefix)
		b.WriteString(style.Render(truncate(task.Title, m.width-40)))
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(task.Category))
		b.WriteString("  ")
		b.WriteString(remainingText)
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
	case m.confirming:
		task := m.store.TrashedTasks[m.cursor]
		prompt := fmt.Sprintf("Permanently delete %q? This cannot be undone. (y/n)",
			truncate(task.Title, 40))
		bottom = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			Align(lipgloss.Center).
			Width(m.width).
			Render(prompt)
	case m.notice != "":
		bottom = renderNotice(m.notice, m.noticeErr, m.width)
	default:
		bottom = renderHelpBar("↑/↓ select · r restore · d delete forever · q quit", m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}
