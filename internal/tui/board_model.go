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
	"github.com/taskdeck/taskdeck/internal/views"
)

// BoardModel is the kanban screen: three fixed columns, selection moves
// across and within columns, H/L moves the selected task between
// adjacent columns through the status machine.
type BoardModel struct {
	store  *store.Store
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	board     views.Board
	column    int // index into views.Buckets
	row       int // index within the selected column
	notice    string
	noticeErr bool
}

// NewBoardModel creates the kanban screen model.
func NewBoardModel(s *store.Store) BoardModel {
	return BoardModel{
		store:   s,
		loading: true,
		spinner: newSpinner(),
	}
}

func (m BoardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadBoard))
}

func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.board = views.GroupBoard(m.store.Tasks)
		m.clampSelection()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		// Fall back to the last cached board when the server is
		// unreachable; mutations still require a live connection.
		if savedAt, ok := m.store.HydrateBoard(); ok {
			m.board = views.GroupBoard(m.store.Tasks)
			m.clampSelection()
			m.notice = fmt.Sprintf("Offline: showing board from %s", views.TimeAgo(savedAt, time.Now()))
			m.noticeErr = true
			return m, nil
		}
		m.loadErr = msg.err
		return m, nil

	case mutationDoneMsg:
		m.board = views.GroupBoard(m.store.Tasks)
		m.clampSelection()
		m.notice = msg.notice
		m.noticeErr = false
		return m, nil

	case mutationFailedMsg:
		m.notice = noticeText(msg.err)
		m.noticeErr = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m BoardModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "r":
		m.loading = true
		m.loadErr = nil
		m.notice = ""
		return m, tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadBoard))

	case "left", "h":
		if m.column > 0 {
			m.column--
			m.clampSelection()
		}

	case "right", "l":
		if m.column < len(views.Buckets)-1 {
			m.column++
			m.clampSelection()
		}

	case "up", "k":
		if m.row > 0 {
			m.row--
		}

	case "down", "j":
		if m.row < len(m.selectedColumn())-1 {
			m.row++
		}

	case "H", "shift+left":
		return m.moveSelected(-1)

	case "L", "shift+right":
		return m.moveSelected(1)
	}
	return m, nil
}

// moveSelected moves the selected task one column left or right. The
// store rejects moves the policy or the state machine disallow.
func (m BoardModel) moveSelected(dir int) (tea.Model, tea.Cmd) {
	tasks := m.selectedColumn()
	if len(tasks) == 0 {
		return m, nil
	}
	target := m.column + dir
	if target < 0 || target >= len(views.Buckets) {
		return m, nil
	}
	task := tasks[m.row]
	status := views.StatusFor(views.Buckets[target])
	cmd := mutateCmd(fmt.Sprintf("Moved %q to %s", truncate(task.Title, 30), views.Buckets[target]),
		func(ctx context.Context) error {
			_, err := m.store.MoveTaskStatus(ctx, task.ID, status)
			return err
		})
	return m, cmd
}

func (m *BoardModel) selectedColumn() []models.Task {
	return m.board.Columns[views.Buckets[m.column]]
}

func (m *BoardModel) clampSelection() {
	if n := len(m.selectedColumn()); m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m BoardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "board", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}

	colWidth := m.width/3 - 2
	var columns []string
	for i, bucket := range views.Buckets {
		columns = append(columns, m.renderColumn(bucket, i == m.column, colWidth))
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, columns...)

	var bottom string
	if m.notice != "" {
		bottom = renderNotice(m.notice, m.noticeErr, m.width)
	} else {
		bottom = renderHelpBar("←/→ column · ↑/↓ task · H/L move task · r reload · q quit", m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m BoardModel) renderColumn(bucket views.Bucket, selected bool, width int) string {
	var b strings.Builder

	headerColor := ColorSecondaryText
	if selected {
		headerColor = ColorAccentBright
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(headerColor))
	tasks := m.board.Columns[bucket]
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", bucket, len(tasks))))
	b.WriteString("\n\n")

	if len(tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks"))
	}

	for i, task := range tasks {
		b.WriteString(m.renderCard(task, selected && i == m.row, width-4))
		b.WriteString("\n")
	}

	borderColor := ColorBorder
	if selected {
		borderColor = ColorAccentMain
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m BoardModel) renderCard(task models.Task, selected bool, width int) string {
	title := truncate(task.Title, width-2)

	priority := lipgloss.NewStyle().
		Foreground(lipgloss.Color(PriorityColor(string(task.Priority)))).
		Render(string(task.Priority))

	due := task.DueDate
	if due == "" {
		due = "-"
	}
	meta := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(fmt.Sprintf("due %s · ", due)) + priority

	card := title + "\n" + meta
	if selected {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Padding(0, 1).
			Render(card)
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(0, 1).
		Render(card)
}
