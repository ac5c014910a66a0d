package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/views"
)

// sortFields is the cycle order for the s hotkey.
var sortFields = []views.SortField{
	views.SortByDueDate,
	views.SortByTitle,
	views.SortByPriority,
	views.SortByAssignee,
}

// ListModel is the sortable, filterable task list with a detail panel.
type ListModel struct {
	store  *store.Store
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	tasks        []models.Task // filtered + sorted projection
	selectedTask int
	sortField    int // index into sortFields
	sortDir      views.SortDirection
	filter       views.Filter
	categories   []string
	categoryIdx  int // 0 = all
	tags         []string
	tagIdx       int // 0 = all

	// Pagination
	currentPage  int
	tasksPerPage int
}

// NewListModel creates the list screen model.
func NewListModel(s *store.Store) ListModel {
	return ListModel{
		store:        s,
		loading:      true,
		spinner:      newSpinner(),
		sortDir:      views.Ascending,
		tasksPerPage: 10,
	}
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadBoard))
}

// project recomputes the visible slice from the held collection.
func (m *ListModel) project() {
	filtered := views.FilterTasks(m.store.Tasks, m.filter)
	m.tasks = views.SortTasks(filtered, m.store.Users, sortFields[m.sortField], m.sortDir)
	if m.selectedTask >= len(m.tasks) {
		m.selectedTask = len(m.tasks) - 1
	}
	if m.selectedTask < 0 {
		m.selectedTask = 0
	}
	m.currentPage = 0
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		availableHeight := m.height - 12
		if availableHeight < 3 {
			availableHeight = 3
		}
		m.tasksPerPage = availableHeight
		return m, nil

	case loadedMsg:
		m.loading = false
		m.loadErr = nil
		m.categories = views.Categories(m.store.Tasks)
		m.tags = views.Tags(m.store.Tasks)
		m.project()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}
	return m, nil
}

func (m ListModel) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "r":
		if m.loadErr != nil {
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadBoard))
		}

	case "up", "k":
		return m.moveSelectionUp(), nil

	case "down", "j":
		return m.moveSelectionDown(), nil

	case "left", "h":
		return m.prevPage(), nil

	case "right", "l":
		return m.nextPage(), nil

	case "s":
		m.sortField = (m.sortField + 1) % len(sortFields)
		m.project()

	case "d":
		if m.sortDir == views.Ascending {
			m.sortDir = views.Descending
		} else {
			m.sortDir = views.Ascending
		}
		m.project()

	case "c":
		m.categoryIdx = (m.categoryIdx + 1) % (len(m.categories) + 1)
		if m.categoryIdx == 0 {
			m.filter.Category = views.FilterAll
		} else {
			m.filter.Category = m.categories[m.categoryIdx-1]
		}
		m.project()

	case "t":
		m.tagIdx = (m.tagIdx + 1) % (len(m.tags) + 1)
		if m.tagIdx == 0 {
			m.filter.Tag = views.FilterAll
		} else {
			m.filter.Tag = m.tags[m.tagIdx-1]
		}
		m.project()

	case "a":
		// Toggle between all tasks and the session user's own.
		if m.filter.AssigneeID == 0 {
			m.filter.AssigneeID = m.store.User().ID
		} else {
			m.filter.AssigneeID = 0
		}
		m.project()
	}
	return m, nil
}

func (m ListModel) moveSelectionUp() ListModel {
	if m.selectedTask > 0 {
		m.selectedTask--
		currentPageStart := m.currentPage * m.tasksPerPage
		if m.selectedTask < currentPageStart && m.currentPage > 0 {
			m.currentPage--
		}
	}
	return m
}

func (m ListModel) moveSelectionDown() ListModel {
	if m.selectedTask < len(m.tasks)-1 {
		m.selectedTask++
		currentPageEnd := min((m.currentPage+1)*m.tasksPerPage-1, len(m.tasks)-1)
		maxPages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
		if m.selectedTask > currentPageEnd && m.currentPage < maxPages-1 {
			m.currentPage++
		}
	}
	return m
}

func (m ListModel) prevPage() ListModel {
	if m.currentPage > 0 {
		m.currentPage--
		minIndex := m.currentPage * m.tasksPerPage
		if m.selectedTask >= minIndex+m.tasksPerPage {
			m.selectedTask = minIndex + m.tasksPerPage - 1
		}
		if m.selectedTask < minIndex {
			m.selectedTask = minIndex
		}
	}
	return m
}

func (m ListModel) nextPage() ListModel {
	maxPages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
	if m.currentPage < maxPages-1 {
		m.currentPage++
		minIndex := m.currentPage * m.tasksPerPage
		if m.selectedTask < minIndex {
			m.selectedTask = minIndex
		}
		maxIndex := min((m.currentPage+1)*m.tasksPerPage-1, len(m.tasks)-1)
		if m.selectedTask > maxIndex {
			m.selectedTask = maxIndex
		}
	}
	return m
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func (m ListModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "tasks", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth - 1

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTaskTable(leftWidth),
		" ",
		m.renderTaskDetails(rightWidth),
	)

	help := renderHelpBar(
		fmt.Sprintf("↑/↓ nav · ←/→ page · s sort (%s) · d direction (%s) · c category · t tag · a mine · q quit",
			sortFields[m.sortField], m.sortDir),
		m.width,
	)

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", help)
}

func (m ListModel) renderTaskTable(width int) string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headerStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if len(m.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true)
		b.WriteString(emptyStyle.Render("No tasks match the current filters"))
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorBorder)).
			Width(width).
			Render(b.String())
	}

	availableWidth := width - 4
	idWidth := 5
	statusWidth := 12
	priorityWidth := 8
	dueWidth := 10
	titleWidth := availableWidth - idWidth - statusWidth - priorityWidth - dueWidth - 8
	if titleWidth < 16 {
		titleWidth = 16
	}

	columnHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Padding(0, 1)
	headers := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s",
		idWidth, "ID",
		titleWidth, "TITLE",
		statusWidth, "STATUS",
		priorityWidth, "PRIORITY",
		dueWidth, "DUE")
	b.WriteString(columnHeaderStyle.Render(headers))
	b.WriteString("\n\n")

	startIndex := m.currentPage * m.tasksPerPage
	endIndex := min(startIndex+m.tasksPerPage, len(m.tasks))

	for i := startIndex; i < endIndex; i++ {
		task := m.tasks[i]
		isSelected := i == m.selectedTask

		id := fmt.Sprintf("#%d", task.ID)
		title := truncate(task.Title, titleWidth-1)
		due := task.DueDate
		if due == "" {
			due = "-"
		}

		priority := lipgloss.NewStyle().
			Foreground(lipgloss.Color(PriorityColor(string(task.Priority)))).
			Render(fmt.Sprintf("%-*s", priorityWidth, task.Priority))

		rowContent := fmt.Sprintf("%-*s %-*s %-*s %s %-*s",
			idWidth, id,
			titleWidth, title,
			statusWidth, task.Status,
			priority,
			dueWidth, due)

		if isSelected {
			selectedBorder := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorAccentMain)).
				Bold(true).
				Padding(0, 1)
			b.WriteString(selectedBorder.Render(rowContent))
		} else {
			b.WriteString(" " + rowContent)
		}
		b.WriteString("\n")
	}

	if m.tasksPerPage < len(m.tasks) {
		totalPages := (len(m.tasks) + m.tasksPerPage - 1) / m.tasksPerPage
		pageInfo := fmt.Sprintf("Page %d/%d (%d tasks)", m.currentPage+1, totalPages, len(m.tasks))
		pageStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorHelpText)).
			Align(lipgloss.Center).
			Width(width - 2).
			MarginTop(1)
		b.WriteString(pageStyle.Render(pageInfo))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m ListModel) renderTaskDetails(width int) string {
	var b strings.Builder

	if len(m.tasks) == 0 || m.selectedTask >= len(m.tasks) {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Italic(true).
			Align(lipgloss.Center).
			Width(width).
			MarginTop(2)
		b.WriteString(emptyStyle.Render("Select a task to view details"))
	} else {
		task := m.tasks[m.selectedTask]

		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Width(width)
		b.WriteString(titleStyle.Render(task.Title))
		b.WriteString("\n\n")

		statusColor := ColorSecondaryText
		if task.Status == models.StatusCompleted {
			statusColor = ColorSuccess
		}
		b.WriteString("Status: ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(statusColor)).Bold(true).Render(string(task.Status)))
		b.WriteString("\n")

		b.WriteString("Priority: ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(PriorityColor(string(task.Priority)))).Render(string(task.Priority)))
		b.WriteString("\n")

		b.WriteString("Category: ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(task.Category))
		b.WriteString("\n")

		if task.DueDate != "" {
			b.WriteString("Due: ")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWarning)).Render(task.DueDate))
			b.WriteString("\n")
		}

		if names := m.assigneeNames(task); names != "" {
			b.WriteString("Assigned to: ")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(names))
			b.WriteString("\n")
		}

		if len(task.Tags) > 0 {
			b.WriteString("Tags: ")
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Render(strings.Join(task.Tags, ", ")))
			b.WriteString("\n")
		}

		if task.Description != "" {
			b.WriteString("\n")
			descStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSecondaryText)).
				Italic(true).
				Width(width - 2)
			b.WriteString(descStyle.Render(task.Description))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Render(b.String())
}

func (m ListModel) assigneeNames(task models.Task) string {
	var names []string
	for _, u := range m.store.Users {
		if task.IsAssigned(u.ID) {
			names = append(names, u.FullName)
		}
	}
	return strings.Join(names, ", ")
}
