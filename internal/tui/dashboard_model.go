package tui

import (
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

// DashboardModel is the overview screen: headline stats, the priority
// chart, upcoming deadlines, and the recent activity feed.
type DashboardModel struct {
	store  *store.Store
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	stats      views.Stats
	priorities views.PriorityCounts
	upcoming   []models.Task
	feed       []models.Activity
}

// NewDashboardModel creates the dashboard screen model.
func NewDashboardModel(s *store.Store) DashboardModel {
	return DashboardModel{
		store:   s,
		loading: true,
		spinner: newSpinner(),
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadDashboard))
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		m.derive()
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.spinner.Tick, loadCmd(m.store.LoadDashboard))
		}
	}
	return m, nil
}

// derive recomputes every dashboard projection from the collections.
func (m *DashboardModel) derive() {
	now := time.Now()
	m.stats = views.DashboardStats(m.store.Tasks, views.Today(now))
	m.priorities = views.CountByPriority(m.store.Tasks)
	m.upcoming = views.UpcomingDeadlines(m.store.Tasks)
	if len(m.store.Activities) > 0 {
		m.feed = m.store.Activities
	} else {
		m.feed = views.RecentActivity(m.store.Comments, m.store.Tasks, m.store.Users)
	}
}

func (m DashboardModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "dashboard", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}

	half := m.width/2 - 2

	top := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderStatCard("Tasks Overdue", fmt.Sprintf("%d", m.stats.Overdue), ColorError, m.width/3-2),
		" ",
		m.renderStatCard("Due Today", fmt.Sprintf("%d", m.stats.DueToday), ColorWarning, m.width/3-2),
		" ",
		m.renderStatCard("Completed", fmt.Sprintf("%d", m.stats.Completed), ColorSuccess, m.width/3-2),
	)

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPriorityChart(half),
		" ",
		m.renderUpcoming(half),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		top,
		"",
		middle,
		"",
		m.renderActivity(m.width-2),
		"",
		renderHelpBar("r refresh · q quit", m.width),
	)
}

func (m DashboardModel) renderStatCard(title, value, color string, width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	card := titleStyle.Render(title) + "\n" + valueStyle.Render(value)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(card)
}

func (m DashboardModel) renderPriorityChart(width int) string {
	var b strings.Builder
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render("Tasks by Priority"))
	b.WriteString("\n\n")

	bars := []struct {
		label string
		value int
		color string
	}{
		{"Low", m.priorities.Low, ColorSuccess},
		{"Medium", m.priorities.Medium, ColorWarning},
		{"High", m.priorities.High, ColorError},
	}
	maxValue := 1
	for _, bar := range bars {
		if bar.value > maxValue {
			maxValue = bar.value
		}
	}
	barWidth := width - 16
	if barWidth < 10 {
		barWidth = 10
	}
	for _, bar := range bars {
		filled := bar.value * barWidth / maxValue
		b.WriteString(fmt.Sprintf("%-7s ", bar.label))
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(bar.color)).
			Render(strings.Repeat("█", filled)))
		b.WriteString(fmt.Sprintf(" %d\n", bar.value))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m DashboardModel) renderUpcoming(width int) string {
	var b strings.Builder
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render("Upcoming Deadlines"))
	b.WriteString("\n\n")

	if len(m.upcoming) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No upcoming deadlines"))
	}
	for _, task := range m.upcoming {
		priority := lipgloss.NewStyle().
			Foreground(lipgloss.Color(PriorityColor(string(task.Priority)))).
			Render(string(task.Priority))
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			task.DueDate, truncate(task.Title, width-24), priority))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m DashboardModel) renderActivity(width int) string {
	var b strings.Builder
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render("Recent Activity"))
	b.WriteString("\n\n")

	if len(m.feed) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No recent activity"))
	}
	now := time.Now()
	actorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	for _, entry := range m.feed {
		line := actorStyle.Render(entry.Actor) + " " + entry.Action + " " + actorStyle.Render(entry.TaskTitle)
		if entry.Label != "" && entry.Kind == models.ActivityStatusChange {
			line += mutedStyle.Render(" (" + entry.Label + ")")
		}
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("  " + views.TimeAgo(entry.Timestamp, now)))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}
