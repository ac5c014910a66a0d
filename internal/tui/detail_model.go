package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/views"
)

// detailFocus tracks whether keys go to the screen or the comment box.
type detailFocus int

const (
	focusDetail detailFocus = iota
	focusComment
)

// DetailModel is the task detail screen: full task info, the comment
// thread, attachments, and a comment composer with category selection.
type DetailModel struct {
	store  *store.Store
	taskID int64
	width  int
	height int

	loading bool
	loadErr error
	spinner spinner.Model

	focus       detailFocus
	commentBox  textinput.Model
	categoryIdx int
	notice      string
	noticeErr   bool
}

// NewDetailModel creates the detail screen for one task.
func NewDetailModel(s *store.Store, taskID int64) DetailModel {
	box := textinput.New()
	box.Placeholder = "Write a comment..."
	box.CharLimit = 500
	box.Width = 60
	box.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	box.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))

	return DetailModel{
		store:      s,
		taskID:     taskID,
		loading:    true,
		spinner:    newSpinner(),
		commentBox: box,
	}
}

func (m DetailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m DetailModel) load() tea.Cmd {
	return loadCmd(func(ctx context.Context) error {
		return m.store.LoadTaskDetail(ctx, m.taskID)
	})
}

func (m DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
		return m, nil

	case loadFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		return m, nil

	case mutationDoneMsg:
		m.notice = msg.notice
		m.noticeErr = false
		m.commentBox.SetValue("")
		m.focus = focusDetail
		m.commentBox.Blur()
		return m, nil

	case mutationFailedMsg:
		m.notice = noticeText(msg.err)
		m.noticeErr = true
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusComment {
			return m.handleCommentKeys(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.loadErr = nil
			return m, tea.Batch(m.spinner.Tick, m.load())
		case "n":
			m.focus = focusComment
			m.notice = ""
			return m, m.commentBox.Focus()
		}
	}
	return m, nil
}

func (m DetailModel) handleCommentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.focus = focusDetail
		m.commentBox.Blur()
		return m, nil

	case "tab":
		m.categoryIdx = (m.categoryIdx + 1) % len(models.CommentCategories)
		return m, nil

	case "enter":
		text := m.commentBox.Value()
		category := models.CommentCategories[m.categoryIdx]
		return m, mutateCmd("Comment added", func(ctx context.Context) error {
			_, err := m.store.AddComment(ctx, m.taskID, text, category, nil)
			return err
		})

	default:
		var cmd tea.Cmd
		m.commentBox, cmd = m.commentBox.Update(msg)
		return m, cmd
	}
}

func (m DetailModel) task() *models.Task {
	for i := range m.store.Tasks {
		if m.store.Tasks[i].ID == m.taskID {
			return &m.store.Tasks[i]
		}
	}
	return nil
}

func (m DetailModel) userName(id int64) string {
	for _, u := range m.store.Users {
		if u.ID == id {
			return u.FullName
		}
	}
	return "Unknown"
}

func (m DetailModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.loading {
		return renderLoading(m.spinner, "task", m.width)
	}
	if m.loadErr != nil {
		return renderError(m.loadErr, m.width)
	}
	task := m.task()
	if task == nil {
		return renderError(fmt.Errorf("task %d not found", m.taskID), m.width)
	}

	leftWidth := m.width/2 - 2
	rightWidth := m.width - leftWidth - 3

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderInfo(*task, leftWidth),
		" ",
		m.renderComments(rightWidth),
	)

	var bottom string
	switch {
	case m.focus == focusComment:
		bottom = m.renderComposer()
	case m.notice != "":
		bottom = renderNotice(m.notice, m.noticeErr, m.width)
	default:
		bottom = renderHelpBar("n new comment · r reload · q quit", m.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, "", content, "", bottom)
}

func (m DetailModel) renderInfo(task models.Task, width int) string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 2)
	b.WriteString(titleStyle.Render(task.Title))
	b.WriteString("\n\n")

	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	writeField := func(name, value, color string) {
		b.WriteString(label.Render(name + ": "))
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(value))
		b.WriteString("\n")
	}

	statusColor := ColorSecondaryText
	if task.Status == models.StatusCompleted {
		statusColor = ColorSuccess
	}
	writeField("Status", string(task.Status), statusColor)
	writeField("Priority", string(task.Priority), PriorityColor(string(task.Priority)))
	writeField("Category", task.Category, ColorAccentBright)
	if task.StartDate != "" {
		writeField("Start", task.StartDate, ColorPrimaryText)
	}
	if task.DueDate != "" {
		writeField("Due", task.DueDate, ColorWarning)
	}

	var names []string
	for _, id := range task.AssigneeIDs {
		names = append(names, m.userName(id))
	}
	if len(names) > 0 {
		writeField("Assigned to", strings.Join(names, ", "), ColorAccentBright)
	} else {
		writeField("Assigned to", "Unassigned", ColorDisabledText)
	}
	if len(task.Tags) > 0 {
		writeField("Tags", strings.Join(task.Tags, ", "), ColorAccentBright)
	}

	if task.Description != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Width(width - 2).
			Render(task.Description))
		b.WriteString("\n")
	}

	if len(task.Attachments) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(ColorAccentBright)).
			Render("Attachments"))
		b.WriteString("\n")
		for _, att := range task.Attachments {
			b.WriteString(fmt.Sprintf("  %s (%s) · %s\n",
				att.FileName,
				humanize.Bytes(uint64(att.FileSize)),
				m.userName(att.UploadedBy)))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m DetailModel) renderComments(width int) string {
	var b strings.Builder

	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorAccentBright))
	b.WriteString(headingStyle.Render(fmt.Sprintf("Comments (%d)", len(m.store.Comments))))
	b.WriteString("\n\n")

	if len(m.store.Comments) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No comments yet"))
	}

	now := time.Now()
	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorPrimaryText))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	categoryStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))

	// Top-level comments first; replies indent one level under their parent.
	for _, c := range m.store.Comments {
		if c.ParentID != nil {
			continue
		}
		m.renderComment(&b, c, "", width, now, authorStyle, mutedStyle, categoryStyle)
		for _, reply := range m.store.Comments {
			if reply.ParentID != nil && *reply.ParentID == c.ID {
				m.renderComment(&b, reply, "  ↳ ", width, now, authorStyle, mutedStyle, categoryStyle)
			}
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Width(width).
		Padding(0, 1).
		Render(b.String())
}

func (m DetailModel) renderComment(b *strings.Builder, c models.Comment, indent string, width int, now time.Time, author, muted, category lipgloss.Style) {
	b.WriteString(indent)
	b.WriteString(author.Render(m.userName(c.UserID)))
	b.WriteString(" ")
	b.WriteString(category.Render("[" + string(c.Category) + "]"))
	b.WriteString(" ")
	b.WriteString(muted.Render(views.TimeAgo(c.CreatedAt, now)))
	b.WriteString("\n")
	b.WriteString(indent)
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Width(width - 4).
		Render(c.Text))
	b.WriteString("\n\n")
}

func (m DetailModel) renderComposer() string {
	category := models.CommentCategories[m.categoryIdx]
	categoryHint := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(string(category))
	line := fmt.Sprintf("Comment (%s, tab to change): %s", categoryHint, m.commentBox.View())
	hint := renderHelpBar("enter submit · tab category · esc cancel", m.width)
	return line + "\n" + hint
}
