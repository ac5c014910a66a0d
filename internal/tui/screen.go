package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/store"
)

// loadedMsg signals that a screen's fetch join finished.
type loadedMsg struct{}

// loadFailedMsg carries the error that failed the fetch join.
type loadFailedMsg struct{ err error }

// mutationDoneMsg signals a confirmed mutation; the collections already
// hold the reconciled state.
type mutationDoneMsg struct{ notice string }

// mutationFailedMsg carries a denied or failed mutation.
type mutationFailedMsg struct{ err error }

// loadCmd wraps a screen's fetch join as a tea command.
func loadCmd(fetch func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fetch(context.Background()); err != nil {
			return loadFailedMsg{err: err}
		}
		return loadedMsg{}
	}
}

// mutateCmd wraps a mutation as a tea command.
func mutateCmd(notice string, mutate func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := mutate(context.Background()); err != nil {
			return mutationFailedMsg{err: err}
		}
		return mutationDoneMsg{notice: notice}
	}
}

// newSpinner builds the loading spinner all screens share.
func newSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	return s
}

// renderLoading renders the full-screen loading state.
func renderLoading(s spinner.Model, what string, width int) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Align(lipgloss.Center).
		Width(width).
		MarginTop(2)
	return style.Render(fmt.Sprintf("%s Loading %s...", s.View(), what))
}

// renderError renders the full-screen error state with the retry hint.
func renderError(err error, width int) string {
	msgStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorError)).
		Align(lipgloss.Center).
		Width(width).
		MarginTop(2)
	hintStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Align(lipgloss.Center).
		Width(width)
	return msgStyle.Render("Unable to load: "+err.Error()) + "\n\n" +
		hintStyle.Render("r retry · q quit")
}

// noticeText formats a mutation failure for the notice line. Permission
// denials read as-is; other errors get the generic prefix.
func noticeText(err error) string {
	if errors.Is(err, store.ErrPermissionDenied) || errors.Is(err, store.ErrInvalidTransition) {
		return err.Error()
	}
	return "Error: " + err.Error()
}

// renderHelpBar renders the centered hotkey hints line.
func renderHelpBar(text string, width int) string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(width)
	return helpStyle.Render(text)
}

// renderNotice renders the transient notice line shown after mutations.
func renderNotice(notice string, isErr bool, width int) string {
	color := ColorSuccess
	if isErr {
		color = ColorError
	}
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Align(lipgloss.Center).
		Width(width)
	return style.Render(notice)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max > 3 {
		return s[:max-3] + "..."
	}
	return s[:max]
}
