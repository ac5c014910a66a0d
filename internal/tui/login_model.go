package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/internal/store"
)

// loginDoneMsg carries the authenticated user and token.
type loginDoneMsg struct {
	user  *models.User
	token string
}

// loginFailedMsg carries a rejected login.
type loginFailedMsg struct{ err error }

// LoginModel is the sign-in form: username and password inputs with
// inline validation, submitting against the authentication endpoint.
type LoginModel struct {
	client *api.Client
	width  int
	height int

	inputs     []textinput.Model
	focusIdx   int
	submitting bool
	errText    string

	// Set after a successful submit; read by the caller once the
	// program exits.
	User  *models.User
	Token string
}

const (
	loginFieldUsername = iota
	loginFieldPassword
)

// NewLoginModel creates the sign-in form.
func NewLoginModel(client *api.Client) LoginModel {
	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 64
	username.Width = 32
	username.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.CharLimit = 64
	password.Width = 32
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	for _, in := range []*textinput.Model{&username, &password} {
		in.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentMain))
		in.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		in.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
	}

	return LoginModel{
		client: client,
		inputs: []textinput.Model{username, password},
	}
}

func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginDoneMsg:
		m.User = msg.user
		m.Token = msg.token
		return m, tea.Quit

	case loginFailedMsg:
		m.submitting = false
		m.errText = msg.err.Error()
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "tab", "shift+tab", "up", "down":
			return m.cycleFocus(msg.String())

		case "enter":
			if m.focusIdx == loginFieldUsername {
				return m.cycleFocus("tab")
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focusIdx], cmd = m.inputs[m.focusIdx].Update(msg)
	return m, cmd
}

func (m LoginModel) cycleFocus(key string) (tea.Model, tea.Cmd) {
	m.inputs[m.focusIdx].Blur()
	if key == "shift+tab" || key == "up" {
		m.focusIdx--
	} else {
		m.focusIdx++
	}
	if m.focusIdx >= len(m.inputs) {
		m.focusIdx = 0
	}
	if m.focusIdx < 0 {
		m.focusIdx = len(m.inputs) - 1
	}
	return m, m.inputs[m.focusIdx].Focus()
}

func (m LoginModel) submit() (tea.Model, tea.Cmd) {
	username := m.inputs[loginFieldUsername].Value()
	password := m.inputs[loginFieldPassword].Value()
	if username == "" {
		m.errText = "Username is required"
		return m, nil
	}
	if password == "" {
		m.errText = "Password is required"
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	client := m.client
	return m, func() tea.Msg {
		user, token, err := store.Login(context.Background(), client, username, password)
		if err != nil {
			return loginFailedMsg{err: err}
		}
		return loginDoneMsg{user: user, token: token}
	}
}

func (m LoginModel) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText))

	var body string
	body += titleStyle.Render("Sign in to taskdeck") + "\n\n"
	body += labelStyle.Render("Username") + "\n"
	body += m.inputs[loginFieldUsername].View() + "\n\n"
	body += labelStyle.Render("Password") + "\n"
	body += m.inputs[loginFieldPassword].View() + "\n"

	if m.errText != "" {
		body += "\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Render(m.errText) + "\n"
	}
	if m.submitting {
		body += "\n" + lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorSecondaryText)).
			Render("Signing in...") + "\n"
	}

	form := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Padding(1, 2).
		Render(body)

	hint := renderHelpBar("tab next field · enter submit · esc cancel", lipgloss.Width(form))
	return "\n" + form + "\n" + hint
}
