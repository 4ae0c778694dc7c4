// ABOUTME: Bubble Tea model for the login-gated chat interface
// ABOUTME: Explicit login and chat views replace the reactive page-rerun design
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"deptchat/internal/auth"
	"deptchat/internal/chat"
	"deptchat/internal/models"
)

type view int

const (
	viewLogin view = iota
	viewChat
)

type chatState int

const (
	chatIdle chatState = iota
	chatThinking
	chatStreaming
)

// SessionFactory builds a conversation session for an authenticated user.
type SessionFactory func(username string) (*chat.Session, error)

type chatMessage struct {
	role    string
	content string
}

// loginMsg is sent when a login attempt completes.
type loginMsg struct {
	token   string
	session *chat.Session
	profile *models.Profile
	err     error
}

// streamChunkMsg carries one answer fragment.
type streamChunkMsg struct {
	frag string
}

// answerMsg is sent when a question completes (streamed or fallen back).
type answerMsg struct {
	answer string
	err    error
}

// Model is the Bubble Tea model for the application.
type Model struct {
	authSvc *auth.Service
	factory SessionFactory

	view view

	// Login view
	username textinput.Model
	password textinput.Model
	focus    int
	loginErr string

	// Chat view
	session  *chat.Session
	profile  *models.Profile
	token    string
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	messages []chatMessage
	state    chatState
	partial  string

	frags chan string
	done  chan answerMsg

	width       int
	height      int
	initialized bool
}

// New creates the TUI model starting at the login view.
func New(authSvc *auth.Service, factory SessionFactory) Model {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	ask := textinput.New()
	ask.Placeholder = "Ask about the department..."
	ask.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		authSvc:  authSvc,
		factory:  factory,
		view:     viewLogin,
		username: user,
		password: pass,
		input:    ask,
		spinner:  sp,
		state:    chatIdle,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) attemptLogin() tea.Cmd {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()

	return func() tea.Msg {
		session, err := m.authSvc.Login(username, password)
		if err != nil {
			return loginMsg{err: err}
		}

		chatSession, err := m.factory(username)
		if err != nil {
			return loginMsg{err: err}
		}

		profile, err := m.authSvc.Profile(username)
		if err != nil {
			return loginMsg{err: err}
		}

		return loginMsg{token: session.Token, session: chatSession, profile: profile}
	}
}

func (m *Model) startAsk(question string) tea.Cmd {
	frags := make(chan string)
	done := make(chan answerMsg, 1)
	m.frags = frags
	m.done = done

	session := m.session
	go func() {
		answer, err := session.AskStream(context.Background(), question, func(frag string) {
			frags <- frag
		})
		close(frags)
		done <- answerMsg{answer: answer, err: err}
	}()

	return tea.Batch(m.spinner.Tick, readStream(frags, done))
}

// readStream delivers the next fragment, or the final answer once the
// fragment channel closes.
func readStream(frags chan string, done chan answerMsg) tea.Cmd {
	return func() tea.Msg {
		if frag, ok := <-frags; ok {
			return streamChunkMsg{frag: frag}
		}
		return <-done
	}
}

// Update handles events for whichever view is active
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.initChat(msg.Width, msg.Height)
		return m, nil

	case loginMsg:
		if msg.err != nil {
			m.loginErr = msg.err.Error()
			m.password.Reset()
			return m, nil
		}
		m.token = msg.token
		m.session = msg.session
		m.profile = msg.profile
		m.view = viewChat
		m.loginErr = ""
		m.input.Focus()
		m.restoreHistory()
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case streamChunkMsg:
		m.state = chatStreaming
		m.partial += msg.frag
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, readStream(m.frags, m.done)

	case answerMsg:
		m.state = chatIdle
		m.partial = ""
		if msg.err != nil {
			m.messages = append(m.messages, chatMessage{role: "error", content: msg.err.Error()})
		} else {
			m.messages = append(m.messages, chatMessage{role: "assistant", content: msg.answer})
		}
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if m.state != chatIdle {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.view == viewLogin {
			return m.updateLogin(msg)
		}
		return m.updateChat(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab, tea.KeyUp, tea.KeyDown:
		m.focus = (m.focus + 1) % 2
		if m.focus == 0 {
			m.username.Focus()
			m.password.Blur()
		} else {
			m.username.Blur()
			m.password.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		if strings.TrimSpace(m.username.Value()) == "" || m.password.Value() == "" {
			m.loginErr = "username and password are required"
			return m, nil
		}
		return m, m.attemptLogin()
	}

	return m.updateInputs(msg)
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != chatIdle {
		return m, nil
	}

	if msg.Type == tea.KeyEnter {
		question := strings.TrimSpace(m.input.Value())
		if question == "" {
			return m, nil
		}
		m.input.Reset()

		switch question {
		case "/exit", "/quit":
			return m, tea.Quit
		case "/logout":
			_ = m.authSvc.Logout(m.token)
			return m, tea.Quit
		case "/clear":
			if err := m.session.ClearHistory(); err != nil {
				m.messages = append(m.messages, chatMessage{role: "error", content: err.Error()})
			} else {
				m.messages = nil
			}
			m.viewport.SetContent(m.renderMessages())
			return m, nil
		case "/help":
			helpText := "Commands:\n  /clear   - clear conversation history\n  /logout  - end session and quit\n  /exit    - quit\n  /help    - show this help"
			m.messages = append(m.messages, chatMessage{role: "system", content: helpText})
			m.viewport.SetContent(m.renderMessages())
			m.viewport.GotoBottom()
			return m, nil
		}

		m.messages = append(m.messages, chatMessage{role: "user", content: question})
		m.state = chatThinking
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
		return m, m.startAsk(question)
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.view == viewLogin {
		m.username, cmd = m.username.Update(msg)
		cmds = append(cmds, cmd)
		m.password, cmd = m.password.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		if m.state == chatIdle {
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) initChat(width, height int) {
	m.width = width
	m.height = height

	// Layout: viewport + status bar (1 line) + input (1 line) + gap.
	vpHeight := height - 3
	if vpHeight < 5 {
		vpHeight = 5
	}
	m.viewport = viewport.New(width, vpHeight)
	m.input.Width = width - 4
	m.initialized = true

	if m.view == viewChat {
		m.viewport.SetContent(m.renderMessages())
		m.viewport.GotoBottom()
	}
}

// restoreHistory converts persisted turns into display messages and adds
// the greeting the original chat page opened with.
func (m *Model) restoreHistory() {
	name := m.session.Username()
	if m.profile != nil && m.profile.Name != "" {
		name = m.profile.Name
	}

	m.messages = []chatMessage{{
		role:    "system",
		content: fmt.Sprintf("Hello %s! Ask me anything about the department. Type /help for commands.", name),
	}}

	for _, turn := range m.session.Turns() {
		role := "assistant"
		if turn.Role == models.RoleUser {
			role = "user"
		}
		m.messages = append(m.messages, chatMessage{role: role, content: turn.Content})
	}
}

func (m Model) renderMessages() string {
	var sb strings.Builder
	for _, msg := range m.messages {
		switch msg.role {
		case "user":
			sb.WriteString(userMsgStyle.Render("You: ") + msg.content + "\n\n")
		case "assistant":
			sb.WriteString(assistantMsgStyle.Render(msg.content) + "\n\n")
		case "error":
			sb.WriteString(errorStyle.Render("Error: "+msg.content) + "\n\n")
		case "system":
			sb.WriteString(dimStyle.Render(msg.content) + "\n\n")
		}
	}

	if m.partial != "" {
		sb.WriteString(assistantMsgStyle.Render(m.partial) + "\n")
	} else if m.state != chatIdle {
		sb.WriteString(m.spinner.View() + " " + dimStyle.Render("Thinking...") + "\n")
	}

	return sb.String()
}

// View renders the active view
func (m Model) View() string {
	if !m.initialized {
		return "Loading..."
	}
	if m.view == viewLogin {
		return m.viewLoginScreen()
	}
	return m.viewChatScreen()
}

func (m Model) viewLoginScreen() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("deptchat") + "\n")
	sb.WriteString(subtitleStyle.Render("Sign in to chat with the department assistant") + "\n\n")
	sb.WriteString(m.username.View() + "\n")
	sb.WriteString(m.password.View() + "\n\n")
	if m.loginErr != "" {
		sb.WriteString(errorStyle.Render(m.loginErr) + "\n")
	}
	sb.WriteString(dimStyle.Render("tab to switch fields, enter to sign in, ctrl+c to quit"))
	return sb.String()
}

func (m Model) viewChatScreen() string {
	statusText := "idle"
	switch m.state {
	case chatThinking:
		statusText = "thinking..."
	case chatStreaming:
		statusText = "streaming..."
	}
	statusBar := statusBarStyle.
		Width(m.width).
		Render(fmt.Sprintf(" deptchat • %s • %s", m.session.Username(), statusText))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewport.View(),
		statusBar,
		m.input.View(),
	)
}
