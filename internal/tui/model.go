package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/diogo/healthchat/internal/chat"
	"github.com/diogo/healthchat/internal/models"
	"github.com/diogo/healthchat/internal/render"
)

// Messages produced by the stream commands. Each carries the turn it
// belongs to so results for a finished turn are dropped by the controller.
type (
	streamOpenedMsg struct {
		turn   *chat.Turn
		stream chat.Stream
		err    error
	}
	fragmentMsg struct {
		turn   *chat.Turn
		stream chat.Stream
		text   string
	}
	streamDoneMsg struct {
		turn *chat.Turn
	}
	streamErrMsg struct {
		turn *chat.Turn
		err  error
	}
)

// storeEvents counts Store mutations not yet reflected in the viewport.
// It is shared by pointer because bubbletea copies the Model on every Update.
type storeEvents struct {
	pending int
}

// bubble is a rendered message kept until its text or width changes
type bubble struct {
	text  string
	width int
	out   string
}

// Options configures the chat screen
type Options struct {
	ModelName string
	Theme     render.TUITheme
	Markdown  render.Options
	// Copy writes text to the system clipboard
	Copy func(string) error
}

// Model is the chat screen
type Model struct {
	ctx   context.Context
	ctrl  *chat.Controller
	store *chat.Store

	modelName string
	styles    Styles
	markdown  render.Options
	copy      func(string) error

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	events  *storeEvents
	bubbles map[string]bubble

	notice string
	ready  bool
	width  int
	height int
}

// NewChatModel creates the chat screen over ctrl. The model subscribes to
// the controller's store so every mutation scrolls the conversation.
func NewChatModel(ctx context.Context, ctrl *chat.Controller, opts Options) Model {
	if opts.Theme.Name == "" {
		opts.Theme = render.DefaultTUITheme
	}
	if opts.Markdown.Style == "" {
		opts.Markdown = render.DefaultOptions().WithStyle(opts.Theme.MarkdownStyle)
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	styles := NewStyles(opts.Theme)

	ta := textarea.New()
	ta.Placeholder = models.InputPlaceholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(opts.Theme.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(opts.Theme.TextDim)
	ta.BlurredStyle = ta.FocusedStyle
	ta.Focus()

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = styles.typing

	events := &storeEvents{}
	ctrl.Store().Subscribe(func(chat.Event) {
		events.pending++
	})

	return Model{
		ctx:       ctx,
		ctrl:      ctrl,
		store:     ctrl.Store(),
		modelName: opts.ModelName,
		styles:    styles,
		markdown:  opts.Markdown,
		copy:      opts.Copy,
		textarea:  ta,
		spinner:   s,
		events:    events,
		bubbles:   make(map[string]bubble),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.ctrl.Busy() {
				return m, tea.Quit
			}
			return m, nil

		case "ctrl+y":
			m.copyLastReply()
			return m, nil

		case "enter":
			if m.ctrl.Busy() {
				return m, nil
			}
			if isExitCommand(m.textarea.Value()) {
				return m, tea.Quit
			}
			cmd = m.submit()
			m.sync()
			return m, cmd
		}

	case streamOpenedMsg:
		if msg.err != nil {
			m.ctrl.Fail(msg.turn, msg.err)
		} else if m.ctrl.Attach(msg.turn, msg.stream) {
			cmds = append(cmds, nextFragment(msg.turn, msg.stream))
		}

	case fragmentMsg:
		if m.ctrl.Apply(msg.turn, msg.text) {
			cmds = append(cmds, nextFragment(msg.turn, msg.stream))
		}

	case streamDoneMsg:
		m.ctrl.Complete(msg.turn)

	case streamErrMsg:
		m.ctrl.Fail(msg.turn, msg.err)

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	// Only keys reach the textarea, and only while idle
	if _, ok := msg.(tea.KeyMsg); ok && !m.ctrl.Busy() {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	m.sync()
	return m, tea.Batch(cmds...)
}

// submit starts a turn from the input box. Rejected input stays in place.
func (m *Model) submit() tea.Cmd {
	turn, ok := m.ctrl.Submit(m.textarea.Value())
	if !ok {
		return nil
	}
	m.textarea.Reset()
	m.notice = ""

	if !m.ctrl.Begin(turn) {
		return nil
	}
	return tea.Batch(openStream(m.ctx, turn), m.spinner.Tick)
}

func (m *Model) copyLastReply() {
	last, ok := m.store.Last(chat.SenderBot)
	if !ok || strings.TrimSpace(last.Text) == "" {
		return
	}
	if err := m.copy(last.Text); err != nil {
		log.Warn().Err(err).Msg("clipboard copy failed")
		m.notice = "copy failed"
		return
	}
	m.notice = "copied"
}

// sync rebuilds the conversation when the store changed and scrolls to
// the newest message.
func (m *Model) sync() {
	if m.events.pending == 0 || !m.ready {
		return
	}
	m.events.pending = 0
	m.refreshViewport()
	m.viewport.GotoBottom()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	headerHeight := 4
	inputHeight := 5
	extraHeight := 3 // typing indicator, banner, status bar

	vpHeight := height - headerHeight - inputHeight - extraHeight
	if vpHeight < 5 {
		vpHeight = 5
	}
	contentWidth := width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(contentWidth - 4)

	m.refreshViewport()
	m.viewport.GotoBottom()
}

// refreshViewport lays out every message as a bubble. User bubbles are
// pushed right and bot bubbles stay left. An empty reply placeholder is
// skipped; the typing indicator stands in for it.
func (m *Model) refreshViewport() {
	bubbleWidth := m.viewport.Width * 3 / 4
	if bubbleWidth < 16 {
		bubbleWidth = 16
	}
	indent := m.viewport.Width - bubbleWidth - 2
	if indent < 0 {
		indent = 0
	}

	var content strings.Builder
	for _, msg := range m.store.Messages() {
		if msg.Sender == chat.SenderBot && msg.Text == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n")
		}
		out := m.renderBubble(msg, bubbleWidth)
		if msg.IsUser() {
			out = lipgloss.NewStyle().MarginLeft(indent).Render(out)
		}
		content.WriteString(out)
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func (m *Model) renderBubble(msg chat.Message, width int) string {
	if cached, ok := m.bubbles[msg.ID]; ok && cached.text == msg.Text && cached.width == width {
		return cached.out
	}

	var out string
	if msg.IsUser() {
		label := m.styles.userLabel.Render(models.UserLabel)
		body := m.styles.userBubble.Width(width).Render(msg.Text)
		out = label + "\n" + body
	} else {
		label := m.styles.botLabel.Render("✚ " + models.BotLabel)
		text := render.Reply(msg.Text, m.markdown.WithWidth(width-4))
		out = label + "\n" + m.styles.botBubble.Width(width).Render(text)
	}

	m.bubbles[msg.ID] = bubble{text: msg.Text, width: width, out: out}
	return out
}

// View renders the TUI. It reads state only.
func (m Model) View() string {
	if !m.ready {
		return m.styles.typing.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	var sections []string

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.title.Render("✚ "+models.AppTitle),
		m.styles.hint.Render("  •  "),
		m.styles.subtitle.Render(models.AppSubtitle),
	)
	sections = append(sections, m.styles.header.Width(contentWidth).Render(header))

	sections = append(sections, m.styles.messagesArea.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(m.viewport.View()))

	if m.ctrl.Busy() {
		sections = append(sections, m.styles.typing.Render(
			fmt.Sprintf(" %s %s ...", m.spinner.View(), models.BotLabel)))
	}

	if text := m.ctrl.ErrorText(); text != "" {
		sections = append(sections, m.styles.banner.Width(contentWidth).Render("⚠ "+text))
	}

	if m.ctrl.Busy() {
		sections = append(sections, m.styles.inputBusy.Width(contentWidth).Render(m.textarea.View()))
	} else {
		sections = append(sections, m.styles.inputPanel.Width(contentWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				m.styles.inputLabel.Render(models.UserLabel),
				m.textarea.View(),
			)))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Alt+Enter", "Newline"},
		{"Ctrl+Y", "Copy reply"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := make([]string, 0, len(shortcuts)+2)
	for _, s := range shortcuts {
		items = append(items, m.styles.statusKey.Render(s.key)+m.styles.statusDesc.Render(" "+s.desc))
	}
	if m.modelName != "" {
		items = append(items, m.styles.statusDesc.Render(m.modelName))
	}
	if m.notice != "" {
		items = append(items, m.styles.notice.Render(m.notice))
	}

	return m.styles.statusBar.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// scrollKeys leaves letters and space to the input box
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

func isExitCommand(input string) bool {
	switch strings.TrimSpace(input) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// openStream requests the reply stream off the event loop
func openStream(ctx context.Context, turn *chat.Turn) tea.Cmd {
	return func() tea.Msg {
		stream, err := turn.Open(ctx)
		return streamOpenedMsg{turn: turn, stream: stream, err: err}
	}
}

// nextFragment blocks on the next fragment off the event loop
func nextFragment(turn *chat.Turn, stream chat.Stream) tea.Cmd {
	return func() tea.Msg {
		text, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return streamDoneMsg{turn: turn}
		}
		if err != nil {
			return streamErrMsg{turn: turn, err: err}
		}
		return fragmentMsg{turn: turn, stream: stream, text: text}
	}
}

// RunChat starts the chat TUI and blocks until the user leaves. Quitting
// cancels ctx for any request still in flight.
func RunChat(ctx context.Context, ctrl *chat.Controller, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(
		NewChatModel(ctx, ctrl, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
