package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agentops/internal/types"
)

var chatThread string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatThread, "thread", "default", "Conversation thread id")
	rootCmd.AddCommand(chatCmd)
}

// chat styles
var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)
	agentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
	faintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 2)
)

// exitWords end the chat session when typed alone.
var exitWords = map[string]bool{"bye": true, "exit": true, "quit": true}

// chatModel is the bubbletea model for the interactive console.
type chatModel struct {
	rt       *runtime
	thread   string
	ctx      context.Context
	cancel   context.CancelFunc
	renderer *glamour.TermRenderer

	textinput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model

	history []string
	busy    bool
	ready   bool
	width   int
}

// turnDoneMsg carries a finished workflow turn back into the UI loop.
type turnDoneMsg struct {
	state *types.State
	err   error
}

func newChatModel(rt *runtime, thread string) (*chatModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Ask about jobs, or try: debug job_003"
	ti.Focus()
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build markdown renderer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &chatModel{
		rt:        rt,
		thread:    thread,
		ctx:       ctx,
		cancel:    cancel,
		renderer:  renderer,
		textinput: ti,
		spinner:   sp,
		history:   []string{welcomeBanner(rt)},
	}, nil
}

func welcomeBanner(rt *runtime) string {
	lines := []string{
		"agentops - multi-agent job API assistant",
		"",
		"Try:",
		"  • list all jobs",
		"  • run data processing job",
		"  • debug job_003",
		"  • what templates are available?",
		"",
		fmt.Sprintf("Knowledge base: %d entries | Memory: %s",
			rt.base.Len(), memoryStatus(rt)),
		"Type bye, exit or quit to leave.",
	}
	return bannerStyle.Render(strings.Join(lines, "\n"))
}

func memoryStatus(rt *runtime) string {
	if rt.mem.Enabled() {
		return fmt.Sprintf("%d entries", rt.mem.Count(context.Background()))
	}
	return "disabled"
}

func (m *chatModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancel()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy {
				return m, nil
			}
			input := strings.TrimSpace(m.textinput.Value())
			if input == "" {
				return m, nil
			}
			m.textinput.Reset()
			if exitWords[strings.ToLower(input)] {
				m.cancel()
				return m, tea.Quit
			}
			m.history = append(m.history, userStyle.Render("You: ")+input)
			m.refreshViewport()
			m.busy = true
			return m, tea.Batch(m.spinner.Tick, m.runTurn(input))
		}

	case turnDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.history = append(m.history, errorStyle.Render(fmt.Sprintf("Error: %v", msg.err)))
		} else {
			m.history = append(m.history, m.renderTurn(msg.state))
		}
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// runTurn executes the workflow off the UI goroutine.
func (m *chatModel) runTurn(input string) tea.Cmd {
	return func() tea.Msg {
		st, err := m.rt.engine.Turn(m.ctx, m.thread, input)
		return turnDoneMsg{state: st, err: err}
	}
}

// renderTurn shows the supervisor narration faint and the final
// response through the markdown renderer.
func (m *chatModel) renderTurn(st *types.State) string {
	var parts []string
	for _, msg := range st.Messages {
		if msg.Role != types.RoleAssistant {
			continue
		}
		text := msg.Content.PlainText()
		if text == st.FinalResponse {
			continue
		}
		if strings.HasPrefix(text, "🎯") || strings.HasPrefix(text, "📋") {
			parts = append(parts, faintStyle.Render(text))
		}
	}

	final := st.FinalResponse
	if final == "" {
		final = "No response produced."
	}
	if rendered, err := m.renderer.Render(final); err == nil {
		final = strings.TrimSpace(rendered)
	}
	parts = append(parts, agentStyle.Render(final))
	return strings.Join(parts, "\n")
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n\n"))
	m.viewport.GotoBottom()
}

func (m *chatModel) View() string {
	if !m.ready {
		return "Starting agentops..."
	}
	status := ""
	if m.busy {
		status = m.spinner.View() + " thinking..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.viewport.View(), status, m.textinput.View())
}

func runChat() error {
	rt, err := buildRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	model, err := newChatModel(rt, chatThread)
	if err != nil {
		return err
	}
	defer model.cancel()

	if rt.cfg.KB.Watch && rt.cfg.KB.Path != "" {
		go func() {
			if err := rt.base.Watch(model.ctx, rt.cfg.KB.Path); err != nil && model.ctx.Err() == nil {
				logger.Warn("knowledge base watcher stopped", zap.Error(err))
			}
		}()
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
