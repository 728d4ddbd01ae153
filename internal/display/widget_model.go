package display

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weavex/quotabar/internal/actionbar"
	"github.com/weavex/quotabar/internal/quota"
	"github.com/weavex/quotabar/internal/widget"
)

// DoubleActivationWindow is the longest gap between two activations that
// still counts as a double activation.
const DoubleActivationWindow = 400 * time.Millisecond

const maxNotices = 3

// WidgetOptions configures NewWidgetModel.
type WidgetOptions struct {
	NoColor bool
	// Actions, when set, renders the label inside the action bar.
	Actions []actionbar.Action
	// Notices must be the notifier the widget was created with.
	Notices *widget.NoticeBuffer
	// KeyChanges delivers a value whenever the stored key changed on disk.
	KeyChanges <-chan struct{}
	// Now is the clock used for double activation; defaults to time.Now.
	Now func() time.Time
}

type widgetKeyMap struct {
	Quit     key.Binding
	Cancel   key.Binding
	Refresh  key.Binding
	Activate key.Binding
	Save     key.Binding
}

var widgetKeys = widgetKeyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Cancel:   key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter×2", "edit key")),
	Save:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
}

// refreshDoneMsg reports that the refresh for ticket finished. applied is
// false when a newer refresh superseded it.
type refreshDoneMsg struct {
	ticket  widget.Ticket
	applied bool
}

type keyChangedMsg struct{}

// WidgetModel is the interactive quota widget.
type WidgetModel struct {
	ctx     context.Context
	w       *widget.Widget
	opts    WidgetOptions
	input   textinput.Model
	spinner spinner.Model
	notices []widget.Notice

	lastActivation time.Time
	quitting       bool
}

// NewWidgetModel creates the bubbletea model around w. The widget is mounted
// in Init.
func NewWidgetModel(ctx context.Context, w *widget.Widget, opts WidgetOptions) WidgetModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "sk-..."
	ti.Prompt = "API key: "
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.CharLimit = 256
	// Keys only reach the input while editing, so it can stay focused.
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return WidgetModel{ctx: ctx, w: w, opts: opts, input: ti, spinner: s}
}

func (m WidgetModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, textinput.Blink, m.waitForKeyChange()}
	if t, ok := m.w.Mount(); ok {
		cmds = append(cmds, m.refreshCmd(t))
	}
	return tea.Batch(cmds...)
}

func (m WidgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshDoneMsg:
		m.drainNotices()
		return m, nil

	case keyChangedMsg:
		cmds := []tea.Cmd{m.waitForKeyChange()}
		if t, ok := m.w.SyncKey(); ok {
			cmds = append(cmds, m.refreshCmd(t))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && m.onLabel(msg.Y) {
			return m.activate()
		}
		return m, nil

	case tea.KeyMsg:
		if m.w.Phase() == widget.EditingKey {
			return m.updateEditing(msg)
		}
		switch {
		case key.Matches(msg, widgetKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, widgetKeys.Refresh):
			if t, ok := m.w.Refresh(); ok {
				return m, m.refreshCmd(t)
			}
			return m, nil
		case key.Matches(msg, widgetKeys.Activate):
			return m.activate()
		}
	}
	return m, nil
}

func (m WidgetModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, widgetKeys.Cancel):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, widgetKeys.Save):
		t, err := m.w.SaveKey(m.input.Value())
		m.drainNotices()
		if err != nil {
			// Validation failures were already raised as a notice.
			if !errors.Is(err, quota.ErrValidation) {
				m.pushNotice(widget.Notice{Level: widget.LevelError, Message: err.Error()})
			}
			return m, nil
		}
		m.input.Reset()
		return m, m.refreshCmd(t)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// activate records one activation and enters key editing on the second
// activation within DoubleActivationWindow.
func (m WidgetModel) activate() (tea.Model, tea.Cmd) {
	now := m.opts.Now()
	if !m.lastActivation.IsZero() && now.Sub(m.lastActivation) <= DoubleActivationWindow {
		m.lastActivation = time.Time{}
		if m.w.Activate() {
			m.input.Reset()
			return m, textinput.Blink
		}
		return m, nil
	}
	m.lastActivation = now
	return m, nil
}

func (m WidgetModel) refreshCmd(t widget.Ticket) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{ticket: t, applied: m.w.Run(m.ctx, t)}
	}
}

func (m WidgetModel) waitForKeyChange() tea.Cmd {
	ch := m.opts.KeyChanges
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return keyChangedMsg{}
	}
}

func (m *WidgetModel) drainNotices() {
	if m.opts.Notices == nil {
		return
	}
	for _, n := range m.opts.Notices.Drain() {
		m.pushNotice(n)
	}
}

func (m *WidgetModel) pushNotice(n widget.Notice) {
	m.notices = append(m.notices, n)
	if len(m.notices) > maxNotices {
		m.notices = m.notices[len(m.notices)-maxNotices:]
	}
}

// label renders the first rows of the view: the quota label, inside the
// action bar when one is configured.
func (m WidgetModel) label(st widget.State) string {
	label := RenderLabel(st.Phase, st.View, LabelOptions{NoColor: m.opts.NoColor, Spinner: m.spinner.View()})
	if len(m.opts.Actions) > 0 {
		label = RenderBar(m.opts.Actions, label, m.opts.NoColor)
	}
	return label
}

// onLabel reports whether screen row y belongs to the label. Clicks on
// notices or help text are not activations.
func (m WidgetModel) onLabel(y int) bool {
	return y >= 0 && y < lipgloss.Height(m.label(m.w.State()))
}

// State exposes the widget state for callers that run the model.
func (m WidgetModel) State() widget.State {
	return m.w.State()
}

func (m WidgetModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.w.State()
	var b strings.Builder
	b.WriteString(m.label(st))
	b.WriteString("\n")

	if st.Phase == widget.EditingKey {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	for _, n := range m.notices {
		b.WriteString(RenderNotice(n, m.opts.NoColor))
		b.WriteString("\n")
	}

	help := "r refresh · double-click or enter twice to edit key · q quit"
	if st.Phase == widget.EditingKey {
		help = "enter save · esc quit"
	}
	if m.opts.NoColor {
		b.WriteString(help)
	} else {
		b.WriteString(dimStyle.Render(help))
	}
	return b.String()
}
