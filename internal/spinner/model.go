package spinner

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

type (
	completionMsg CompletionInfo
	// doneMsg follows the fetch function returning.
	doneMsg struct{}
)

type endpoint struct {
	name string
	done bool
	err  error
	took time.Duration
}

type model struct {
	spinner   spinner.Model
	endpoints []endpoint
	started   time.Time
	now       func() time.Time
	quitting  bool
}

var (
	okMark   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Render("✓")
	failMark = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Render("✗")
	tookText = lipgloss.NewStyle().Faint(true)
)

func newModel(names []string) model {
	s := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		spinner:   s,
		endpoints: lo.Map(names, func(n string, _ int) endpoint { return endpoint{name: n} }),
		started:   time.Now(),
		now:       time.Now,
	}
}

// pending lists the endpoints still waiting for a response, in order.
func (m model) pending() []string {
	return lo.FilterMap(m.endpoints, func(e endpoint, _ int) (string, bool) { return e.name, !e.done })
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case completionMsg:
		_, i, ok := lo.FindIndexOf(m.endpoints, func(e endpoint) bool { return e.name == msg.Endpoint && !e.done })
		if !ok {
			return m, nil
		}
		m.endpoints = append([]endpoint(nil), m.endpoints...)
		m.endpoints[i] = endpoint{name: msg.Endpoint, done: true, err: msg.Err, took: m.now().Sub(m.started)}
		if len(m.pending()) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case doneMsg:
		// A cancelled sibling request may never report.
		m.quitting = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, e := range m.endpoints {
		if !e.done {
			continue
		}
		mark := okMark
		if e.err != nil {
			mark = failMark
		}
		fmt.Fprintf(&b, "%s %s %s\n", mark, e.name, tookText.Render(formatTook(e.took)))
	}
	if p := m.pending(); len(p) > 0 {
		b.WriteString(m.spinner.View() + " " + FormatTitle(p))
	}
	return b.String()
}

func formatTook(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("(%dms)", d.Milliseconds())
	}
	return fmt.Sprintf("(%.1fs)", d.Seconds())
}
