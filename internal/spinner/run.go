package spinner

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows a transient spinner listing endpoints while fetchFn runs.
// fetchFn receives a callback to report each endpoint as it finishes. Run
// blocks until fetchFn returns.
func Run(endpoints []string, fetchFn func(onComplete func(CompletionInfo)), opts ...tea.ProgramOption) error {
	if len(endpoints) == 0 {
		fetchFn(func(CompletionInfo) {})
		return nil
	}

	p := tea.NewProgram(newModel(endpoints), opts...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		fetchFn(func(info CompletionInfo) {
			p.Send(completionMsg(info))
		})
		p.Send(doneMsg{})
	}()

	_, err := p.Run()
	<-done
	if err != nil {
		return fmt.Errorf("running spinner: %w", err)
	}
	return nil
}
