package jobwatch

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atistler/arcus/internal/client"
	"github.com/atistler/arcus/internal/poller"
)

// Work runs the async job and reports each status query to obs
type Work func(ctx context.Context, obs poller.Observer) (*client.Result, error)

// Run shows the spinner on out while work runs. Quitting the view cancels
// work; Run always returns work's own result.
func Run(ctx context.Context, out io.Writer, m Model, work Work) (*client.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx))

	type outcome struct {
		result *client.Result
		err    error
	}
	finished := make(chan outcome, 1)

	go func() {
		res, err := work(ctx, poller.ObserverFunc(func(attempt, status int) {
			p.Send(pollMsg{attempt: attempt, status: status})
		}))
		finished <- outcome{res, err}
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if fm, ok := final.(Model); err != nil || !ok || !fm.Done() {
		cancel()
	}

	o := <-finished
	return o.result, o.err
}
