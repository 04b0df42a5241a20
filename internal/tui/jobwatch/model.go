// ============================================================================
// arcus - Command catalog client for CloudStack-style APIs
// ============================================================================
//
// Package:     jobwatch
// Description: Spinner view shown while an async job is polled
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package jobwatch

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/atistler/arcus/internal/client"
	"github.com/atistler/arcus/internal/poller"
)

// Model renders the progress of one async job
type Model struct {
	spinner  spinner.Model
	label    string
	interval time.Duration
	started  time.Time
	now      func() time.Time

	attempt int
	status  int

	done     bool
	quitting bool
	result   *client.Result
	err      error
}

// NewModel creates a model for the job started by label
func NewModel(label string, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		spinner:  sp,
		label:    label,
		interval: interval,
		started:  time.Now(),
		now:      time.Now,
	}
}

// Init starts the spinner
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case pollMsg:
		m.attempt = msg.attempt
		m.status = msg.status

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the status line
func (m Model) View() string {
	var s strings.Builder

	switch {
	case m.done && m.err != nil:
		s.WriteString(failedStyle.Render("✗ " + m.label + " failed"))
	case m.done:
		s.WriteString(doneStyle.Render(fmt.Sprintf("✓ %s finished (%s)", m.label, statusName(m.status))))
	case m.quitting:
		s.WriteString(mutedStyle.Render("Stopped waiting for " + m.label))
	default:
		s.WriteString(m.spinner.View())
		s.WriteString(" ")
		s.WriteString(labelStyle.Render(m.label))
		s.WriteString(mutedStyle.Render(fmt.Sprintf("  %s elapsed, %d polls, every %s",
			m.elapsed(), m.attempt, m.interval)))
	}
	s.WriteString("\n")

	return s.String()
}

// Attempts returns the number of status queries seen so far
func (m Model) Attempts() int {
	return m.attempt
}

// Done reports whether the job finished, successfully or not
func (m Model) Done() bool {
	return m.done
}

func (m Model) elapsed() time.Duration {
	return m.now().Sub(m.started).Round(time.Second)
}

func statusName(status int) string {
	switch status {
	case poller.StatusPending:
		return "pending"
	case poller.StatusSucceeded:
		return "succeeded"
	case poller.StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status %d", status)
	}
}
