package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

const statusTTL = 3 * time.Second

// tickMsg fires on every tick interval.
type tickMsg time.Time

// clearStatusMsg is sent to clear the status message.
type clearStatusMsg struct{}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		cmd := m.tick()
		return m, tea.Batch(cmd, tickCmd(m.tickInterval))

	case clearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and friends
	if m.mode == ModeInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// tick ages the window and reports what expired.
func (m *Model) tick() tea.Cmd {
	res, err := m.state.Tick()
	if err != nil {
		return m.setError(err)
	}
	if !res.RolledOver {
		return nil
	}

	if m.moving != "" {
		if _, ok := m.state.Schedule().Task(m.moving); !ok {
			m.cancelMode()
		}
	}
	m.clampCursor()
	return m.reportResult("Window rolled forward an hour", res.Result)
}

// setStatus shows msg for a few seconds.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(statusTTL)
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// setError shows err in the status line.
func (m *Model) setError(err error) tea.Cmd {
	logger.Debug("tui command failed", "error", err)
	cmd := m.setStatus(fmt.Sprintf("Error: %v", err))
	m.statusErr = true
	return cmd
}

// reportResult shows the last notice of res, falling back to msg.
func (m *Model) reportResult(msg string, res timeblock.Result) tea.Cmd {
	if n := len(res.Notices); n > 0 {
		msg = res.Notices[n-1].Message
	}
	if msg == "" {
		return nil
	}
	return m.setStatus(msg)
}

// cancelMode returns to normal mode, discarding any pending action.
func (m *Model) cancelMode() {
	m.mode = ModeNormal
	m.moving = ""
	m.confirmMsg = ""
	m.confirmFn = nil
	m.input.Blur()
	m.input.Reset()
}
