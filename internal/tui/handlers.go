package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	logger.Debug("key", "key", msg.String(), "mode", m.mode)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeInput:
		return m.handleInputKeys(msg)
	case ModeMove:
		return m.handleMoveKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNavigation applies cursor keys. It reports whether msg was one.
func (m *Model) handleNavigation(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.focus == focusPool {
			m.poolCursor = max(m.poolCursor-1, 0)
		} else {
			m.moveCursor(-1)
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus == focusPool {
			m.poolCursor = min(m.poolCursor+1, len(m.state.Schedule().Pool())-1)
			m.poolCursor = max(m.poolCursor, 0)
		} else {
			m.moveCursor(1)
		}
	case key.Matches(msg, m.keys.Left):
		m.focus = focusGrid
		m.moveCursor(-timeblock.SlotsPerHour)
	case key.Matches(msg, m.keys.Right):
		m.focus = focusGrid
		m.moveCursor(timeblock.SlotsPerHour)
	default:
		return false
	}
	return true
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.handleNavigation(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusGrid && len(m.state.Schedule().Pool()) > 0 {
			m.focus = focusPool
		} else {
			m.focus = focusGrid
		}

	case key.Matches(msg, m.keys.NextFree):
		cmd := m.jumpToNextFree()
		return m, cmd

	case key.Matches(msg, m.keys.Pick), key.Matches(msg, m.keys.Move):
		cmd := m.pick()
		return m, cmd

	case key.Matches(msg, m.keys.New):
		if _, ok := m.cursorSlot(); !ok {
			return m, nil
		}
		m.focus = focusGrid
		cmd := m.startInput(inputNewTask, timeblock.DefaultTaskTitle)
		return m, cmd

	case key.Matches(msg, m.keys.Add):
		cmd := m.startInput(inputAddPool, "Task title")
		return m, cmd

	case key.Matches(msg, m.keys.Insert):
		cmd := m.insertSlot()
		return m, cmd

	case key.Matches(msg, m.keys.Unsched):
		cmd := m.unschedule()
		return m, cmd

	case key.Matches(msg, m.keys.Remove):
		cmd := m.remove()
		return m, cmd

	case key.Matches(msg, m.keys.DelColumn):
		m.confirmDeleteColumn()

	case key.Matches(msg, m.keys.Reset):
		m.confirmReset()

	case key.Matches(msg, m.keys.Copy):
		if err := m.copyText(m.state.PlanText()); err != nil {
			cmd := m.setError(fmt.Errorf("copying plan: %w", err))
			return m, cmd
		}
		cmd := m.setStatus("Plan copied to clipboard")
		return m, cmd

	case key.Matches(msg, m.keys.Undo):
		op, err := m.state.Undo()
		if err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		m.clampCursor()
		cmd := m.setStatus("Undid " + op)
		return m, cmd
	}

	return m, nil
}

// handleMoveKeys handles keys while a task is being carried.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.focus = focusGrid
	if m.handleNavigation(msg) {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelMode()
		cmd := m.setStatus("Move cancelled")
		return m, cmd

	case key.Matches(msg, m.keys.NextFree):
		cmd := m.jumpToNextFree()
		return m, cmd

	case key.Matches(msg, m.keys.Pick):
		cmd := m.drop(true)
		return m, cmd

	case key.Matches(msg, m.keys.DropOver):
		cmd := m.drop(false)
		return m, cmd
	}

	return m, nil
}

// handleInputKeys handles keys while typing a title.
func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.cancelMode()
		return m, nil
	case tea.KeyEnter:
		title := m.input.Value()
		purpose := m.inputFor
		m.cancelMode()
		cmd := m.submitTitle(purpose, title)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmKeys handles y/n answers.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		fn := m.confirmFn
		m.cancelMode()
		if fn == nil {
			return m, nil
		}
		status, err := fn(&m)
		if err != nil {
			cmd := m.setError(err)
			return m, cmd
		}
		m.clampCursor()
		cmd := m.setStatus(status)
		return m, cmd
	case "n", "N", "esc":
		m.cancelMode()
	}
	return m, nil
}

// startInput opens the title prompt.
func (m *Model) startInput(purpose inputPurpose, placeholder string) tea.Cmd {
	m.mode = ModeInput
	m.inputFor = purpose
	m.input.Reset()
	m.input.Placeholder = placeholder
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

// submitTitle creates a task from a submitted title.
func (m *Model) submitTitle(purpose inputPurpose, title string) tea.Cmd {
	if purpose == inputAddPool {
		res, err := m.state.AddToPool(title)
		if err != nil {
			return m.setError(err)
		}
		m.poolCursor = len(m.state.Schedule().Pool()) - 1
		return m.setStatus(fmt.Sprintf("Added %q to the pool", res.Task.Title))
	}

	slot, ok := m.cursorSlot()
	if !ok {
		return nil
	}
	res, err := m.state.Place("", slot.ID, title)
	if err != nil {
		return m.setError(err)
	}
	return m.setStatus(fmt.Sprintf("Created %q at %s", res.Task.Title, slot.DisplayTime))
}

// pick starts carrying the task under the active cursor.
func (m *Model) pick() tea.Cmd {
	var (
		t  timeblock.Task
		ok bool
	)
	if m.focus == focusPool {
		t, ok = m.poolTask()
	} else {
		t, ok = m.cursorTask()
	}
	if !ok {
		return nil
	}

	m.mode = ModeMove
	m.moving = t.ID
	m.focus = focusGrid
	return m.setStatus(fmt.Sprintf("Moving %q: enter to drop, o to drop without shifting, esc to cancel", t.Title))
}

// drop places the carried task on the cursor slot. With shift, later
// occupants of the hour move down one slot; otherwise the slot is shared.
func (m *Model) drop(shift bool) tea.Cmd {
	slot, ok := m.cursorSlot()
	if !ok {
		return nil
	}

	var (
		res timeblock.Result
		err error
	)
	if shift {
		res, err = m.state.Place(m.moving, slot.ID, "")
	} else {
		res, err = m.state.Reorder(m.moving, slot.ID)
	}
	if err != nil {
		return m.setError(err)
	}
	m.cancelMode()
	m.clampCursor()

	if !res.Changed || res.Task == nil {
		return nil
	}
	return m.reportResult(fmt.Sprintf("Moved %q to %s", res.Task.Title, slot.DisplayTime), res)
}

// insertSlot adds a block after the cursor slot and follows it.
func (m *Model) insertSlot() tea.Cmd {
	if m.focus != focusGrid {
		return nil
	}
	res, err := m.state.InsertSlotAfter(m.cursor.Hour, m.cursor.Minute)
	if err != nil {
		return m.setError(err)
	}
	if res.Slot != nil {
		m.cursor = res.Slot.Position()
	}
	return m.reportResult("", res)
}

// unschedule sends the task under the grid cursor to the pool.
func (m *Model) unschedule() tea.Cmd {
	if m.focus != focusGrid {
		return nil
	}
	t, ok := m.cursorTask()
	if !ok {
		return nil
	}
	if _, err := m.state.Unschedule(t.ID); err != nil {
		return m.setError(err)
	}
	return m.setStatus(fmt.Sprintf("Unscheduled %q", t.Title))
}

// remove destroys the task under the active cursor.
func (m *Model) remove() tea.Cmd {
	var (
		t  timeblock.Task
		ok bool
	)
	if m.focus == focusPool {
		t, ok = m.poolTask()
	} else {
		t, ok = m.cursorTask()
	}
	if !ok {
		return nil
	}
	if _, err := m.state.Remove(t.ID); err != nil {
		return m.setError(err)
	}
	m.clampCursor()
	return m.setStatus(fmt.Sprintf("Removed %q", t.Title))
}

// jumpToNextFree moves the cursor to the first empty slot from now on.
func (m *Model) jumpToNextFree() tea.Cmd {
	slot, ok := scheduler.NextFreeSlot(m.state.Schedule(), m.state.Now())
	if !ok {
		return m.setStatus("No free slot left in the window")
	}
	m.focus = focusGrid
	m.cursor = slot.Position()
	return nil
}

func (m *Model) confirmDeleteColumn() {
	col := m.state.Schedule().Window().Column(m.cursor.Hour)
	if len(col) == 0 {
		return
	}
	hour := m.cursor.Hour
	m.mode = ModeConfirm
	m.confirmMsg = fmt.Sprintf("Delete the hour starting %s? (y/n)", col[0].DisplayTime)
	m.confirmFn = func(m *Model) (string, error) {
		res, err := m.state.DeleteColumn(hour)
		if err != nil {
			return "", err
		}
		if n := len(res.Notices); n > 0 {
			return res.Notices[n-1].Message, nil
		}
		return "Hour deleted", nil
	}
}

func (m *Model) confirmReset() {
	hours := m.config.Schedule.Hours
	m.mode = ModeConfirm
	m.confirmMsg = fmt.Sprintf("Reset to a fresh %d-hour window? Every task is dropped. (y/n)", hours)
	m.confirmFn = func(m *Model) (string, error) {
		if _, err := m.state.Reset(hours); err != nil {
			return "", err
		}
		m.focusCurrentSlot()
		return "Window reset", nil
	}
}
