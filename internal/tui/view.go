package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/tenmin/internal/timeblock"
)

const defaultColWidth = 20

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	grid := m.renderGrid()
	pool := m.renderPool(lipgloss.Height(grid))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", pool))
	b.WriteString("\n\n")

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	s := m.state.Schedule()
	w := s.Window()
	origin := w.Origin()
	end := origin.Add(time.Duration(w.Len()) * timeblock.SlotDuration)

	info := fmt.Sprintf("%s  %s-%s  now %s  %d scheduled, %d unscheduled",
		origin.Format("Mon Jan 2"),
		timeblock.FormatClock(origin),
		timeblock.FormatClock(end),
		timeblock.FormatClock(m.state.Now()),
		len(s.Scheduled()),
		len(s.Pool()))

	header := m.styles.TitleStyle.Render("tenmin") + m.styles.HeaderStyle.Render(info)
	if m.mode == ModeMove {
		header += " " + m.styles.MovingStyle.Render(" MOVE ")
	}
	return header
}

// colWidth returns the width of one hour-column.
func (m Model) colWidth() int {
	if m.width <= 0 {
		return defaultColWidth
	}
	cols := max(m.state.Schedule().Window().Columns(), 1)
	avail := m.width - poolWidth - 6
	w := avail/cols - 1
	return min(max(w, minColWidth), maxColWidth)
}

func (m Model) renderGrid() string {
	s := m.state.Schedule()
	w := s.Window()
	width := m.colWidth()
	cur, hasCur := w.Current()

	cols := make([]string, 0, w.Columns()*2)
	for h := range w.Columns() {
		column := w.Column(h)
		if len(column) == 0 {
			continue
		}

		headerStyle := m.styles.ColumnHeaderStyle
		if hasCur && cur.HourIndex == h {
			headerStyle = m.styles.ColumnHeaderCurrentStyle
		}
		lines := []string{headerStyle.Width(width).Render(" " + column[0].DisplayTime)}
		for minute := range timeblock.SlotsPerHour {
			slot, ok := w.SlotAt(h, minute)
			if !ok {
				lines = append(lines, strings.Repeat(" ", width))
				continue
			}
			lines = append(lines, m.renderCell(slot, width))
		}

		if h > 0 {
			cols = append(cols, " ")
		}
		cols = append(cols, strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderCell renders one slot as "HH:MM title".
func (m Model) renderCell(slot timeblock.TimeSlot, width int) string {
	s := m.state.Schedule()
	tasks := s.TasksInSlot(slot.ID)

	label := slot.DisplayTime
	if len(tasks) > 0 {
		label += " " + tasks[0].Title
		if len(tasks) > 1 {
			label += fmt.Sprintf(" +%d", len(tasks)-1)
		}
	}
	label = ansi.Truncate(label, width, "…")

	past := !s.Window().StartOf(slot).Add(timeblock.SlotDuration).After(m.state.Now())
	return m.cellStyle(slot, tasks, past).Width(width).Render(label)
}

func (m Model) cellStyle(slot timeblock.TimeSlot, tasks []timeblock.Task, past bool) lipgloss.Style {
	isCursor := m.focus == focusGrid && slot.Position() == m.cursor
	switch {
	case isCursor && m.mode == ModeMove:
		return m.styles.MovingStyle
	case isCursor:
		return m.styles.CursorStyle
	case m.moving != "" && containsTask(tasks, m.moving):
		return m.styles.MovingStyle
	case slot.IsCurrent:
		return m.styles.CurrentStyle
	case len(tasks) > 0 && past:
		return m.styles.TaskPastStyle
	case len(tasks) > 0 && slot.MinuteIndex%2 == 1:
		return m.styles.TaskCellAltStyle
	case len(tasks) > 0:
		return m.styles.TaskCellStyle
	case past:
		return m.styles.PastCellStyle
	default:
		return m.styles.EmptyCellStyle
	}
}

func containsTask(tasks []timeblock.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (m Model) renderPool(height int) string {
	pool := m.state.Schedule().Pool()
	inner := poolWidth - 4

	lines := []string{m.styles.PoolTitleStyle.Render(fmt.Sprintf("Unscheduled (%d)", len(pool)))}
	if len(pool) == 0 {
		lines = append(lines, m.styles.EmptyCellStyle.Render("nothing here"))
	}
	for i, t := range pool {
		label := ansi.Truncate("• "+t.Title, inner, "…")
		style := m.styles.PoolItemStyle
		if m.focus == focusPool && i == m.poolCursor {
			style = m.styles.PoolSelectedStyle
		}
		if t.ID == m.moving {
			style = m.styles.MovingStyle
		}
		lines = append(lines, style.Width(inner).Render(label))
	}

	box := m.styles.PoolStyle
	if m.focus == focusPool {
		box = m.styles.PoolFocusedStyle
	}
	return box.Width(poolWidth - 2).Height(max(height-2, 1)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var lines []string

	switch m.mode {
	case ModeInput:
		label := "New task"
		if m.inputFor == inputAddPool {
			label = "Add to pool"
		}
		lines = append(lines, m.styles.PromptStyle.Render(label+" "+m.input.View()))
	case ModeConfirm:
		lines = append(lines, m.styles.ConfirmStyle.Render(m.confirmMsg))
	}

	if m.statusMsg != "" {
		style := m.styles.StatusStyle
		if m.statusErr {
			style = m.styles.ErrorStyle
		}
		lines = append(lines, style.Render(m.statusMsg))
	}

	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}
