package ui

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// cellWidth is one grid cell: "HH:MM" and a marker, plus a gap.
const cellWidth = 8

// Cell markers.
const (
	markCurrent  = "*"
	markOccupied = "•"
)

// RenderGrid lays the window out as hour columns, wrapping to as many
// column groups as the width requires.
func RenderGrid(s *timeblock.Schedule, width int) string {
	w := s.Window()
	cols := w.Columns()
	perRow := max(1, width/cellWidth)

	var b strings.Builder
	for first := 0; first < cols; first += perRow {
		last := min(cols, first+perRow)
		if first > 0 {
			b.WriteByte('\n')
		}

		columns := make([][]timeblock.TimeSlot, 0, last-first)
		for h := first; h < last; h++ {
			col := w.Column(h)
			columns = append(columns, col)
			label := ""
			if len(col) > 0 {
				label = col[0].DisplayTime
			}
			b.WriteString(formatHeader(pad(label)))
		}
		b.WriteByte('\n')

		for row := range timeblock.SlotsPerHour {
			for _, col := range columns {
				if row >= len(col) {
					b.WriteString(strings.Repeat(" ", cellWidth))
					continue
				}
				b.WriteString(renderCell(s, col[row]))
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderCell(s *timeblock.Schedule, slot timeblock.TimeSlot) string {
	occupied := len(s.TasksInSlot(slot.ID)) > 0
	switch {
	case slot.IsCurrent:
		return formatCurrent(pad(slot.DisplayTime + " " + markCurrent))
	case occupied:
		return formatTask(pad(slot.DisplayTime + " " + markOccupied))
	default:
		return formatMuted(pad(slot.DisplayTime))
	}
}

// pad right-pads s to the cell width before any color is applied.
func pad(s string) string {
	return fmt.Sprintf("%-*s", cellWidth, s)
}

// RenderNotices formats notices one per line.
func RenderNotices(notices []timeblock.Notice) string {
	var b strings.Builder
	for _, n := range notices {
		b.WriteString(formatNotice("» " + n.Message))
		b.WriteByte('\n')
	}
	return b.String()
}
