package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/tenmin/internal/tui/theme"
)

// Layout constants.
const (
	minColWidth = 14
	maxColWidth = 28
	poolWidth   = 26
	timeWidth   = 5 // "HH:MM"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle  lipgloss.Style
	HeaderStyle lipgloss.Style

	// Column header
	ColumnHeaderStyle        lipgloss.Style
	ColumnHeaderCurrentStyle lipgloss.Style

	// Slot cells
	EmptyCellStyle   lipgloss.Style
	PastCellStyle    lipgloss.Style
	TaskCellStyle    lipgloss.Style
	TaskCellAltStyle lipgloss.Style
	TaskPastStyle    lipgloss.Style
	CurrentStyle     lipgloss.Style
	CursorStyle      lipgloss.Style
	MovingStyle      lipgloss.Style

	// Pool panel
	PoolStyle         lipgloss.Style
	PoolFocusedStyle  lipgloss.Style
	PoolTitleStyle    lipgloss.Style
	PoolItemStyle     lipgloss.Style
	PoolSelectedStyle lipgloss.Style

	// Footer
	PromptStyle  lipgloss.Style
	ConfirmStyle lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnAccent).
		Background(p.Accent).
		Padding(0, 1)
	s.HeaderStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Padding(0, 1)

	s.ColumnHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.BgHighlight)
	s.ColumnHeaderCurrentStyle = s.ColumnHeaderStyle.
		Foreground(p.TextOnCurrent).
		Background(p.Current)

	s.EmptyCellStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.PastCellStyle = lipgloss.NewStyle().Foreground(p.BgSelection)
	s.TaskCellStyle = lipgloss.NewStyle().
		Foreground(p.TextOnTask).
		Background(p.TaskBg)
	s.TaskCellAltStyle = s.TaskCellStyle.Background(p.TaskBgAlt)
	s.TaskPastStyle = lipgloss.NewStyle().
		Foreground(p.FgMuted).
		Background(p.TaskPastBg)
	s.CurrentStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnCurrent).
		Background(p.Current)
	s.CursorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.BgSelection)
	s.MovingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnWarning).
		Background(p.Warning)

	s.PoolStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BgSelection).
		Padding(0, 1)
	s.PoolFocusedStyle = s.PoolStyle.BorderForeground(p.Pool)
	s.PoolTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Pool)
	s.PoolItemStyle = lipgloss.NewStyle().Foreground(p.Fg)
	s.PoolSelectedStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Fg).
		Background(p.BgSelection)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	s.ConfirmStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning)
	s.StatusStyle = lipgloss.NewStyle().Foreground(p.Accent)
	s.ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Warning)

	return s
}
