// Package tui provides the terminal user interface for tenmin.
package tui

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/engine"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/timeblock"
	"github.com/javiermolinar/tenmin/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal  Mode = iota
	ModeMove         // Carrying a task to a new slot
	ModeInput        // Typing a task title
	ModeConfirm      // Waiting for y/n
)

func (m Mode) String() string {
	switch m {
	case ModeMove:
		return "move"
	case ModeInput:
		return "input"
	case ModeConfirm:
		return "confirm"
	default:
		return "normal"
	}
}

// focus is the panel receiving navigation keys.
type focus int

const (
	focusGrid focus = iota
	focusPool
)

// inputPurpose is what a submitted title is used for.
type inputPurpose int

const (
	inputNewTask inputPurpose = iota // create in the slot under the cursor
	inputAddPool                     // create in the pool
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	state  *engine.State
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   KeyMap
	help   help.Model

	// Navigation
	cursor     timeblock.Position
	poolCursor int
	focus      focus
	mode       Mode

	// Move mode
	moving string // id of the task being carried

	// Input mode
	input    textinput.Model
	inputFor inputPurpose

	// Confirm mode
	confirmMsg string
	confirmFn  func(*Model) (string, error)

	tickInterval time.Duration
	copyText     func(string) error

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(fn func(string) error) ModelOption {
	return func(m *Model) {
		m.copyText = fn
	}
}

// WithTickInterval overrides how often the window is aged.
func WithTickInterval(d time.Duration) ModelOption {
	return func(m *Model) {
		m.tickInterval = d
	}
}

// New creates a new TUI model on top of st.
func New(st *engine.State, cfg *config.Config, opts ...ModelOption) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		logger.Warn("theme not loaded, using default", "theme", cfg.UI.Theme, "error", err)
		t, _ = theme.Load(theme.DefaultName)
	}

	input := textinput.New()
	input.CharLimit = 120
	input.Prompt = "› "

	m := Model{
		state:        st,
		config:       cfg,
		theme:        t,
		styles:       NewStyles(t),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		input:        input,
		tickInterval: cfg.TickInterval(),
		copyText:     clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.focusCurrentSlot()

	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

// Mode returns the current interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Cursor returns the grid cursor.
func (m Model) Cursor() timeblock.Position {
	return m.cursor
}

// focusCurrentSlot moves the cursor onto the slot containing now.
func (m *Model) focusCurrentSlot() {
	if cur, ok := m.state.Schedule().Window().Current(); ok {
		m.cursor = cur.Position()
	}
}

// cursorSlot returns the slot under the grid cursor.
func (m Model) cursorSlot() (timeblock.TimeSlot, bool) {
	return m.state.Schedule().Window().SlotAt(m.cursor.Hour, m.cursor.Minute)
}

// cursorTask returns the first task in the slot under the grid cursor.
func (m Model) cursorTask() (timeblock.Task, bool) {
	slot, ok := m.cursorSlot()
	if !ok {
		return timeblock.Task{}, false
	}
	tasks := m.state.Schedule().TasksInSlot(slot.ID)
	if len(tasks) == 0 {
		return timeblock.Task{}, false
	}
	return tasks[0], true
}

// poolTask returns the pool task under the pool cursor.
func (m Model) poolTask() (timeblock.Task, bool) {
	pool := m.state.Schedule().Pool()
	if m.poolCursor < 0 || m.poolCursor >= len(pool) {
		return timeblock.Task{}, false
	}
	return pool[m.poolCursor], true
}

// clampCursor keeps both cursors inside the current schedule.
func (m *Model) clampCursor() {
	s := m.state.Schedule()
	n := s.Window().Len()
	offset := min(max(m.cursor.Offset(), 0), n-1)
	m.cursor = timeblock.PositionOf(offset)

	m.poolCursor = min(m.poolCursor, len(s.Pool())-1)
	m.poolCursor = max(m.poolCursor, 0)
	if len(s.Pool()) == 0 && m.focus == focusPool {
		m.focus = focusGrid
	}
}

// moveCursor shifts the grid cursor by delta slots.
func (m *Model) moveCursor(delta int) {
	n := m.state.Schedule().Window().Len()
	offset := min(max(m.cursor.Offset()+delta, 0), n-1)
	m.cursor = timeblock.PositionOf(offset)
}

// Run starts the full-screen TUI on a fresh engine state and blocks until
// the user quits.
func Run(cfg *config.Config) error {
	st, err := engine.NewState(engine.OptionsFromConfig(cfg))
	if err != nil {
		return err
	}

	p := tea.NewProgram(New(st, cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
