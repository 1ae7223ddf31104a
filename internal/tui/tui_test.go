package tui

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/engine"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

var start = time.Date(2030, 1, 7, 9, 25, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger.InitWriter(io.Discard, false)
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

type testModel struct {
	Model
	clock  *scheduler.FakeClock
	copied *string
}

func newTestModel(t *testing.T, hours int) testModel {
	t.Helper()
	clock := scheduler.NewFakeClock(start)
	st, err := engine.NewState(engine.Options{Hours: hours, Clock: clock, NoticeBuffer: 8})
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	cfg := config.Default()
	cfg.Schedule.Hours = hours

	copied := new(string)
	m := New(st, cfg, WithClipboard(func(s string) error {
		*copied = s
		return nil
	}))
	return testModel{Model: m, clock: clock, copied: copied}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends keys one by one and returns the final command.
func (tm *testModel) press(keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = tm.Model.Update(keyMsg(k))
		tm.Model = updated.(Model)
	}
	return cmd
}

// typeText types s into the focused input.
func (tm *testModel) typeText(s string) {
	for _, r := range s {
		tm.press(string(r))
	}
}

func (tm *testModel) slotID(t *testing.T, hour, minute int) string {
	t.Helper()
	slot, ok := tm.state.Schedule().Window().SlotAt(hour, minute)
	if !ok {
		t.Fatalf("no slot at h%d:m%d", hour, minute)
	}
	return slot.ID
}

func (tm *testModel) titlesAt(t *testing.T, hour, minute int) []string {
	t.Helper()
	var titles []string
	for _, task := range tm.state.Schedule().TasksInSlot(tm.slotID(t, hour, minute)) {
		titles = append(titles, task.Title)
	}
	return titles
}

func (tm *testModel) seed(t *testing.T, hour, minute int, title string) {
	t.Helper()
	if _, err := tm.state.Place("", tm.slotID(t, hour, minute), title); err != nil {
		t.Fatalf("Place() error = %v", err)
	}
}

func TestNew_CursorOnCurrentSlot(t *testing.T) {
	tm := newTestModel(t, 2)

	want := timeblock.Position{Hour: 0, Minute: 2}
	if tm.Cursor() != want {
		t.Errorf("Cursor() = %v, want %v", tm.Cursor(), want)
	}
	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
	if tm.Init() == nil {
		t.Error("Init() should schedule a tick")
	}
}

func TestNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want timeblock.Position
	}{
		{name: "down", keys: []string{"j"}, want: timeblock.Position{Hour: 0, Minute: 3}},
		{name: "up", keys: []string{"k", "k"}, want: timeblock.Position{Hour: 0, Minute: 0}},
		{name: "up stops at first slot", keys: []string{"k", "k", "k"}, want: timeblock.Position{Hour: 0, Minute: 0}},
		{name: "down wraps into next column", keys: []string{"j", "j", "j", "j"}, want: timeblock.Position{Hour: 1, Minute: 0}},
		{name: "right", keys: []string{"l"}, want: timeblock.Position{Hour: 1, Minute: 2}},
		{name: "right clamps to last slot", keys: []string{"l", "l"}, want: timeblock.Position{Hour: 1, Minute: 5}},
		{name: "left clamps to first slot", keys: []string{"h"}, want: timeblock.Position{Hour: 0, Minute: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm := newTestModel(t, 2)
			tm.press(tt.keys...)
			if tm.Cursor() != tt.want {
				t.Errorf("Cursor() = %v, want %v", tm.Cursor(), tt.want)
			}
		})
	}
}

func TestNewTaskInSlot(t *testing.T) {
	tm := newTestModel(t, 2)

	tm.press("n")
	if tm.Mode() != ModeInput {
		t.Fatalf("Mode() = %v, want input", tm.Mode())
	}
	tm.typeText("Write report")
	tm.press("enter")

	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
	if got := tm.titlesAt(t, 0, 2); len(got) != 1 || got[0] != "Write report" {
		t.Errorf("titles at 09:20 = %v", got)
	}

	// Empty title falls back to the default
	tm.press("j", "n", "enter")
	if got := tm.titlesAt(t, 0, 3); len(got) != 1 || got[0] != timeblock.DefaultTaskTitle {
		t.Errorf("titles at 09:30 = %v", got)
	}
}

func TestInputEscCancels(t *testing.T) {
	tm := newTestModel(t, 1)

	tm.press("a")
	tm.typeText("never")
	tm.press("esc")

	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
	if tm.state.Schedule().TaskCount() != 0 {
		t.Error("cancelled input created a task")
	}
}

func TestAddToPoolThenPlace(t *testing.T) {
	tm := newTestModel(t, 2)

	tm.press("a")
	tm.typeText("Email")
	tm.press("enter")
	if got := len(tm.state.Schedule().Pool()); got != 1 {
		t.Fatalf("pool has %d tasks, want 1", got)
	}

	tm.press("tab", "enter")
	if tm.Mode() != ModeMove {
		t.Fatalf("Mode() = %v, want move", tm.Mode())
	}
	tm.press("j", "enter")

	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
	if got := tm.titlesAt(t, 0, 3); len(got) != 1 || got[0] != "Email" {
		t.Errorf("titles at 09:30 = %v", got)
	}
	if len(tm.state.Schedule().Pool()) != 0 {
		t.Error("pool should be empty")
	}
}

func TestDropShiftsLaterTasks(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 2, "A")
	tm.seed(t, 0, 3, "B")
	if _, err := tm.state.AddToPool("C"); err != nil {
		t.Fatalf("AddToPool() error = %v", err)
	}

	tm.press("tab", "enter", "enter")

	for minute, want := range map[int]string{2: "C", 3: "A", 4: "B"} {
		if got := tm.titlesAt(t, 0, minute); len(got) != 1 || got[0] != want {
			t.Errorf("titles at m%d = %v, want [%s]", minute, got, want)
		}
	}
}

func TestDropOverSharesSlot(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 2, "A")
	tm.seed(t, 0, 4, "B")

	tm.press("m", "j", "j", "o")

	if got := tm.titlesAt(t, 0, 4); len(got) != 2 {
		t.Errorf("titles at m4 = %v, want two tasks", got)
	}
	if got := tm.titlesAt(t, 0, 2); len(got) != 0 {
		t.Errorf("titles at m2 = %v, want none", got)
	}
}

func TestDropOverPoolTaskFails(t *testing.T) {
	tm := newTestModel(t, 1)
	if _, err := tm.state.AddToPool("C"); err != nil {
		t.Fatalf("AddToPool() error = %v", err)
	}

	tm.press("tab", "enter", "o")

	if tm.Mode() != ModeMove {
		t.Errorf("Mode() = %v, want move after a failed drop", tm.Mode())
	}
	if !tm.statusErr || !strings.Contains(tm.statusMsg, "not scheduled") {
		t.Errorf("status = %q (err=%v)", tm.statusMsg, tm.statusErr)
	}

	tm.press("esc")
	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
}

func TestInsertSlot(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 3, "A")

	tm.press("i")

	if got := tm.state.Schedule().Window().Len(); got != 13 {
		t.Errorf("Len() = %d, want 13", got)
	}
	if want := (timeblock.Position{Hour: 0, Minute: 3}); tm.Cursor() != want {
		t.Errorf("Cursor() = %v, want %v", tm.Cursor(), want)
	}
	if got := tm.titlesAt(t, 0, 4); len(got) != 1 || got[0] != "A" {
		t.Errorf("titles at m4 = %v, want [A]", got)
	}
	if tm.statusMsg != "New 10-minute block added" {
		t.Errorf("status = %q", tm.statusMsg)
	}
}

func TestUnscheduleAndRemove(t *testing.T) {
	tm := newTestModel(t, 1)
	tm.seed(t, 0, 2, "A")

	tm.press("u")
	pool := tm.state.Schedule().Pool()
	if len(pool) != 1 || pool[0].Title != "A" {
		t.Fatalf("pool = %+v", pool)
	}

	tm.press("tab", "x")
	if tm.state.Schedule().TaskCount() != 0 {
		t.Error("task not removed")
	}
	if tm.focus != focusGrid {
		t.Error("focus should return to the grid once the pool is empty")
	}
}

func TestDeleteColumnConfirm(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 2, "A")

	tm.press("D")
	if tm.Mode() != ModeConfirm {
		t.Fatalf("Mode() = %v, want confirm", tm.Mode())
	}
	tm.press("n")
	if tm.state.Schedule().Window().Len() != 12 {
		t.Fatal("declined delete changed the window")
	}

	tm.press("D", "y")
	if got := tm.state.Schedule().Window().Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
	if !strings.HasPrefix(tm.statusMsg, "Hour column deleted, 1 task") {
		t.Errorf("status = %q", tm.statusMsg)
	}
	if len(tm.state.Schedule().Pool()) != 1 {
		t.Error("task on deleted column should be in the pool")
	}
}

func TestDeleteOnlyColumnShowsError(t *testing.T) {
	tm := newTestModel(t, 1)

	tm.press("D", "y")

	if !tm.statusErr {
		t.Errorf("status = %q, want an error", tm.statusMsg)
	}
	if tm.Mode() != ModeNormal {
		t.Errorf("Mode() = %v, want normal", tm.Mode())
	}
}

func TestReset(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 2, "A")
	tm.clock.Advance(2 * time.Hour)

	tm.press("R", "y")

	s := tm.state.Schedule()
	if s.TaskCount() != 0 {
		t.Error("reset kept tasks")
	}
	if want := time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC); !s.Window().Origin().Equal(want) {
		t.Errorf("Origin() = %v, want %v", s.Window().Origin(), want)
	}
	if want := (timeblock.Position{Hour: 0, Minute: 2}); tm.Cursor() != want {
		t.Errorf("Cursor() = %v, want %v", tm.Cursor(), want)
	}
}

func TestUndo(t *testing.T) {
	tm := newTestModel(t, 1)

	tm.press("a")
	tm.typeText("X")
	tm.press("enter", "z")

	if tm.state.Schedule().TaskCount() != 0 {
		t.Error("undo kept the task")
	}
	if tm.statusMsg != "Undid add" {
		t.Errorf("status = %q", tm.statusMsg)
	}

	tm.press("z")
	if !tm.statusErr {
		t.Error("undo with empty history should report an error")
	}
}

func TestCopyPlan(t *testing.T) {
	tm := newTestModel(t, 1)
	tm.seed(t, 0, 2, "A")

	tm.press("y")

	if !strings.HasPrefix(*tm.copied, "Plan ") || !strings.Contains(*tm.copied, "09:20  A") {
		t.Errorf("copied = %q", *tm.copied)
	}
}

func TestNextFreeSlot(t *testing.T) {
	tm := newTestModel(t, 1)
	tm.seed(t, 0, 2, "A")
	tm.seed(t, 0, 3, "B")

	tm.press("k", "k", "f")

	if want := (timeblock.Position{Hour: 0, Minute: 4}); tm.Cursor() != want {
		t.Errorf("Cursor() = %v, want %v", tm.Cursor(), want)
	}
}

func TestTickRollsOver(t *testing.T) {
	tm := newTestModel(t, 3)
	tm.seed(t, 0, 4, "A")
	tm.press("l", "l", "j", "j", "j")

	tm.clock.Set(time.Date(2030, 1, 7, 10, 25, 0, 0, time.UTC))
	updated, cmd := tm.Update(tickMsg(tm.clock.Now()))
	tm.Model = updated.(Model)

	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if got := tm.state.Schedule().Window().Len(); got != 12 {
		t.Errorf("Len() = %d, want 12", got)
	}
	if want := (timeblock.Position{Hour: 1, Minute: 5}); tm.Cursor() != want {
		t.Errorf("Cursor() = %v, want %v", tm.Cursor(), want)
	}
	if !strings.HasPrefix(tm.statusMsg, "1 task moved") {
		t.Errorf("status = %q", tm.statusMsg)
	}
}

func TestQuit(t *testing.T) {
	for _, k := range []string{"q", "ctrl+c"} {
		tm := newTestModel(t, 1)
		cmd := tm.press(k)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", k)
		}
	}
}

func TestView(t *testing.T) {
	tm := newTestModel(t, 2)
	tm.seed(t, 0, 2, "Standup")
	if _, err := tm.state.AddToPool("Inbox zero"); err != nil {
		t.Fatalf("AddToPool() error = %v", err)
	}
	updated, _ := tm.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	tm.Model = updated.(Model)

	out := tm.View()
	for _, want := range []string{"tenmin", "09:00-11:00", " 10:00", "09:20 Standup", "Unscheduled (1)", "Inbox zero"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q:\n%s", want, out)
		}
	}

	tm.press("m")
	if !strings.Contains(tm.View(), "MOVE") {
		t.Error("move mode badge missing")
	}
}
