package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/tenmin/internal/config"
	"github.com/javiermolinar/tenmin/internal/logger"
	"github.com/javiermolinar/tenmin/internal/scheduler"
	"github.com/javiermolinar/tenmin/internal/timeblock"
)

// Monday 2030-01-07 09:25
var start = time.Date(2030, 1, 7, 9, 25, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	logger.InitWriter(io.Discard, false)
	DisableColor()
	os.Exit(m.Run())
}

func runApp(t *testing.T, now time.Time, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.Log.Dir = t.TempDir()

	a := NewApp(cfg)
	a.clock = scheduler.NewFakeClock(now)
	t.Cleanup(func() {
		_ = a.Close()
		logger.InitWriter(io.Discard, false)
	})

	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(io.Discard)
	a.root.SetArgs(args)
	err := a.Execute()
	return out.String(), err
}

func TestRenderGrid(t *testing.T) {
	s, err := timeblock.NewSchedule(2, start)
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}
	slot, _ := s.Window().SlotAt(0, 3)
	s, _, err = s.Place("", slot.ID, "Review")
	if err != nil {
		t.Fatalf("Place() error = %v", err)
	}

	lines := strings.Split(RenderGrid(s, 80), "\n")

	want := []string{
		"09:00   10:00   ",
		"09:00   10:00   ",
		"09:10   10:10   ",
		"09:20 * 10:20   ",
		"09:30 • 10:30   ",
		"09:40   10:40   ",
		"09:50   10:50   ",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestRenderGridWraps(t *testing.T) {
	s, err := timeblock.NewSchedule(3, start)
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}

	got := RenderGrid(s, cellWidth*2)

	groups := strings.Split(strings.TrimSuffix(got, "\n"), "\n\n")
	if len(groups) != 2 {
		t.Fatalf("got %d column groups, want 2:\n%s", len(groups), got)
	}
	if !strings.HasPrefix(groups[1], "11:00") {
		t.Errorf("second group starts %q, want 11:00", groups[1][:5])
	}
}

func TestRenderNotices(t *testing.T) {
	got := RenderNotices([]timeblock.Notice{
		{Kind: timeblock.NoticeBlockAdded, Message: "New 10-minute block added"},
	})
	if got != "» New 10-minute block added\n" {
		t.Errorf("RenderNotices() = %q", got)
	}
}

func TestPlanCommand(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		args    []string
		want    []string
		wantErr error
	}{
		{
			name: "fills next free slots",
			now:  start,
			args: []string{"plan", "--hours", "1", "Standup", "Review PRs"},
			want: []string{"Plan Mon Jan 7, 09:00-10:00", "09:20  Standup", "09:30  Review PRs"},
		},
		{
			name: "overflow goes to the pool",
			now:  start.Add(30 * time.Minute),
			args: []string{"plan", "--hours", "1", "A", "B"},
			want: []string{"09:50  A", "Unscheduled", "- B"},
		},
		{
			name: "nothing to plan",
			now:  start,
			args: []string{"plan", "--hours", "1"},
			want: []string{"(nothing scheduled)"},
		},
		{
			name:    "blank title",
			now:     start,
			args:    []string{"plan", " "},
			wantErr: timeblock.ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runApp(t, tt.now, tt.args...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestSlotsCommand(t *testing.T) {
	out, err := runApp(t, start, "slots", "--hours", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, w := range []string{"Monday, January 7, 2030", "09:20 *", "12 slots, now 09:25"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runApp(t, start, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "tenmin dev (commit: none)\n" {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	out, err := runApp(t, start, "config", "--show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hours            = 4") {
		t.Errorf("output missing hours:\n%s", out)
	}
}

func TestRunConfigInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	if err := runConfigInteractive(strings.NewReader("n\n"), &out, path); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	if !strings.Contains(out.String(), "Created "+path) {
		t.Errorf("first run did not create the file:\n%s", out.String())
	}

	// hours, tick, rollover, strict, addr, origins, theme
	input := "y\n2\n\n\ny\n\n\nlatte\n"
	out.Reset()
	if err := runConfigInteractive(strings.NewReader(input), &out, path); err != nil {
		t.Fatalf("edit run error = %v", err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Schedule.Hours != 2 {
		t.Errorf("hours = %d, want 2", cfg.Schedule.Hours)
	}
	if !cfg.Engine.Strict {
		t.Error("strict = false, want true")
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("theme = %q, want latte", cfg.UI.Theme)
	}
}

func TestConfigFlagLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.Default()
	cfg.Schedule.Hours = 7
	cfg.Log.Dir = t.TempDir()
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}

	out, err := runApp(t, start, "--config", path, "config", "--show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "hours            = 7") {
		t.Errorf("--config was ignored:\n%s", out)
	}
}

func TestPrintNotices(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	notices := make(chan timeblock.Notice)
	done := make(chan struct{})

	var out bytes.Buffer
	go func() {
		printNotices(ctx, &out, notices)
		close(done)
	}()

	notices <- timeblock.Notice{Kind: timeblock.NoticeTasksUnscheduled, Count: 2, Message: "2 tasks moved to unscheduled"}
	cancel()
	<-done

	if !strings.HasSuffix(out.String(), "» 2 tasks moved to unscheduled\n") {
		t.Errorf("output = %q", out.String())
	}
}
