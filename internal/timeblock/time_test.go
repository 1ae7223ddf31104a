package timeblock

import (
	"testing"
	"time"
)

func TestFloorToSlot(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)},
		{time.Date(2030, 1, 1, 9, 9, 59, 999, time.UTC), time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)},
		{time.Date(2030, 1, 1, 9, 25, 0, 0, time.UTC), time.Date(2030, 1, 1, 9, 20, 0, 0, time.UTC)},
		{time.Date(2030, 1, 1, 23, 59, 0, 0, time.UTC), time.Date(2030, 1, 1, 23, 50, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in.Format("15:04:05"), func(t *testing.T) {
			if got := FloorToSlot(tt.in); !got.Equal(tt.want) {
				t.Errorf("FloorToSlot(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFloorToHour(t *testing.T) {
	got := FloorToHour(testNow)
	want := time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("FloorToHour() = %v, want %v", got, want)
	}
}

func TestPositionOf(t *testing.T) {
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{0, 0}},
		{5, Position{0, 5}},
		{6, Position{1, 0}},
		{13, Position{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			got := PositionOf(tt.offset)
			if got != tt.want {
				t.Errorf("PositionOf(%d) = %v, want %v", tt.offset, got, tt.want)
			}
			if got.Offset() != tt.offset {
				t.Errorf("Offset() = %d, want %d", got.Offset(), tt.offset)
			}
		})
	}
}

func TestPosition_Valid(t *testing.T) {
	tests := []struct {
		p    Position
		want bool
	}{
		{Position{0, 0}, true},
		{Position{3, 5}, true},
		{Position{0, 6}, false},
		{Position{-1, 0}, false},
		{Position{0, -1}, false},
	}

	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	got := FormatClock(time.Date(2030, 1, 1, 7, 5, 0, 0, time.UTC))
	if got != "07:05" {
		t.Errorf("FormatClock() = %q, want %q", got, "07:05")
	}
}
