package model

import (
	"errors"
	"testing"
)

func TestTimeBlockValidateSuccess(t *testing.T) {
	block := TimeBlock{
		ID:        "block-1",
		Name:      "Deep Work",
		StartHour: 8,
		EndHour:   12,
		Color:     "purple",
		IsActive:  true,
	}
	if err := block.Validate(); err != nil {
		t.Fatalf("expected valid block, got error: %v", err)
	}
}

func TestTimeBlockValidateRejectsOutOfRangeClock(t *testing.T) {
	block := TimeBlock{ID: "block-1", Name: "Late", StartHour: 22, EndHour: 24, Color: "blue"}
	err := block.Validate()
	if err == nil || !errors.Is(err, ErrInvalidBlockTime) {
		t.Fatalf("expected ErrInvalidBlockTime, got: %v", err)
	}

	block = TimeBlock{ID: "block-1", Name: "Odd", StartHour: 9, StartMinute: 61, EndHour: 10, Color: "blue"}
	err = block.Validate()
	if err == nil || !errors.Is(err, ErrInvalidBlockTime) {
		t.Fatalf("expected ErrInvalidBlockTime, got: %v", err)
	}
}

func TestTimeBlockValidateRejectsUnknownColor(t *testing.T) {
	block := TimeBlock{ID: "block-1", Name: "Odd", StartHour: 9, EndHour: 10, Color: "magenta"}
	err := block.Validate()
	if err == nil || !errors.Is(err, ErrInvalidBlockColor) {
		t.Fatalf("expected ErrInvalidBlockColor, got: %v", err)
	}
}

func TestTimeBlockLabels(t *testing.T) {
	block := TimeBlock{Name: "Morning", StartHour: 6, StartMinute: 30, EndHour: 8}
	if block.TimeRange() != "6:30 - 8:00" {
		t.Fatalf("unexpected time range: %q", block.TimeRange())
	}
}

func TestTimeBlockContains(t *testing.T) {
	block := TimeBlock{StartHour: 8, EndHour: 12}
	if !block.Contains(8, 0) || !block.Contains(11, 59) {
		t.Fatal("expected boundary positions inside block")
	}
	if block.Contains(12, 0) || block.Contains(7, 59) {
		t.Fatal("expected positions outside block")
	}
}

func TestDefaultTimeBlocks(t *testing.T) {
	blocks := DefaultTimeBlocks()
	if len(blocks) != 6 {
		t.Fatalf("expected 6 default blocks, got %d", len(blocks))
	}
	names := map[string]bool{}
	for _, b := range blocks {
		names[b.Name] = true
		if !b.IsActive {
			t.Fatalf("default block %q must be active", b.Name)
		}
		if !isBlockColor(b.Color) {
			t.Fatalf("default block %q has off-palette color %q", b.Name, b.Color)
		}
	}
	for _, want := range []string{"Morning Routine", "Deep Work", "Lunch", "Meetings", "Afternoon Work", "Evening"} {
		if !names[want] {
			t.Fatalf("missing default block %q", want)
		}
	}
}
