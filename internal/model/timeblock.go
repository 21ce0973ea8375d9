package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidBlockTime  = errors.New("model: time block hours/minutes out of range")
	ErrInvalidBlockColor = errors.New("model: invalid time block color")
)

// Palette colors available to time blocks. The views map these to styles.
var BlockColors = []string{"blue", "purple", "green", "orange", "yellow", "red", "indigo"}

// TimeBlock is a labeled template segment of the day, used only for display.
// Blocks carry clock positions rather than dates and never cross midnight.
type TimeBlock struct {
	ID          string
	Name        string
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
	Color       string
	IsActive    bool
}

func (b TimeBlock) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return errors.New("model: time block id is required")
	}
	if strings.TrimSpace(b.Name) == "" {
		return errors.New("model: time block name is required")
	}
	if b.StartHour < 0 || b.StartHour > 23 || b.EndHour < 0 || b.EndHour > 23 {
		return fmt.Errorf("%w: hours %d-%d", ErrInvalidBlockTime, b.StartHour, b.EndHour)
	}
	if b.StartMinute < 0 || b.StartMinute > 59 || b.EndMinute < 0 || b.EndMinute > 59 {
		return fmt.Errorf("%w: minutes %d-%d", ErrInvalidBlockTime, b.StartMinute, b.EndMinute)
	}
	if !isBlockColor(b.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidBlockColor, b.Color)
	}
	return nil
}

func isBlockColor(color string) bool {
	for _, c := range BlockColors {
		if c == color {
			return true
		}
	}
	return false
}

func (b TimeBlock) StartLabel() string {
	return fmt.Sprintf("%d:%02d", b.StartHour, b.StartMinute)
}

func (b TimeBlock) EndLabel() string {
	return fmt.Sprintf("%d:%02d", b.EndHour, b.EndMinute)
}

func (b TimeBlock) TimeRange() string {
	return b.StartLabel() + " - " + b.EndLabel()
}

// Contains reports whether the clock position hour:minute falls inside the block.
func (b TimeBlock) Contains(hour, minute int) bool {
	pos := hour*60 + minute
	return pos >= b.StartHour*60+b.StartMinute && pos < b.EndHour*60+b.EndMinute
}

// DefaultTimeBlocks is the set seeded into a fresh installation. IDs are
// assigned by the coordinator at seed time.
func DefaultTimeBlocks() []TimeBlock {
	return []TimeBlock{
		{Name: "Morning Routine", StartHour: 6, EndHour: 8, Color: "yellow", IsActive: true},
		{Name: "Deep Work", StartHour: 8, EndHour: 12, Color: "purple", IsActive: true},
		{Name: "Lunch", StartHour: 12, EndHour: 13, Color: "green", IsActive: true},
		{Name: "Meetings", StartHour: 13, EndHour: 15, Color: "orange", IsActive: true},
		{Name: "Afternoon Work", StartHour: 15, EndHour: 17, Color: "blue", IsActive: true},
		{Name: "Evening", StartHour: 17, EndHour: 21, Color: "indigo", IsActive: true},
	}
}
