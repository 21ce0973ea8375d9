package views

import (
	"fmt"
	"strings"
)

type DayItemData struct {
	ID            string
	Title         string
	TimeRange     string
	Hour          int
	Priority      string
	PriorityColor string
	Completed     bool
	Synced        bool
	HasReminder   bool
}

type DayBlockData struct {
	Name      string
	StartHour int
	EndHour   int
	Color     string
}

type DayPanelData struct {
	Date       string
	StartHour  int
	EndHour    int
	Blocks     []DayBlockData
	Items      []DayItemData
	SelectedID string
}

type WeekDayData struct {
	Date    string
	Weekday string
	IsToday bool
	Items   []DayItemData
}

type WeekPanelData struct {
	RangeLabel string
	Days       []WeekDayData
	TableView  string
}

type QuickItemData struct {
	Index     int
	Title     string
	TimeRange string
	Completed bool
}

type QuickPanelData struct {
	InputView string
	Items     []QuickItemData
	Message   string
	IsError   bool
}

type EditorPanelData struct {
	Mode            string
	TitleView       string
	NotesView       string
	StartLabel      string
	EndLabel        string
	DurationLabel   string
	Priority        string
	PriorityColor   string
	ReminderEnabled bool
	ReminderMinutes int
	SyncEnabled     bool
	Synced          bool
	FocusedField    string
	ErrorText       string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

// RenderDayPanel draws the hour grid: each hour row carries the shading of
// the time block covering it, with the items that start in that hour listed
// beside it.
func RenderDayPanel(data DayPanelData) string {
	byHour := make(map[int][]DayItemData)
	for _, item := range data.Items {
		byHour[item.Hour] = append(byHour[item.Hour], item)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("day: %s\n", data.Date))
	b.WriteString("actions: [j/k]select [enter]edit [a]add [c]complete [x]delete [h/l]day\n")
	for hour := data.StartHour; hour < data.EndHour; hour++ {
		label := fmt.Sprintf("%02d:00", hour)
		if block, ok := blockAtHour(data.Blocks, hour); ok {
			label = Colorize(block.Color, label)
			if hour == block.StartHour {
				label += " " + blockNameStyle.Render(block.Name)
			}
		} else {
			label = dimStyle.Render(label)
		}
		b.WriteString(label + "\n")
		for _, item := range byHour[hour] {
			b.WriteString("  " + renderDayItemRow(item, data.SelectedID) + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// RenderWeekPanel draws a seven day agenda grouped by day.
func RenderWeekPanel(data WeekPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("week: %s\n", data.RangeLabel))
	b.WriteString("actions: [h/l]week [t]today [d]day view\n")
	if data.TableView != "" {
		b.WriteString(data.TableView + "\n")
	}
	for _, day := range data.Days {
		header := fmt.Sprintf("%s %s", day.Weekday, day.Date)
		if day.IsToday {
			header = selectedStyle.Render(header + " (today)")
		}
		b.WriteString("\n" + header + ":\n")
		if len(day.Items) == 0 {
			b.WriteString(dimStyle.Render("  (free)") + "\n")
			continue
		}
		for _, item := range day.Items {
			b.WriteString("  " + renderDayItemRow(item, "") + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

// RenderQuickPanel draws today's next items with row numbers plus the command
// input.
func RenderQuickPanel(data QuickPanelData) string {
	var b strings.Builder
	b.WriteString("quick:\n")
	b.WriteString(data.InputView + "\n")
	b.WriteString("commands: add <title> [at HH:MM] [for <dur>] | done <n> | delete <n> | show day|week\n")
	if len(data.Items) == 0 {
		b.WriteString(dimStyle.Render("(nothing scheduled today)") + "\n")
	}
	for _, item := range data.Items {
		row := fmt.Sprintf("%d. %s %s", item.Index, item.TimeRange, item.Title)
		if item.Completed {
			row = doneStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	if data.Message != "" {
		if data.IsError {
			b.WriteString("error: " + data.Message)
		} else {
			b.WriteString(data.Message)
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderEditorPanel(data EditorPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("editor (%s):\n", data.Mode))
	b.WriteString("keys: [tab]field [space]toggle [+/-]adjust [ctrl+s]save [esc]cancel\n")
	b.WriteString(field(data.FocusedField, "title") + "title: " + data.TitleView + "\n")
	b.WriteString(field(data.FocusedField, "notes") + "notes:\n" + data.NotesView + "\n")
	b.WriteString(fmt.Sprintf("%sstart: %s\n", field(data.FocusedField, "start"), data.StartLabel))
	b.WriteString(fmt.Sprintf("%send:   %s\n", field(data.FocusedField, "end"), data.EndLabel))
	b.WriteString(fmt.Sprintf("duration: %s\n", data.DurationLabel))
	b.WriteString(fmt.Sprintf("priority: %s %s\n", colorDot(data.PriorityColor), data.Priority))
	if data.ReminderEnabled {
		b.WriteString(fmt.Sprintf("reminder: on, %d minutes before\n", data.ReminderMinutes))
	} else {
		b.WriteString("reminder: off\n")
	}
	sync := "off"
	if data.SyncEnabled {
		sync = "on"
	}
	if data.Synced {
		sync += " (linked)"
	}
	b.WriteString("calendar sync: " + sync + "\n")
	if data.ErrorText != "" {
		b.WriteString("error: " + data.ErrorText)
	}
	return strings.TrimSpace(b.String())
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\nglobal:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func renderDayItemRow(item DayItemData, selectedID string) string {
	cursor := " "
	if selectedID != "" && selectedID == item.ID {
		cursor = ">"
	}
	check := "[ ]"
	if item.Completed {
		check = "[x]"
	}
	row := fmt.Sprintf("%s %s %s %s %s", cursor, check, colorDot(item.PriorityColor), item.TimeRange, item.Title)
	if item.HasReminder {
		row += " ⏰"
	}
	if item.Synced {
		row += " ↺"
	}
	if item.Completed {
		return doneStyle.Render(row)
	}
	if cursor == ">" {
		return selectedStyle.Render(row)
	}
	return row
}

func blockAtHour(blocks []DayBlockData, hour int) (DayBlockData, bool) {
	for _, block := range blocks {
		if hour >= block.StartHour && hour < block.EndHour {
			return block, true
		}
	}
	return DayBlockData{}, false
}

func field(focused, name string) string {
	if focused == name {
		return "> "
	}
	return "  "
}
