package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/notify"
	"github.com/wrangleapp/wrangle/internal/planner"
)

type View string

const (
	ViewDay    View = "Day"
	ViewWeek   View = "Week"
	ViewQuick  View = "Quick"
	ViewEditor View = "Editor"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Day   string
	Week  string
	Quick string
	Help  string
	Quit  string
}

type DayState struct {
	Items  []model.Item
	Cursor int
}

type WeekState struct {
	Start time.Time
	Items []model.Item
}

type QuickState struct {
	Message string
	IsError bool
}

// EditorState holds the in-flight item form. Existing is nil while creating.
type EditorState struct {
	Existing        *model.Item
	Start           time.Time
	End             time.Time
	Priority        model.Priority
	ReminderEnabled bool
	ReminderMinutes int
	SyncEnabled     bool
	Focus           string
	Err             string
}

type Model struct {
	CurrentView View
	Coordinator *planner.Coordinator
	FocusDate   time.Time
	UI          UIConfig
	Day         DayState
	Blocks      []model.TimeBlock
	Week        WeekState
	Quick       QuickState
	Editor      EditorState
	HelpVisible bool
	Status      StatusBar
	Keys        GlobalKeyMap
	Quitting    bool
	LastError   error

	reminders <-chan notify.Notification
	deliver   func(notify.Notification) error

	titleInput   textinput.Model
	notesArea    textarea.Model
	commandInput textinput.Model
	weekTable    table.Model
	helpModel    help.Model

	now func() time.Time
}

type KeyBinding struct {
	Key    string
	Action string
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// DayLoadedMsg carries a fresh day query result plus the active time blocks.
type DayLoadedMsg struct {
	Date   time.Time
	Items  []model.Item
	Blocks []model.TimeBlock
}

type WeekLoadedMsg struct {
	Start time.Time
	Items []model.Item
}

// ItemSavedMsg follows any coordinator mutation; the day is reloaded after it.
type ItemSavedMsg struct {
	Text string
}

type ReminderDueMsg struct {
	Notification notify.Notification
}

func NewModel(coord *planner.Coordinator, cfg UIConfig) Model {
	m := Model{
		CurrentView: ViewDay,
		Coordinator: coord,
		UI:          cfg,
		FocusDate:   time.Now(),
		deliver:     notify.DesktopSink{}.Send,
		Keys: GlobalKeyMap{
			Day:   "1",
			Week:  "2",
			Quick: "3",
			Help:  "?",
			Quit:  "q",
		},
		now: time.Now,
	}
	m.initBubbleComponents()
	return m
}

// NewModelWithReminders additionally consumes the engine's due-notification
// channel and forwards deliveries to the desktop sink.
func NewModelWithReminders(coord *planner.Coordinator, cfg UIConfig, reminders <-chan notify.Notification) Model {
	m := NewModel(coord, cfg)
	m.reminders = reminders
	return m
}

func (m *Model) initBubbleComponents() {
	m.titleInput = textinput.New()
	m.titleInput.Prompt = ""
	m.titleInput.CharLimit = 256
	m.titleInput.Width = 42

	m.notesArea = textarea.New()
	m.notesArea.SetWidth(54)
	m.notesArea.SetHeight(5)
	m.notesArea.ShowLineNumbers = false
	m.notesArea.Placeholder = "Notes"

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "> "
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	cols := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Time", Width: 13},
		{Title: "Pri", Width: 6},
		{Title: "Title", Width: 24},
	}
	m.weekTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithHeight(8))

	m.helpModel = help.New()
}

func isKnownView(v View) bool {
	switch v {
	case ViewDay, ViewWeek, ViewQuick, ViewEditor:
		return true
	default:
		return false
	}
}

func levelFromError(isErr bool) string {
	if isErr {
		return "error"
	}
	return "info"
}
