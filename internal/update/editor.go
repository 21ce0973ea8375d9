package update

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/planner"
	"github.com/wrangleapp/wrangle/internal/views"
)

var editorFields = []string{"title", "notes", "start", "end", "priority", "reminder", "sync"}

func (m *Model) openEditorForNew() {
	start := m.defaultStart()
	m.Editor = EditorState{
		Start:           start,
		End:             start.Add(time.Hour),
		Priority:        model.PriorityMedium,
		ReminderEnabled: true,
		ReminderMinutes: m.UI.DefaultReminderMinutes,
		Focus:           "title",
	}
	m.titleInput.SetValue("")
	m.titleInput.Focus()
	m.notesArea.SetValue("")
	m.notesArea.Blur()
	m.CurrentView = ViewEditor
}

func (m *Model) openEditorForItem(item model.Item) {
	existing := item
	m.Editor = EditorState{
		Existing:        &existing,
		Start:           item.StartTime,
		End:             item.EndTime,
		Priority:        item.Priority,
		ReminderEnabled: item.WantsReminder(),
		ReminderMinutes: m.UI.DefaultReminderMinutes,
		SyncEnabled:     item.IsSynced(),
		Focus:           "title",
	}
	if item.ReminderMinutesBefore != nil {
		m.Editor.ReminderMinutes = *item.ReminderMinutesBefore
	}
	m.titleInput.SetValue(item.Title)
	m.titleInput.Focus()
	m.notesArea.SetValue(item.Notes)
	m.notesArea.Blur()
	m.CurrentView = ViewEditor
}

// defaultStart proposes the next full hour on the focused date.
func (m Model) defaultStart() time.Time {
	now := m.now()
	d := m.FocusDate
	if sameDay(d, now) {
		return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), 0, 0, 0, d.Location()).Add(time.Hour)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, d.Location())
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewDay
		m.Status = StatusBar{Text: "edit cancelled", IsError: false}
		return m, nil
	case "tab":
		m.cycleEditorFocus(1)
		return m, nil
	case "shift+tab":
		m.cycleEditorFocus(-1)
		return m, nil
	case "ctrl+s":
		return m.saveEditor()
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.Editor.Focus {
	case "title":
		var cmd tea.Cmd
		m.titleInput, cmd = m.titleInput.Update(msg)
		return m, cmd
	case "notes":
		var cmd tea.Cmd
		m.notesArea, cmd = m.notesArea.Update(msg)
		return m, cmd
	case "start":
		m.Editor.Start = adjustTime(m.Editor.Start, msg.String())
	case "end":
		m.Editor.End = adjustTime(m.Editor.End, msg.String())
	case "priority":
		if msg.String() == " " || msg.String() == "+" || msg.String() == "-" {
			m.Editor.Priority = cyclePriority(m.Editor.Priority)
		}
	case "reminder":
		switch msg.String() {
		case " ":
			m.Editor.ReminderEnabled = !m.Editor.ReminderEnabled
		case "+":
			m.Editor.ReminderMinutes += 5
		case "-":
			if m.Editor.ReminderMinutes >= 5 {
				m.Editor.ReminderMinutes -= 5
			}
		}
	case "sync":
		if msg.String() == " " {
			m.Editor.SyncEnabled = !m.Editor.SyncEnabled
		}
	}
	return m, nil
}

func (m *Model) cycleEditorFocus(dir int) {
	idx := 0
	for i, f := range editorFields {
		if f == m.Editor.Focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(editorFields)) % len(editorFields)
	m.Editor.Focus = editorFields[idx]
	if m.Editor.Focus == "title" {
		m.titleInput.Focus()
	} else {
		m.titleInput.Blur()
	}
	if m.Editor.Focus == "notes" {
		m.notesArea.Focus()
	} else {
		m.notesArea.Blur()
	}
}

func (m Model) saveEditor() (tea.Model, tea.Cmd) {
	if !m.Editor.End.After(m.Editor.Start) {
		m.Editor.Err = "end time must be after start time"
		return m, nil
	}
	title := strings.TrimSpace(m.titleInput.Value())
	notes := m.notesArea.Value()
	var reminder *int
	if m.Editor.ReminderEnabled {
		minutes := m.Editor.ReminderMinutes
		reminder = &minutes
	}

	m.CurrentView = ViewDay
	if m.Editor.Existing == nil {
		return m, createItemCmd(m.Coordinator, planner.ItemDraft{
			Title:                 title,
			Notes:                 notes,
			StartTime:             m.Editor.Start,
			EndTime:               m.Editor.End,
			Priority:              m.Editor.Priority,
			ReminderMinutesBefore: reminder,
			SyncToCalendar:        m.Editor.SyncEnabled,
		})
	}

	item := *m.Editor.Existing
	item.Title = title
	item.Notes = notes
	item.StartTime = m.Editor.Start
	item.EndTime = m.Editor.End
	item.Priority = m.Editor.Priority
	item.ReminderMinutesBefore = reminder
	return m, updateItemCmd(m.Coordinator, item, m.Editor.SyncEnabled)
}

func updateItemCmd(coord *planner.Coordinator, item model.Item, syncToCalendar bool) tea.Cmd {
	return func() tea.Msg {
		saved, err := coord.UpdateItem(context.Background(), item, syncToCalendar)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return ItemSavedMsg{Text: fmt.Sprintf("saved: %s", saved.Title)}
	}
}

func adjustTime(t time.Time, key string) time.Time {
	switch key {
	case "+", "l", "right":
		return t.Add(15 * time.Minute)
	case "-", "h", "left":
		return t.Add(-15 * time.Minute)
	default:
		return t
	}
}

func cyclePriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

func (m Model) renderEditorView() string {
	mode := "new item"
	if m.Editor.Existing != nil {
		mode = "edit item"
	}
	duration := "Invalid"
	if m.Editor.End.After(m.Editor.Start) {
		span := model.Item{StartTime: m.Editor.Start, EndTime: m.Editor.End}
		duration = span.DurationLabel()
	}
	return views.RenderEditorPanel(views.EditorPanelData{
		Mode:            mode,
		TitleView:       m.titleInput.View(),
		NotesView:       m.notesArea.View(),
		StartLabel:      m.Editor.Start.Format("Mon 15:04"),
		EndLabel:        m.Editor.End.Format("Mon 15:04"),
		DurationLabel:   duration,
		Priority:        m.Editor.Priority.Label(),
		PriorityColor:   m.Editor.Priority.Color(),
		ReminderEnabled: m.Editor.ReminderEnabled,
		ReminderMinutes: m.Editor.ReminderMinutes,
		SyncEnabled:     m.Editor.SyncEnabled,
		Synced:          m.Editor.Existing != nil && m.Editor.Existing.IsSynced(),
		FocusedField:    m.Editor.Focus,
		ErrorText:       m.Editor.Err,
	})
}
