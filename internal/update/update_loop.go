package update

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrangleapp/wrangle/internal/notify"
	"github.com/wrangleapp/wrangle/internal/planner"
	"github.com/wrangleapp/wrangle/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{loadDayCmd(m.Coordinator, m.FocusDate)}
	if m.reminders != nil {
		cmds = append(cmds, waitForReminderCmd(m.reminders))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.CurrentView == ViewEditor {
			return m.handleEditorKey(typed)
		}
		if m.CurrentView == ViewQuick {
			return m.handleQuickKey(typed)
		}

		switch typed.String() {
		case m.Keys.Day:
			m.CurrentView = ViewDay
			return m, loadDayCmd(m.Coordinator, m.FocusDate)
		case m.Keys.Week:
			m.CurrentView = ViewWeek
			return m, loadWeekCmd(m.Coordinator, weekStart(m.FocusDate))
		case m.Keys.Quick:
			m.CurrentView = ViewQuick
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			return m, loadDayCmd(m.Coordinator, m.now())
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		if m.CurrentView == ViewDay {
			return m.handleDayKey(typed)
		}
		if m.CurrentView == ViewWeek {
			return m.handleWeekKey(typed)
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	case DayLoadedMsg:
		m.Day.Items = typed.Items
		m.Blocks = typed.Blocks
		if m.Day.Cursor >= len(m.Day.Items) {
			m.Day.Cursor = 0
		}
		return m, nil
	case WeekLoadedMsg:
		m.Week.Start = typed.Start
		m.Week.Items = typed.Items
		m.syncWeekTable()
		return m, nil
	case ItemSavedMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: false}
		if m.CurrentView == ViewQuick {
			m.Quick.Message = typed.Text
			m.Quick.IsError = false
		}
		cmds := []tea.Cmd{loadDayCmd(m.Coordinator, m.FocusDate)}
		if m.CurrentView == ViewWeek || !m.Week.Start.IsZero() {
			cmds = append(cmds, loadWeekCmd(m.Coordinator, weekStart(m.FocusDate)))
		}
		return m, tea.Batch(cmds...)
	case ReminderDueMsg:
		if m.deliver != nil {
			_ = m.deliver(typed.Notification)
		}
		m.Status = StatusBar{Text: typed.Notification.Title, IsError: false}
		if m.reminders != nil {
			return m, waitForReminderCmd(m.reminders)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := m.renderHelpIfVisible()
	switch m.CurrentView {
	case ViewDay:
		leftPane = m.renderDayView()
	case ViewWeek:
		leftPane = m.renderWeekView()
	case ViewQuick:
		leftPane = m.renderQuickView()
	case ViewEditor:
		leftPane = m.renderDayView()
		rightPane = m.renderEditorView() + rightPane
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("wrangle | view: %s | %s", m.CurrentView, m.FocusDate.Format("Mon Jan 2")),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer: fmt.Sprintf("keys: %s day | %s week | %s quick | %s help | %s quit",
			m.Keys.Day, m.Keys.Week, m.Keys.Quick, m.Keys.Help, m.Keys.Quit),
	})
}

func loadDayCmd(coord *planner.Coordinator, date time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		items, err := coord.ItemsForDay(ctx, date)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		blocks, err := coord.ActiveTimeBlocks(ctx)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return DayLoadedMsg{Date: date, Items: items, Blocks: blocks}
	}
}

func loadWeekCmd(coord *planner.Coordinator, start time.Time) tea.Cmd {
	return func() tea.Msg {
		items, err := coord.ItemsForRange(context.Background(), start, start.AddDate(0, 0, 7))
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return WeekLoadedMsg{Start: start, Items: items}
	}
}

func createItemCmd(coord *planner.Coordinator, draft planner.ItemDraft) tea.Cmd {
	return func() tea.Msg {
		item, err := coord.CreateItem(context.Background(), draft)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		return ItemSavedMsg{Text: fmt.Sprintf("added: %s", item.Title)}
	}
}

func toggleCompleteCmd(coord *planner.Coordinator, id string) tea.Cmd {
	return func() tea.Msg {
		item, err := coord.ToggleComplete(context.Background(), id)
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		state := "reopened"
		if item.IsCompleted {
			state = "completed"
		}
		return ItemSavedMsg{Text: fmt.Sprintf("%s: %s", state, item.Title)}
	}
}

func deleteItemCmd(coord *planner.Coordinator, id string) tea.Cmd {
	return func() tea.Msg {
		if err := coord.DeleteItem(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return ItemSavedMsg{Text: "item deleted"}
	}
}

func waitForReminderCmd(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Notification: n}
	}
}

// weekStart returns the Monday of the week containing t, at midnight.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
