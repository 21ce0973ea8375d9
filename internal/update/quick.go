package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrangleapp/wrangle/internal/commands"
	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/planner"
	"github.com/wrangleapp/wrangle/internal/views"
)

func (m Model) handleQuickKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewDay
		m.commandInput.Blur()
		return m, loadDayCmd(m.Coordinator, m.FocusDate)
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	case "enter":
		return m.executeQuickCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	return m, cmd
}

func (m Model) executeQuickCommand() (tea.Model, tea.Cmd) {
	raw := m.commandInput.Value()
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Quick.Message = err.Error()
		m.Quick.IsError = true
		return m, nil
	}

	var pending tea.Cmd
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			pending = createItemCmd(m.Coordinator, m.draftFromQuickAdd(a))
			return commands.Result{Message: fmt.Sprintf("adding: %s", a.Title)}, nil
		},
		Done: func(d commands.DoneArgs) (commands.Result, error) {
			item, err := m.quickItemAt(d.Index)
			if err != nil {
				return commands.Result{}, err
			}
			pending = toggleCompleteCmd(m.Coordinator, item.ID)
			return commands.Result{Message: fmt.Sprintf("toggling: %s", item.Title)}, nil
		},
		Delete: func(d commands.DeleteArgs) (commands.Result, error) {
			item, err := m.quickItemAt(d.Index)
			if err != nil {
				return commands.Result{}, err
			}
			pending = deleteItemCmd(m.Coordinator, item.ID)
			return commands.Result{Message: fmt.Sprintf("deleting: %s", item.Title)}, nil
		},
		Show: func(s commands.ShowArgs) (commands.Result, error) {
			if s.Subject == "week" {
				pending = loadWeekCmd(m.Coordinator, weekStart(m.FocusDate))
				m.CurrentView = ViewWeek
			} else {
				pending = loadDayCmd(m.Coordinator, m.FocusDate)
				m.CurrentView = ViewDay
			}
			return commands.Result{Message: "showing " + s.Subject}, nil
		},
	})
	if err != nil {
		m.Quick.Message = err.Error()
		m.Quick.IsError = true
		return m, nil
	}
	m.Quick.Message = res.Message
	m.Quick.IsError = false
	return m, pending
}

// draftFromQuickAdd fills the gaps a terse add leaves: today at the given
// clock time, or the next full hour when no time was given, one hour long
// unless a duration was given, with the default reminder.
func (m Model) draftFromQuickAdd(a commands.AddArgs) planner.ItemDraft {
	now := m.now()
	var start time.Time
	if a.HasAt {
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		start = midnight.Add(a.At)
	} else {
		start = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location()).Add(time.Hour)
	}
	duration := a.For
	if duration <= 0 {
		duration = time.Hour
	}
	minutes := m.UI.DefaultReminderMinutes
	return planner.ItemDraft{
		Title:                 a.Title,
		StartTime:             start,
		EndTime:               start.Add(duration),
		Priority:              model.PriorityMedium,
		ReminderMinutesBefore: &minutes,
	}
}

func (m Model) quickItemAt(index int) (model.Item, error) {
	if index < 1 || index > len(m.Day.Items) {
		return model.Item{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: fmt.Sprintf("no item at row %d", index),
		}
	}
	return m.Day.Items[index-1], nil
}

func (m Model) renderQuickView() string {
	items := make([]views.QuickItemData, 0, len(m.Day.Items))
	for i, item := range m.Day.Items {
		items = append(items, views.QuickItemData{
			Index:     i + 1,
			Title:     item.Title,
			TimeRange: item.StartTime.Format("15:04") + "-" + item.EndTime.Format("15:04"),
			Completed: item.IsCompleted,
		})
	}
	return views.RenderQuickPanel(views.QuickPanelData{
		InputView: m.commandInput.View(),
		Items:     items,
		Message:   m.Quick.Message,
		IsError:   m.Quick.IsError,
	})
}
