package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/views"
)

func (m Model) handleDayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.Day.Cursor < len(m.Day.Items)-1 {
			m.Day.Cursor++
		}
		return m, nil
	case "k", "up":
		if m.Day.Cursor > 0 {
			m.Day.Cursor--
		}
		return m, nil
	case "h", "left":
		m.FocusDate = m.FocusDate.AddDate(0, 0, -1)
		m.Day.Cursor = 0
		return m, loadDayCmd(m.Coordinator, m.FocusDate)
	case "l", "right":
		m.FocusDate = m.FocusDate.AddDate(0, 0, 1)
		m.Day.Cursor = 0
		return m, loadDayCmd(m.Coordinator, m.FocusDate)
	case "t":
		m.FocusDate = m.now()
		m.Day.Cursor = 0
		return m, loadDayCmd(m.Coordinator, m.FocusDate)
	case "a":
		m.openEditorForNew()
		return m, nil
	case "enter", "e":
		if item, ok := m.selectedDayItem(); ok {
			m.openEditorForItem(item)
		}
		return m, nil
	case "c":
		if item, ok := m.selectedDayItem(); ok {
			return m, toggleCompleteCmd(m.Coordinator, item.ID)
		}
		return m, nil
	case "x":
		if item, ok := m.selectedDayItem(); ok {
			return m, deleteItemCmd(m.Coordinator, item.ID)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectedDayItem() (model.Item, bool) {
	if m.Day.Cursor < 0 || m.Day.Cursor >= len(m.Day.Items) {
		return model.Item{}, false
	}
	return m.Day.Items[m.Day.Cursor], true
}

func (m Model) renderDayView() string {
	selectedID := ""
	if item, ok := m.selectedDayItem(); ok {
		selectedID = item.ID
	}
	return views.RenderDayPanel(views.DayPanelData{
		Date:       m.FocusDate.Format("Monday, Jan 2"),
		StartHour:  m.UI.DayStartHour,
		EndHour:    m.UI.DayEndHour,
		Blocks:     blockData(m.Blocks),
		Items:      dayItemData(m.Day.Items),
		SelectedID: selectedID,
	})
}

func blockData(blocks []model.TimeBlock) []views.DayBlockData {
	out := make([]views.DayBlockData, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, views.DayBlockData{
			Name:      block.Name,
			StartHour: block.StartHour,
			EndHour:   block.EndHour,
			Color:     block.Color,
		})
	}
	return out
}

func dayItemData(items []model.Item) []views.DayItemData {
	out := make([]views.DayItemData, 0, len(items))
	for _, item := range items {
		out = append(out, views.DayItemData{
			ID:            item.ID,
			Title:         item.Title,
			TimeRange:     item.StartTime.Format("15:04") + "-" + item.EndTime.Format("15:04"),
			Hour:          item.StartTime.Hour(),
			Priority:      item.Priority.Label(),
			PriorityColor: item.Priority.Color(),
			Completed:     item.IsCompleted,
			Synced:        item.IsSynced(),
			HasReminder:   item.WantsReminder(),
		})
	}
	return out
}
