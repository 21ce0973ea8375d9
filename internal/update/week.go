package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wrangleapp/wrangle/internal/model"
	"github.com/wrangleapp/wrangle/internal/views"
)

func (m Model) handleWeekKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "left":
		m.FocusDate = m.FocusDate.AddDate(0, 0, -7)
		return m, loadWeekCmd(m.Coordinator, weekStart(m.FocusDate))
	case "l", "right":
		m.FocusDate = m.FocusDate.AddDate(0, 0, 7)
		return m, loadWeekCmd(m.Coordinator, weekStart(m.FocusDate))
	case "t":
		m.FocusDate = m.now()
		return m, loadWeekCmd(m.Coordinator, weekStart(m.FocusDate))
	case "d":
		m.CurrentView = ViewDay
		return m, loadDayCmd(m.Coordinator, m.FocusDate)
	case "j", "down", "k", "up":
		var cmd tea.Cmd
		m.weekTable, cmd = m.weekTable.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) syncWeekTable() {
	rows := make([]table.Row, 0, len(m.Week.Items))
	for _, item := range m.Week.Items {
		rows = append(rows, table.Row{
			item.StartTime.Format("2006-01-02"),
			item.StartTime.Format("15:04") + "-" + item.EndTime.Format("15:04"),
			item.Priority.Label(),
			item.Title,
		})
	}
	m.weekTable.SetRows(rows)
}

func (m Model) renderWeekView() string {
	start := m.Week.Start
	if start.IsZero() {
		start = weekStart(m.FocusDate)
	}
	end := start.AddDate(0, 0, 6)
	today := m.now()

	days := make([]views.WeekDayData, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		next := day.AddDate(0, 0, 1)
		var dayItems []model.Item
		for _, item := range m.Week.Items {
			if !item.StartTime.Before(day) && item.StartTime.Before(next) {
				dayItems = append(dayItems, item)
			}
		}
		days = append(days, views.WeekDayData{
			Date:    day.Format("Jan 2"),
			Weekday: day.Format("Mon"),
			IsToday: sameDay(day, today),
			Items:   dayItemData(dayItems),
		})
	}

	return views.RenderWeekPanel(views.WeekPanelData{
		RangeLabel: fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2")),
		Days:       days,
		TableView:  m.weekTable.View(),
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
