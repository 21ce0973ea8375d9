package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/wrangleapp/wrangle/internal/views"
)

const helpMarkdown = `# wrangle

A keyboard-driven daily planner.

- **Day** shows the hour grid with your time blocks and items.
- **Week** shows the seven day agenda.
- **Quick** takes terse commands like ` + "`add dentist at 14:30 for 45m`" + `.
- Editing an item lets you set priority, a reminder, and calendar sync.
`

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	}) + "\n" + views.RenderMarkdown(helpMarkdown)
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Day, Action: "day view"},
		{Key: m.Keys.Week, Action: "week view"},
		{Key: m.Keys.Quick, Action: "quick panel"},
		{Key: m.Keys.Help, Action: "toggle help"},
		{Key: m.Keys.Quit, Action: "quit"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDay:
		return []KeyBinding{
			{Key: "j/k", Action: "select item"},
			{Key: "h/l", Action: "previous/next day"},
			{Key: "t", Action: "jump to today"},
			{Key: "a", Action: "add item"},
			{Key: "enter", Action: "edit item"},
			{Key: "c", Action: "toggle complete"},
			{Key: "x", Action: "delete item"},
		}
	case ViewWeek:
		return []KeyBinding{
			{Key: "h/l", Action: "previous/next week"},
			{Key: "t", Action: "jump to this week"},
			{Key: "d", Action: "day view"},
			{Key: "j/k", Action: "move agenda cursor"},
		}
	case ViewQuick:
		return []KeyBinding{
			{Key: "enter", Action: "run command"},
			{Key: "esc", Action: "back to day view"},
		}
	case ViewEditor:
		return []KeyBinding{
			{Key: "tab", Action: "next field"},
			{Key: "space", Action: "toggle focused field"},
			{Key: "+/-", Action: "adjust focused field"},
			{Key: "ctrl+s", Action: "save"},
			{Key: "esc", Action: "cancel"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
