package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lcpu-club/openvscode-farm/internal/runtime"
	"github.com/lcpu-club/openvscode-farm/internal/workspace"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionURL
	ActionStop
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action    Action
	Workspace *runtime.ContainerInfo
	UserID    string
}

// workspaceItem implements list.Item for workspace display
type workspaceItem struct {
	info *runtime.ContainerInfo
}

func (i workspaceItem) Title() string {
	return i.info.Name
}

func (i workspaceItem) Description() string {
	user, _ := workspace.UserID(i.info.Name)
	ports := i.info.Ports
	if ports == "" {
		ports = "-"
	}
	return fmt.Sprintf("%s %s | %s | %s", statusIcon(i.info.Status), user, i.info.Status, truncate(ports, 40))
}

func (i workspaceItem) FilterValue() string {
	return i.info.Name
}

func statusIcon(s runtime.ContainerStatus) string {
	switch s {
	case runtime.StatusRunning:
		return "✓"
	case runtime.StatusStopped:
		return "●"
	default:
		return "?"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// Model is the bubbletea model for the workspace picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
}

// NewPicker creates a new workspace picker
func NewPicker(workspaces []*runtime.ContainerInfo) Model {
	items := make([]list.Item, len(workspaces))
	for i, ws := range workspaces {
		items[i] = workspaceItem{info: ws}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "vscs-farm - Workspaces"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if r, ok := m.selected(ActionURL); ok {
				m.result = r
				m.quitting = true
				return m, tea.Quit
			}

		case "d":
			if r, ok := m.selected(ActionStop); ok {
				m.result = r
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) selected(action Action) (PickerResult, bool) {
	item, ok := m.list.SelectedItem().(workspaceItem)
	if !ok {
		return PickerResult{}, false
	}
	user, _ := workspace.UserID(item.info.Name)
	return PickerResult{Action: action, Workspace: item.info, UserID: user}, true
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	help := helpStyle.Render("[enter] Show URL  [d] Stop  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive workspace picker
func RunPicker(workspaces []*runtime.ContainerInfo) (PickerResult, error) {
	if len(workspaces) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	p := tea.NewProgram(NewPicker(workspaces), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimpleList renders workspaces without a terminal UI
func SimpleList(workspaces []*runtime.ContainerInfo) string {
	var sb strings.Builder

	sb.WriteString("vscs-farm - Workspaces\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(workspaces) == 0 {
		sb.WriteString("No workspaces found.\n")
		return sb.String()
	}

	for i, ws := range workspaces {
		user, _ := workspace.UserID(ws.Name)
		sb.WriteString(fmt.Sprintf("%d. %s %s (user %s)\n", i+1, statusIcon(ws.Status), ws.Name, user))
		if ws.Ports != "" {
			sb.WriteString(fmt.Sprintf("   Ports: %s\n", ws.Ports))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
