package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lcpu-club/openvscode-farm/internal/health"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(12)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	badStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)
)

// RenderStatus renders a health report as a bordered summary
func RenderStatus(r *health.Report, listen string) string {
	status := okStyle.Render(string(r.Status))
	if !r.Healthy() {
		status = badStyle.Render(string(r.Status))
	}

	dataDir := okStyle.Render("present")
	if !r.DataDir {
		dataDir = badStyle.Render("missing")
	}

	rows := []string{
		titleStyle.Render("vscs-farm status"),
		row("Status", status),
		row("Runtime", r.Runtime),
		row("Listen", listen),
		row("Workspaces", fmt.Sprintf("%d running", r.Workspaces)),
		row("Data dir", dataDir),
	}
	if r.Error != "" {
		rows = append(rows, row("Error", badStyle.Render(r.Error)))
	}

	return boxStyle.Render(strings.Join(rows, "\n"))
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
