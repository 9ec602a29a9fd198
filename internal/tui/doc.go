// Package tui provides terminal user interface components for vscs-farm.
//
// The workspace picker lists running workspaces and lets an operator
// print a workspace URL or stop it:
//
//	result, err := tui.RunPicker(workspaces)
//	switch result.Action {
//	case tui.ActionURL:
//	    // inspect result.Workspace and print its URL
//	case tui.ActionStop:
//	    // stop the workspace of result.UserID
//	}
//
// RenderStatus draws the health summary shown by the status command.
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
