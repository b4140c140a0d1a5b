package render

import "charm.land/lipgloss/v2"

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func Success(s string) string { return successStyle.Render(s) }
func Failure(s string) string { return failureStyle.Render(s) }
func Muted(s string) string   { return mutedStyle.Render(s) }
