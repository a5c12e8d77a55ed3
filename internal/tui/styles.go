package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	cursorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	directoryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	checkedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	partialStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	matchStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	paneStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	focusedPaneStyle = paneStyle.BorderForeground(lipgloss.Color("62"))
)
