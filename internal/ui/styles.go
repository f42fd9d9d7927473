package ui

import (
	"github.com/charmbracelet/lipgloss"

	"querydeck/internal/api"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarn      = lipgloss.Color("214") // Orange
	colorDanger    = lipgloss.Color("196") // Red
)

// statusColors maps record statuses to badge colors.
var statusColors = map[api.Status]lipgloss.Color{
	api.StatusNew:      colorSecondary,
	api.StatusRunning:  colorWarn,
	api.StatusFinished: colorSuccess,
	api.StatusCanceled: colorDanger,
}

// SelectedRow style for the currently highlighted row.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalRow style for unselected rows.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MutedText style for optional fields that are absent.
var MutedText = lipgloss.NewStyle().
	Foreground(colorMuted)

// StatusBadge base style for the per-row status label.
var StatusBadge = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// FilterBadge style for the active filter shown in the status bar.
var FilterBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for the error bar.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// FlashStyle for transient confirmations (exports, pins).
var FlashStyle = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
