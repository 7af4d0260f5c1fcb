package app

import "github.com/charmbracelet/lipgloss"

var (
	tabStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	tabActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("236")).Bold(true).Padding(0, 1)
	tabVirtualStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Italic(true).Padding(0, 1)
	userLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	agentLabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true)
	autoLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("179")).Bold(true)
	pendingTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	hookLineStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Faint(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	waitingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("110")).Bold(true)
	toastInfoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("29")).Bold(true).Padding(0, 1)
	toastErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("160")).Bold(true).Padding(0, 1)
	timestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
