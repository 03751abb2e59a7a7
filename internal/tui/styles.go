package tui

import (
	"github.com/andy/proinvoice/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor = lipgloss.Color("39")  // Blue
	accentColor  = lipgloss.Color("205") // Pink
	mutedColor   = lipgloss.Color("241") // Gray
	successColor = lipgloss.Color("76")  // Green
	warningColor = lipgloss.Color("214") // Orange
	errorColor   = lipgloss.Color("196") // Red

	// Base styles
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	subtitleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("117")) // Bright cyan
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	amountStyle   = lipgloss.NewStyle().Foreground(accentColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	successStyle  = lipgloss.NewStyle().Foreground(successColor)

	// Layout
	borderColor    = lipgloss.Color("63") // Soft purple
	appBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(1, 2)

	// Header/Footer
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true) // Bright yellow
)

// statusStyle colors an invoice status badge
func statusStyle(s domain.InvoiceStatus) lipgloss.Style {
	switch s {
	case domain.InvoiceStatusPaid:
		return lipgloss.NewStyle().Foreground(successColor)
	case domain.InvoiceStatusLate:
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	case domain.InvoiceStatusSent, domain.InvoiceStatusPendingPayment:
		return lipgloss.NewStyle().Foreground(warningColor)
	default:
		return lipgloss.NewStyle().Foreground(mutedColor)
	}
}
