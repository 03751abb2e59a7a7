package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/proinvoice/internal/app"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen represents the current active screen
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenClients
	ScreenCatalog
	ScreenInvoices
	ScreenCompany
)

// String returns the screen name
func (s Screen) String() string {
	switch s {
	case ScreenDashboard:
		return "Dashboard"
	case ScreenClients:
		return "Clients"
	case ScreenCatalog:
		return "Services"
	case ScreenInvoices:
		return "Invoices"
	case ScreenCompany:
		return "Company"
	default:
		return "Unknown"
	}
}

var screenConstructors = map[Screen]func(*app.App) tea.Model{
	ScreenDashboard: NewDashboardModel,
	ScreenClients:   NewClientsModel,
	ScreenCatalog:   NewCatalogModel,
	ScreenInvoices:  NewInvoicesModel,
	ScreenCompany:   NewCompanyModel,
}

// Model is the root Bubble Tea model
type Model struct {
	app           *app.App
	currentScreen Screen
	width         int
	height        int

	// Screen models (lazy initialized)
	screens map[Screen]tea.Model

	// First-run state
	checkedFirstRun bool

	err error
}

// New creates a new root model
func New(a *app.App) Model {
	return Model{
		app:           a,
		currentScreen: ScreenDashboard,
		screens: map[Screen]tea.Model{
			ScreenDashboard: NewDashboardModel(a),
		},
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.checkFirstRun(), m.screens[ScreenDashboard].Init())
}

// checkFirstRun checks if any clients exist in the database
func (m Model) checkFirstRun() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.app.ClientService.List(context.Background())
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("failed to load clients: %w", err)}
		}
		return firstRunCheckMsg{hasClients: len(clients) > 0}
	}
}

// initScreen lazy-initializes a screen on first visit,
// and sends a RefreshDataMsg on subsequent visits so screens reload data.
func (m *Model) initScreen(screen Screen) tea.Cmd {
	if _, ok := m.screens[screen]; !ok {
		s := screenConstructors[screen](m.app)
		m.screens[screen] = s
		return s.Init()
	}
	return func() tea.Msg { return RefreshDataMsg{} }
}

func (m *Model) switchTo(screen Screen) tea.Cmd {
	m.currentScreen = screen
	m.err = nil
	return m.initScreen(screen)
}

// InputCapturer is implemented by screens that capture keyboard input (e.g. text forms).
// When active, global navigation keys are suppressed.
type InputCapturer interface {
	IsCapturingInput() bool
}

// activeScreenCapturingInput returns true if the current screen is capturing text input
func (m *Model) activeScreenCapturingInput() bool {
	if ic, ok := m.screens[m.currentScreen].(InputCapturer); ok {
		return ic.IsCapturingInput()
	}
	return false
}

// Update implements tea.Model - routes keys to screens
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if !m.activeScreenCapturingInput() {
			switch {
			case key.Matches(msg, DefaultKeyMap.Quit):
				return m, tea.Quit
			case key.Matches(msg, DefaultKeyMap.Dashboard):
				return m, m.switchTo(ScreenDashboard)
			case key.Matches(msg, DefaultKeyMap.Clients):
				return m, m.switchTo(ScreenClients)
			case key.Matches(msg, DefaultKeyMap.Catalog):
				return m, m.switchTo(ScreenCatalog)
			case key.Matches(msg, DefaultKeyMap.Invoices):
				return m, m.switchTo(ScreenInvoices)
			case key.Matches(msg, DefaultKeyMap.Company):
				return m, m.switchTo(ScreenCompany)
			}
		}

	case firstRunCheckMsg:
		if !m.checkedFirstRun && !msg.hasClients {
			m.checkedFirstRun = true
			initCmd := m.switchTo(ScreenClients)
			openFormCmd := func() tea.Msg { return OpenNewClientFormMsg{} }
			return m, tea.Sequence(initCmd, openFormCmd)
		}
		m.checkedFirstRun = true
		return m, nil

	case SwitchScreenMsg:
		return m, m.switchTo(msg.Screen)

	case ErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	// Route message to current screen
	var cmd tea.Cmd
	if screen, ok := m.screens[m.currentScreen]; ok {
		m.screens[m.currentScreen], cmd = screen.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model - renders header + current screen + footer
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	header := headerStyle.Render(fmt.Sprintf("proinvoice - %s", m.currentScreen.String()))
	footer := footerStyle.Render("[H]ome  [C]lients  [S]ervices  [I]nvoices  [,] Company  [Q]uit")

	content := "Loading..."
	if screen, ok := m.screens[m.currentScreen]; ok {
		content = screen.View()
	}

	errorDisplay := ""
	if m.err != nil {
		errorDisplay = errorStyle.Render(fmt.Sprintf("\nError: %s", m.err.Error()))
	}

	innerWidth := m.width - 6 // account for border (2) + padding (4)
	if innerWidth < 20 {
		innerWidth = 20
	}
	dividerWidth := innerWidth - 12
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	divider := lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", dividerWidth))

	body := fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s\n%s", header, divider, content, errorDisplay, divider, footer)

	frame := appBorderStyle.
		Width(innerWidth).
		Height(m.height - 4)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame.Render(body))
}

// Run starts the TUI
func Run(a *app.App) error {
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	p := tea.NewProgram(New(a), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
