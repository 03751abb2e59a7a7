package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/andy/proinvoice/internal/app"
	"github.com/andy/proinvoice/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type companyForm int

const (
	companyFormNone companyForm = iota
	companyFormIdentity
	companyFormBanking
	companyFormLogo
	companyFormSettings
)

// CompanyModel shows the company profile and invoice settings
type CompanyModel struct {
	app       *app.App
	profile   *domain.CompanyProfile
	loading   bool
	err       error
	statusMsg string

	form     *form
	formKind companyForm
}

type companyDataMsg struct {
	profile *domain.CompanyProfile
	err     error
}

// NewCompanyModel creates the company screen
func NewCompanyModel(a *app.App) tea.Model {
	return &CompanyModel{app: a, loading: true}
}

// IsCapturingInput returns true when a form is active
func (m *CompanyModel) IsCapturingInput() bool {
	return m.form != nil
}

func (m *CompanyModel) Init() tea.Cmd {
	return m.loadProfile()
}

func (m *CompanyModel) loadProfile() tea.Cmd {
	return func() tea.Msg {
		p, err := m.app.ProfileService.Get(context.Background())
		return companyDataMsg{profile: p, err: err}
	}
}

func (m *CompanyModel) openForm(kind companyForm) tea.Cmd {
	p := m.profile
	cfg := m.app.Config.Invoice

	switch kind {
	case companyFormIdentity:
		m.form = newForm("Company Identity",
			formField{label: "Name:", value: p.Name, limit: 100},
			formField{label: "Email:", value: p.Email, limit: 100},
			formField{label: "Phone:", value: p.Phone, limit: 40, width: 20},
			formField{label: "Address:", value: p.Address, width: 60},
			formField{label: "Footer text:", value: p.FooterText, width: 60},
		)
	case companyFormBanking:
		m.form = newForm("Registration & Bank",
			formField{label: "NIF/RCCM:", value: p.RegistrationID, limit: 60},
			formField{label: "IBAN:", value: p.IBAN, limit: 40},
			formField{label: "BIC:", value: p.BIC, limit: 11, width: 12},
		)
	case companyFormLogo:
		m.form = newForm("Import Logo",
			formField{label: "Image file (empty removes the logo):", placeholder: "/path/to/logo.png", limit: 256, width: 60},
		)
	case companyFormSettings:
		m.form = newForm("Invoice Settings",
			formField{label: "Output Directory:", value: cfg.OutputDir, limit: 256, width: 60},
			formField{label: "Number Prefix:", value: cfg.NumberPrefix, limit: 20, width: 20},
			formField{label: "Default Due Days:", value: strconv.Itoa(cfg.DefaultDueDays), limit: 5, width: 10},
			formField{label: "Default Tax Rate (%):", value: strconv.FormatFloat(cfg.DefaultTaxRate, 'f', -1, 64), limit: 10, width: 10},
			formField{label: "Currency:", value: cfg.Currency, limit: 10, width: 10},
		)
	}
	m.formKind = kind
	m.statusMsg = ""
	return m.form.focusCmd()
}

func (m *CompanyModel) save() tea.Cmd {
	f := m.form
	profiles := m.app.ProfileService

	switch m.formKind {
	case companyFormIdentity:
		id := domain.CompanyIdentity{Name: f.value(0), Email: f.value(1), Phone: f.value(2), Address: f.value(3)}
		footer := f.value(4)
		return func() tea.Msg {
			ctx := context.Background()
			if _, err := profiles.UpdateIdentity(ctx, id); err != nil {
				return savedMsg{err: err}
			}
			if _, err := profiles.UpdateFooter(ctx, footer); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{text: "Company profile saved"}
		}

	case companyFormBanking:
		b := domain.CompanyBanking{RegistrationID: f.value(0), IBAN: f.value(1), BIC: f.value(2)}
		return func() tea.Msg {
			if _, err := profiles.UpdateBanking(context.Background(), b); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{text: "Banking details saved"}
		}

	case companyFormLogo:
		path := f.value(0)
		return func() tea.Msg {
			ctx := context.Background()
			if path == "" {
				if _, err := profiles.RemoveLogo(ctx); err != nil {
					return savedMsg{err: err}
				}
				return savedMsg{text: "Logo removed"}
			}
			if _, err := profiles.ImportLogo(ctx, path); err != nil {
				return savedMsg{err: err}
			}
			return savedMsg{text: "Logo imported"}
		}

	case companyFormSettings:
		outputDir, prefix := f.value(0), f.value(1)
		dueDaysStr, taxRateStr, currency := f.value(2), strings.ReplaceAll(f.value(3), ",", "."), f.value(4)
		return func() tea.Msg {
			if outputDir == "" {
				return savedMsg{err: fmt.Errorf("output directory is required")}
			}
			if prefix == "" {
				return savedMsg{err: fmt.Errorf("invoice prefix is required")}
			}
			dueDays, err := strconv.Atoi(dueDaysStr)
			if err != nil || dueDays < 0 {
				return savedMsg{err: fmt.Errorf("due days must be a non-negative number")}
			}
			taxRate, err := strconv.ParseFloat(taxRateStr, 64)
			if err != nil || taxRate < 0 {
				return savedMsg{err: fmt.Errorf("tax rate must be a non-negative number")}
			}

			cfg := &m.app.Config.Invoice
			cfg.OutputDir = outputDir
			cfg.NumberPrefix = prefix
			cfg.DefaultDueDays = dueDays
			cfg.DefaultTaxRate = taxRate
			cfg.Currency = currency

			if err := m.app.SaveConfig(); err != nil {
				return savedMsg{err: fmt.Errorf("failed to save config: %w", err)}
			}
			return savedMsg{text: "Settings saved"}
		}
	}
	return nil
}

func (m *CompanyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case companyDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.profile = msg.profile
		}
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadProfile()

	case savedMsg:
		if msg.err != nil {
			if m.form != nil {
				m.form.err = msg.err
			} else {
				m.err = msg.err
			}
			return m, nil
		}
		m.form = nil
		m.statusMsg = msg.text
		return m, m.loadProfile()
	}

	if m.form != nil {
		action, cmd := m.form.update(msg)
		switch action {
		case formCancel:
			m.form = nil
			return m, nil
		case formSubmit:
			return m, m.save()
		}
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.loading && m.profile != nil {
		m.err = nil
		switch keyMsg.String() {
		case "e":
			return m, m.openForm(companyFormIdentity)
		case "b":
			return m, m.openForm(companyFormBanking)
		case "g":
			return m, m.openForm(companyFormLogo)
		case "o":
			return m, m.openForm(companyFormSettings)
		}
	}
	return m, nil
}

func (m *CompanyModel) View() string {
	if m.form != nil {
		return m.form.view()
	}
	if m.loading {
		return "Loading company profile..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	labelStyle := lipgloss.NewStyle().Bold(true).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(primaryColor)
	row := func(label, value string) string {
		if value == "" {
			value = subtitleStyle.Render("-")
		} else {
			value = valueStyle.Render(value)
		}
		return fmt.Sprintf("  %s %s\n", labelStyle.Render(label), value)
	}

	p := m.profile
	cfg := m.app.Config.Invoice

	var s string
	s += titleStyle.Render("Company") + "\n\n"
	if m.statusMsg != "" {
		s += successStyle.Render("  "+m.statusMsg) + "\n\n"
	}

	logo := ""
	if p.LogoDataURL != "" {
		logo = fmt.Sprintf("embedded (%d KiB)", len(p.LogoDataURL)/1024)
	}

	s += subtitleStyle.Render("  Profile") + "\n\n"
	s += row("Name:", p.Name)
	s += row("Email:", p.Email)
	s += row("Phone:", p.Phone)
	s += row("Address:", p.Address)
	s += row("NIF/RCCM:", p.RegistrationID)
	s += row("IBAN:", p.IBAN)
	s += row("BIC:", p.BIC)
	s += row("Footer:", p.FooterText)
	s += row("Logo:", logo)

	s += "\n" + subtitleStyle.Render("  Invoice Settings") + "\n\n"
	s += row("Output Directory:", cfg.OutputDir)
	s += row("Number Prefix:", cfg.NumberPrefix)
	s += row("Default Due Days:", strconv.Itoa(cfg.DefaultDueDays))
	s += row("Default Tax Rate:", strconv.FormatFloat(cfg.DefaultTaxRate, 'f', -1, 64)+"%")
	s += row("Currency:", cfg.Currency)

	s += "\n" + helpStyle.Render("  e: identity & footer  b: registration & bank  g: logo  o: invoice settings")
	return s
}
