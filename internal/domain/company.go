package domain

import (
	"strings"
	"time"
)

// DefaultCompanyName is the name of a freshly created profile
const DefaultCompanyName = "Votre Entreprise"

// CompanyProfile is the singleton issuer identity printed on every invoice
type CompanyProfile struct {
	Name           string    `json:"name" validate:"required"`
	Email          string    `json:"email" validate:"omitempty,email"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	RegistrationID string    `json:"siret"`
	IBAN           string    `json:"iban"`
	BIC            string    `json:"bic"`
	LogoDataURL    string    `json:"logoUrl,omitempty"`
	FooterText     string    `json:"footerText,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// CompanyIdentity groups name and contact fields
type CompanyIdentity struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

// CompanyBanking groups legal registration and bank details
type CompanyBanking struct {
	RegistrationID string
	IBAN           string
	BIC            string
}

// DefaultCompanyProfile returns the profile used when none was saved yet
func DefaultCompanyProfile() *CompanyProfile {
	return &CompanyProfile{
		Name:      DefaultCompanyName,
		UpdatedAt: time.Now(),
	}
}

// SetIdentity replaces name and contact fields
func (p *CompanyProfile) SetIdentity(id CompanyIdentity) {
	p.Name = strings.TrimSpace(id.Name)
	p.Email = strings.TrimSpace(id.Email)
	p.Address = id.Address
	p.Phone = strings.TrimSpace(id.Phone)
	p.UpdatedAt = time.Now()
}

// SetBanking replaces registration and bank fields
func (p *CompanyProfile) SetBanking(b CompanyBanking) {
	p.RegistrationID = strings.TrimSpace(b.RegistrationID)
	p.IBAN = strings.TrimSpace(b.IBAN)
	p.BIC = strings.TrimSpace(b.BIC)
	p.UpdatedAt = time.Now()
}

// SetFooter replaces the footer text
func (p *CompanyProfile) SetFooter(text string) {
	p.FooterText = text
	p.UpdatedAt = time.Now()
}

// SetLogo replaces the logo data URL; an empty string removes it
func (p *CompanyProfile) SetLogo(dataURL string) {
	p.LogoDataURL = dataURL
	p.UpdatedAt = time.Now()
}

// Identity returns the current identity fields
func (p *CompanyProfile) Identity() CompanyIdentity {
	return CompanyIdentity{Name: p.Name, Email: p.Email, Address: p.Address, Phone: p.Phone}
}

// Banking returns the current banking fields
func (p *CompanyProfile) Banking() CompanyBanking {
	return CompanyBanking{RegistrationID: p.RegistrationID, IBAN: p.IBAN, BIC: p.BIC}
}

// Validate returns an error if the profile is invalid
func (p *CompanyProfile) Validate() error {
	return validateStruct(p)
}
