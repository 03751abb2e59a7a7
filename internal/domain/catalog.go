package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PricingType is informational and never alters computation
type PricingType string

const (
	PricingFlat   PricingType = "flat"
	PricingHourly PricingType = "hourly"
	PricingDaily  PricingType = "daily"
)

// PricingTypes lists the accepted pricing types in display order
var PricingTypes = []PricingType{PricingFlat, PricingHourly, PricingDaily}

// Label returns a human-readable pricing label
func (p PricingType) Label() string {
	switch p {
	case PricingFlat:
		return "Flat fee"
	case PricingHourly:
		return "Hourly rate"
	case PricingDaily:
		return "Daily rate"
	default:
		return string(p)
	}
}

// Service is a catalog entry copied by value into invoice items
type Service struct {
	ID          string          `json:"id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	Pricing     PricingType     `json:"pricing" validate:"oneof=flat hourly daily"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewService creates a catalog entry with a fresh identifier
func NewService(name string, price decimal.Decimal, pricing PricingType) *Service {
	now := time.Now()
	if pricing == "" {
		pricing = PricingFlat
	}
	return &Service{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		UnitPrice: price,
		Pricing:   pricing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Describe replaces name and description
func (s *Service) Describe(name, description string) {
	s.Name = strings.TrimSpace(name)
	s.Description = description
	s.UpdatedAt = time.Now()
}

// Reprice replaces the unit price and pricing type
func (s *Service) Reprice(price decimal.Decimal, pricing PricingType) {
	s.UnitPrice = price
	s.Pricing = pricing
	s.UpdatedAt = time.Now()
}

// Validate returns an error if the catalog entry is invalid
func (s *Service) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	return validateStruct(s)
}

// ParsePricingType parses a pricing type, accepting an empty string as flat
func ParsePricingType(s string) (PricingType, error) {
	switch p := PricingType(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PricingFlat, nil
	case PricingFlat, PricingHourly, PricingDaily:
		return p, nil
	default:
		return "", &ValidationError{Reason: ReasonInvalidField, Field: "pricing", Detail: "must be one of flat hourly daily"}
	}
}

// FindService returns the catalog entry with the given id, or nil
func FindService(services []*Service, id string) *Service {
	for _, s := range services {
		if s.ID == id {
			return s
		}
	}
	return nil
}
