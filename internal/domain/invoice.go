package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft          InvoiceStatus = "draft"
	InvoiceStatusSent           InvoiceStatus = "sent"
	InvoiceStatusPendingPayment InvoiceStatus = "pending"
	InvoiceStatusPaid           InvoiceStatus = "paid"
	InvoiceStatusLate           InvoiceStatus = "late"
)

// InvoiceStatuses lists every status in lifecycle order
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPendingPayment,
	InvoiceStatusPaid,
	InvoiceStatusLate,
}

// Label returns the display label of a status
func (s InvoiceStatus) Label() string {
	switch s {
	case InvoiceStatusDraft:
		return "Draft"
	case InvoiceStatusSent:
		return "Sent"
	case InvoiceStatusPendingPayment:
		return "Pending payment"
	case InvoiceStatusPaid:
		return "Paid"
	case InvoiceStatusLate:
		return "Late"
	default:
		return string(s)
	}
}

// ParseInvoiceStatus accepts the stored value or the display label, case-insensitively
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for _, st := range InvoiceStatuses {
		if norm == string(st) || norm == strings.ToLower(st.Label()) {
			return st, nil
		}
	}
	return "", &ValidationError{Reason: ReasonInvalidField, Field: "status", Detail: "must be one of draft, sent, pending, paid, late"}
}

type InvoiceItem struct {
	ID          string          `json:"id"`
	ServiceID   string          `json:"serviceId,omitempty"` // provenance only
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// NewInvoiceItem creates a free-form line
func NewInvoiceItem(description string, quantity, unitPrice decimal.Decimal) InvoiceItem {
	return InvoiceItem{
		ID:          NewID(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	}
}

// ItemFromService copies a catalog entry into a line. Later catalog edits do not affect it.
func ItemFromService(s *Service, quantity decimal.Decimal) InvoiceItem {
	return InvoiceItem{
		ID:          NewID(),
		ServiceID:   s.ID,
		Description: s.Name,
		Quantity:    quantity,
		UnitPrice:   s.UnitPrice,
	}
}

// Amount returns quantity * unit price
func (it InvoiceItem) Amount() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice)
}

type Invoice struct {
	ID        string          `json:"id"`
	Number    string          `json:"number"`
	IssueDate time.Time       `json:"date"`
	DueDate   time.Time       `json:"dueDate"`
	ClientID  string          `json:"clientId"`
	Items     []InvoiceItem   `json:"items"`
	Status    InvoiceStatus   `json:"status"`
	TaxRate   decimal.Decimal `json:"taxRate"` // percentage, e.g. 20 for 20%
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Totals holds the derived amounts of an invoice. It is never persisted.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// DateOf keeps the calendar day of t, as seen in t's own location, at local midnight.
// Issue and due dates are calendar days; storing them as date-only text round-trips exactly.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// NewInvoice creates a new draft invoice
func NewInvoice(number, clientID string, issueDate, dueDate time.Time, taxRate decimal.Decimal) *Invoice {
	now := time.Now()
	return &Invoice{
		ID:        NewID(),
		Number:    number,
		IssueDate: DateOf(issueDate),
		DueDate:   DateOf(dueDate),
		ClientID:  clientID,
		Items:     make([]InvoiceItem, 0),
		Status:    InvoiceStatusDraft,
		TaxRate:   taxRate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Subtotal returns the sum of line amounts
func (i *Invoice) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range i.Items {
		sum = sum.Add(item.Amount())
	}
	return sum
}

// TaxAmount returns subtotal * taxRate / 100
func (i *Invoice) TaxAmount() decimal.Decimal {
	return i.Subtotal().Mul(i.TaxRate).Div(hundred)
}

// Total returns subtotal + tax amount
func (i *Invoice) Total() decimal.Decimal {
	return i.ComputeTotals().Total
}

// ComputeTotals recomputes subtotal, tax and total from the current items and tax rate
func (i *Invoice) ComputeTotals() Totals {
	subtotal := i.Subtotal()
	tax := subtotal.Mul(i.TaxRate).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}
}

// IsLocked returns true once the invoice is paid
func (i *Invoice) IsLocked() bool {
	return i.Status == InvoiceStatusPaid
}

// CanEdit returns true if the invoice can be modified
func (i *Invoice) CanEdit() bool {
	return !i.IsLocked()
}

// CanDelete returns true if the invoice can be deleted
func (i *Invoice) CanDelete() bool {
	return !i.IsLocked()
}

// IsOutstanding returns true for invoices awaiting payment
func (i *Invoice) IsOutstanding() bool {
	switch i.Status {
	case InvoiceStatusSent, InvoiceStatusPendingPayment, InvoiceStatusLate:
		return true
	}
	return false
}

// ValidateForSave checks the invoice can be persisted. A missing client is reported
// before empty items, and both before a negative tax rate.
func (i *Invoice) ValidateForSave() error {
	if strings.TrimSpace(i.ClientID) == "" {
		return ErrMissingClient
	}
	if len(i.Items) == 0 {
		return ErrEmptyItems
	}
	if i.TaxRate.IsNegative() {
		return ErrNegativeTaxRate
	}
	return nil
}

func (i *Invoice) ensureEditable() error {
	if i.IsLocked() {
		return fmt.Errorf("%w: %s", ErrLockedInvoice, i.Number)
	}
	return nil
}

func (i *Invoice) touch() {
	i.UpdatedAt = time.Now()
}

// SetSchedule replaces issue and due dates
func (i *Invoice) SetSchedule(issueDate, dueDate time.Time) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	i.IssueDate = DateOf(issueDate)
	i.DueDate = DateOf(dueDate)
	i.touch()
	return nil
}

// SetBilling replaces the client reference and tax rate
func (i *Invoice) SetBilling(clientID string, taxRate decimal.Decimal) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	if taxRate.IsNegative() {
		return ErrNegativeTaxRate
	}
	i.ClientID = clientID
	i.TaxRate = taxRate
	i.touch()
	return nil
}

// SetNotes replaces the free-text notes
func (i *Invoice) SetNotes(notes string) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	i.Notes = notes
	i.touch()
	return nil
}

// AddItem appends a line at the end of the invoice
func (i *Invoice) AddItem(item InvoiceItem) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = NewID()
	}
	i.Items = append(i.Items, item)
	i.touch()
	return nil
}

// UpdateItem replaces description, quantity and unit price of a line, keeping its position
func (i *Invoice) UpdateItem(itemID, description string, quantity, unitPrice decimal.Decimal) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			i.Items[idx].Description = description
			i.Items[idx].Quantity = quantity
			i.Items[idx].UnitPrice = unitPrice
			i.touch()
			return nil
		}
	}
	return fmt.Errorf("line item %s: %w", itemID, ErrNotFound)
}

// RemoveItem deletes a line, preserving the order of the others
func (i *Invoice) RemoveItem(itemID string) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			i.Items = append(i.Items[:idx:idx], i.Items[idx+1:]...)
			i.touch()
			return nil
		}
	}
	return fmt.Errorf("line item %s: %w", itemID, ErrNotFound)
}

// SetStatus applies an explicit user status change
func (i *Invoice) SetStatus(status InvoiceStatus) error {
	if err := i.ensureEditable(); err != nil {
		return err
	}
	i.Status = status
	i.touch()
	return nil
}

// MarkDispatched moves a draft to sent after it was delivered. Other statuses are left alone.
func (i *Invoice) MarkDispatched() bool {
	if i.Status != InvoiceStatusDraft {
		return false
	}
	i.Status = InvoiceStatusSent
	i.touch()
	return true
}

// Clone returns a deep copy
func (i *Invoice) Clone() *Invoice {
	c := *i
	c.Items = make([]InvoiceItem, len(i.Items))
	copy(c.Items, i.Items)
	return &c
}

// FindInvoice returns the invoice with the given id, or nil
func FindInvoice(invoices []*Invoice, id string) *Invoice {
	for _, inv := range invoices {
		if inv.ID == id {
			return inv
		}
	}
	return nil
}
