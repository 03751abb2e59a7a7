package domain

import (
	"strings"
	"time"
)

type Client struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Email     string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientContact groups the reachable fields of a client
type ClientContact struct {
	Email   string
	Phone   string
	Address string
}

// NewClient creates a new client with a fresh identifier
func NewClient(name string) *Client {
	now := time.Now()
	return &Client{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename changes the display name
func (c *Client) Rename(name string) {
	c.Name = strings.TrimSpace(name)
	c.UpdatedAt = time.Now()
}

// SetContact replaces email, phone and address
func (c *Client) SetContact(contact ClientContact) {
	c.Email = strings.TrimSpace(contact.Email)
	c.Phone = strings.TrimSpace(contact.Phone)
	c.Address = contact.Address
	c.UpdatedAt = time.Now()
}

// SetNotes replaces the free-text notes
func (c *Client) SetNotes(notes string) {
	c.Notes = notes
	c.UpdatedAt = time.Now()
}

// Contact returns the current contact fields
func (c *Client) Contact() ClientContact {
	return ClientContact{Email: c.Email, Phone: c.Phone, Address: c.Address}
}

// HasEmail reports whether the client can receive invoices by email
func (c *Client) HasEmail() bool {
	return strings.TrimSpace(c.Email) != ""
}

// Validate returns an error if the client is invalid
func (c *Client) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	return validateStruct(c)
}

// UnknownClientName is displayed for invoices whose client no longer exists
const UnknownClientName = "Unknown client"

// ClientName resolves a client display name from a roster, tolerating dangling references
func ClientName(clients []*Client, id string) string {
	if c := FindClient(clients, id); c != nil {
		return c.Name
	}
	return UnknownClientName
}

// FindClient returns the client with the given id, or nil
func FindClient(clients []*Client, id string) *Client {
	for _, c := range clients {
		if c.ID == id {
			return c
		}
	}
	return nil
}
