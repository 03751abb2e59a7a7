// Package mail composes invoice e-mails and hands them to the user's mail client.
package mail

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/andy/proinvoice/internal/domain"
)

// DateFormat is the date layout used in message bodies
const DateFormat = "02/01/2006"

// Message is a composed invoice e-mail
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a composed message. Dispatch only counts as done once Send returns nil.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SenderFunc adapts a function to the Sender interface
type SenderFunc func(ctx context.Context, msg Message) error

func (f SenderFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// Compose builds the e-mail for an invoice. The client must have an e-mail address.
func Compose(inv *domain.Invoice, client *domain.Client, company *domain.CompanyProfile) (Message, error) {
	if client == nil || !client.HasEmail() {
		return Message{}, fmt.Errorf("cannot send %s: %w", inv.Number, domain.ErrNoClientEmail)
	}

	companyName := domain.DefaultCompanyName
	if company != nil && strings.TrimSpace(company.Name) != "" {
		companyName = company.Name
	}

	body := fmt.Sprintf(
		"Bonjour %s,\n\nVeuillez trouver ci-joint la facture %s datée du %s.\n\nCordialement,\n%s",
		client.Name,
		inv.Number,
		inv.IssueDate.Format(DateFormat),
		companyName,
	)

	return Message{
		To:      strings.TrimSpace(client.Email),
		Subject: fmt.Sprintf("Facture %s - %s", inv.Number, companyName),
		Body:    body,
	}, nil
}

// MailtoURL encodes the message as a mailto: link. Spaces are encoded as %20, which mail clients expect.
func (m Message) MailtoURL() string {
	q := url.Values{}
	q.Set("subject", m.Subject)
	q.Set("body", m.Body)
	query := strings.ReplaceAll(q.Encode(), "+", "%20")
	return "mailto:" + url.PathEscape(m.To) + "?" + query
}
