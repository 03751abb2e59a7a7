package mail

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/shopspring/decimal"
)

func testInvoice() *domain.Invoice {
	issue := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local)
	return domain.NewInvoice("FAC-2024-007", "c1", issue, issue.AddDate(0, 0, 30), decimal.Zero)
}

func TestCompose(t *testing.T) {
	client := domain.NewClient("Awa Diallo")
	client.Email = "awa@example.test"
	company := domain.DefaultCompanyProfile()
	company.Name = "Studio Nkolo"

	msg, err := Compose(testInvoice(), client, company)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if msg.To != "awa@example.test" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.Subject != "Facture FAC-2024-007 - Studio Nkolo" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	want := "Bonjour Awa Diallo,\n\nVeuillez trouver ci-joint la facture FAC-2024-007 datée du 05/03/2024.\n\nCordialement,\nStudio Nkolo"
	if msg.Body != want {
		t.Errorf("Body = %q\nwant %q", msg.Body, want)
	}
}

func TestCompose_NoEmail(t *testing.T) {
	client := domain.NewClient("No Mail")

	_, err := Compose(testInvoice(), client, domain.DefaultCompanyProfile())
	if !errors.Is(err, domain.ErrNoClientEmail) {
		t.Fatalf("expected ErrNoClientEmail, got %v", err)
	}

	_, err = Compose(testInvoice(), nil, nil)
	if !errors.Is(err, domain.ErrNoClientEmail) {
		t.Fatalf("expected ErrNoClientEmail for an unknown client, got %v", err)
	}
}

func TestMailtoURL(t *testing.T) {
	msg := Message{To: "a@b.test", Subject: "Facture FAC-2024-001 - ACME", Body: "Bonjour A,\n\nMerci & à bientôt"}

	link := msg.MailtoURL()
	if !strings.HasPrefix(link, "mailto:a@b.test?") {
		t.Fatalf("unexpected link %q", link)
	}
	if strings.Contains(link, "+") {
		t.Errorf("spaces must be percent-encoded: %q", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	q := u.Query()
	if q.Get("subject") != msg.Subject || q.Get("body") != msg.Body {
		t.Errorf("query did not round-trip: %v", q)
	}
}

func TestPrinterSender(t *testing.T) {
	var buf bytes.Buffer
	s := &PrinterSender{W: &buf}

	if err := s.Send(context.Background(), Message{To: "x@y.test", Subject: "S", Body: "B"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(buf.String(), "To: x@y.test") || !strings.Contains(buf.String(), "mailto:") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestOpenerSender_Failure(t *testing.T) {
	s := &OpenerSender{command: func(ctx context.Context, url string) *exec.Cmd {
		return exec.CommandContext(ctx, "false")
	}}
	if err := s.Send(context.Background(), Message{To: "x@y.test"}); err == nil {
		t.Fatal("expected opener failure to be reported")
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"", "open", "print", "clipboard"} {
		if _, err := ByName(name, &bytes.Buffer{}); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("fax", nil); err == nil {
		t.Error("expected unknown sender error")
	}
}
