package mail

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// OpenerSender opens the mailto: link with the desktop's default mail client
type OpenerSender struct {
	// command overrides the platform opener, for tests
	command func(ctx context.Context, url string) *exec.Cmd
}

// NewOpenerSender creates a sender using the platform URL opener
func NewOpenerSender() *OpenerSender {
	return &OpenerSender{command: platformOpener}
}

func platformOpener(ctx context.Context, url string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.CommandContext(ctx, "open", url)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return exec.CommandContext(ctx, "xdg-open", url)
	}
}

func (s *OpenerSender) Send(ctx context.Context, msg Message) error {
	cmd := s.command(ctx, msg.MailtoURL())
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to open mail client: %w: %s", err, out)
	}
	return nil
}

// PrinterSender writes the message to w, for terminals without a desktop session
type PrinterSender struct {
	W io.Writer
}

func (s *PrinterSender) Send(ctx context.Context, msg Message) error {
	_, err := fmt.Fprintf(s.W, "To: %s\nSubject: %s\n\n%s\n\n%s\n", msg.To, msg.Subject, msg.Body, msg.MailtoURL())
	if err != nil {
		return fmt.Errorf("failed to print message: %w", err)
	}
	return nil
}

// ClipboardSender copies the mailto: link to the system clipboard
type ClipboardSender struct{}

func (ClipboardSender) Send(ctx context.Context, msg Message) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard not available on this system")
	}
	if err := clipboard.WriteAll(msg.MailtoURL()); err != nil {
		return fmt.Errorf("failed to copy mail link: %w", err)
	}
	return nil
}

// ByName returns the sender registered under name: open, print or clipboard
func ByName(name string, w io.Writer) (Sender, error) {
	switch name {
	case "", "open":
		return NewOpenerSender(), nil
	case "print":
		return &PrinterSender{W: w}, nil
	case "clipboard":
		return ClipboardSender{}, nil
	default:
		return nil, fmt.Errorf("unknown sender %q (expected open, print or clipboard)", name)
	}
}
