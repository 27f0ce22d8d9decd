// Package mail sends transactional notifications over SMTP. Sending is
// best-effort by design: a failed send is logged and reported as ok=false,
// and must never fail the flow that triggered it.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"github.com/veriport/webfront/internal/webfront/cart"
)

// Config is the SMTP transport configuration.
type Config struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (SMTPS) rather than STARTTLS
	User     string
	Password string
	From     string

	// SiteURL is the public base URL used in links inside outbound mail.
	SiteURL string
}

// Enabled reports whether a transport is configured at all. With no host
// the mailer degrades to a logged no-op.
func (c Config) Enabled() bool { return c.Host != "" }

// Mailer builds and sends the transactional messages.
type Mailer struct {
	cfg    Config
	logger *slog.Logger

	// deliver is swapped out in tests.
	deliver func(ctx context.Context, msg *gomail.Msg) error
}

// New creates a Mailer over the given transport configuration.
func New(cfg Config, logger *slog.Logger) *Mailer {
	m := &Mailer{cfg: cfg, logger: logger}
	m.deliver = m.smtpDeliver
	return m
}

// OrderConfirmation mails a checkout summary. Returns false when the mail
// could not be sent; callers must treat that as non-fatal.
func (m *Mailer) OrderConfirmation(ctx context.Context, to, orderRef string, lines []cart.Line, total int64) bool {
	msg, err := m.buildOrderConfirmation(to, orderRef, lines, total)
	if err != nil {
		m.logger.Error("failed to build order confirmation mail", "to", to, "order", orderRef, "error", err)
		return false
	}
	return m.send(ctx, msg, "order_confirmation", to)
}

// Welcome mails a post-registration greeting with a link back to the site.
func (m *Mailer) Welcome(ctx context.Context, to string) bool {
	msg, err := m.buildWelcome(to)
	if err != nil {
		m.logger.Error("failed to build welcome mail", "to", to, "error", err)
		return false
	}
	return m.send(ctx, msg, "welcome", to)
}

// send delivers one message, logging the outcome either way.
func (m *Mailer) send(ctx context.Context, msg *gomail.Msg, kind, to string) bool {
	if !m.cfg.Enabled() {
		m.logger.Warn("mail transport not configured, dropping message", "kind", kind, "to", to)
		return false
	}

	if err := m.deliver(ctx, msg); err != nil {
		m.logger.Error("failed to send mail", "kind", kind, "to", to, "error", err)
		return false
	}

	m.logger.Info("mail sent", "kind", kind, "to", to)
	return true
}

// smtpDeliver dials the configured SMTP host and sends the message.
func (m *Mailer) smtpDeliver(ctx context.Context, msg *gomail.Msg) error {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.User),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	}

	client, err := gomail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, msg)
}

// buildOrderConfirmation renders the checkout summary message.
func (m *Mailer) buildOrderConfirmation(to, orderRef string, lines []cart.Line, total int64) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject(fmt.Sprintf("Order %s confirmed", orderRef))

	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order.\n\nOrder reference: %s\n\n", orderRef)
	for _, l := range lines {
		fmt.Fprintf(&b, "  %dx %s - %s\n", l.Quantity, l.Title, formatCents(l.UnitPrice*int64(l.Quantity)))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", formatCents(total))
	fmt.Fprintf(&b, "\nTrack your order at %s/dashboard\n", m.cfg.SiteURL)

	msg.SetBodyString(gomail.TypeTextPlain, b.String())
	return msg, nil
}

// buildWelcome renders the registration greeting.
func (m *Mailer) buildWelcome(to string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	msg.Subject("Welcome to Veriport")
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf(
		"Your account is ready.\n\nOrder your first background check at %s/services\n", m.cfg.SiteURL))
	return msg, nil
}

// formatCents renders a cent amount as dollars.
func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
