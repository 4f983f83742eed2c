// Package notifier delivers run results to the operator by email.
package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isgwatch/isgwatch/internal/config"
	"github.com/isgwatch/isgwatch/internal/entry"
	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"
)

// Notifier is the delivery capability the runner depends on. Only the
// success/failure result matters to the run outcome; message content is a
// presentation concern.
type Notifier interface {
	NotifyNewEntries(ctx context.Context, entries []entry.Entry) error
	NotifyFetchFailure(ctx context.Context, fetchErr error) error
}

// Mailer sends notifications over SMTP as multipart plain+HTML messages.
type Mailer struct {
	cfg config.SMTPConfig
	log zerolog.Logger
}

// NewMailer creates an SMTP notifier.
func NewMailer(cfg config.SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// NotifyNewEntries sends a single email listing the newly observed entries.
func (m *Mailer) NotifyNewEntries(ctx context.Context, entries []entry.Entry) error {
	subject := newEntriesSubject(m.cfg.SubjectPrefix, len(entries))
	if err := m.send(ctx, subject, newEntriesPlainBody(entries), newEntriesHTMLBody(entries)); err != nil {
		return err
	}
	m.log.Info().
		Int("new_entries", len(entries)).
		Str("to", m.cfg.To).
		Msg("Notification sent")
	return nil
}

// NotifyFetchFailure tells the operator the error list could not be
// retrieved. Best effort; the caller still surfaces the fetch error itself.
func (m *Mailer) NotifyFetchFailure(ctx context.Context, fetchErr error) error {
	subject := fetchFailureSubject(m.cfg.SubjectPrefix)
	if err := m.send(ctx, subject, fetchFailurePlainBody(fetchErr), fetchFailureHTMLBody(fetchErr)); err != nil {
		return err
	}
	m.log.Info().
		Str("to", m.cfg.To).
		Msg("Fetch failure notification sent")
	return nil
}

// SendTest sends a notification with one fake entry so a deployment can
// verify its SMTP settings without touching the heat pump.
func (m *Mailer) SendTest(ctx context.Context) error {
	now := time.Now()
	fake := []entry.Entry{{
		Nr:        "1",
		ErrorCode: "E001",
		Heatpump:  "WP1",
		Date:      now.Format("02.01.2006"),
		Time:      now.Format("15:04:05"),
	}}
	subject := newEntriesSubject(m.cfg.SubjectPrefix, len(fake)) + " (test)"
	return m.send(ctx, subject, newEntriesPlainBody(fake), newEntriesHTMLBody(fake))
}

func (m *Mailer) send(ctx context.Context, subject, plainBody, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	recipients := splitAddresses(m.cfg.To)
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, plainBody)
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.UseSTARTTLS() {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password))
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// splitAddresses splits a comma-separated recipient list.
func splitAddresses(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
