// Package notify delivers the welcome mail sent to every newly added
// alumnus. Delivery runs in the background through a Dispatcher; a
// failure is logged and counted but never reaches the caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/aanand-mishra/alumni-api/internal/config"
)

// Sender delivers one welcome mail.
type Sender interface {
	Send(ctx context.Context, to, name string) error
}

const welcomeSubject = "Welcome to the Alumni Network"

func welcomeText(name string) string {
	return fmt.Sprintf("Hi %s,\n\nCongrats! You have been added to the Alumni Network.\n\nRegards,\nAlumni Office", name)
}

func welcomeHTML(name string) string {
	return fmt.Sprintf("<p>Hi <b>%s</b>,</p><p>Congrats! You have been added to the <b>Alumni Network</b>.</p><p>Regards,<br/>Alumni Office</p>", name)
}

// Mailer sends welcome mails over SMTP.
type Mailer struct {
	cfg config.SMTP
}

// NewMailer returns a Mailer for cfg. Nothing is dialled until Send.
func NewMailer(cfg config.SMTP) *Mailer {
	return &Mailer{cfg: cfg}
}

// Message builds the welcome message for to.
func (m *Mailer) Message(to, name string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("set to address: %w", err)
	}
	msg.Subject(welcomeSubject)
	msg.SetBodyString(mail.TypeTextPlain, welcomeText(name))
	msg.AddAlternativeString(mail.TypeTextHTML, welcomeHTML(name))
	return msg, nil
}

// Send dials the SMTP server and delivers one message. A client is built
// per call so concurrent sends never share a connection.
func (m *Mailer) Send(ctx context.Context, to, name string) error {
	msg, err := m.Message(to, name)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	return nil
}

// LogSender only logs the mail it would have sent. Used when no SMTP
// host is configured.
type LogSender struct {
	Log *slog.Logger
}

func (s LogSender) Send(_ context.Context, to, name string) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("welcome mail (smtp disabled)",
		slog.String("to", to),
		slog.String("name", name),
		slog.String("subject", welcomeSubject))
	return nil
}

// NewSender picks the SMTP mailer when a host is configured and the
// logging sender otherwise.
func NewSender(cfg config.SMTP, log *slog.Logger) Sender {
	if cfg.Host == "" {
		return LogSender{Log: log}
	}
	return NewMailer(cfg)
}
