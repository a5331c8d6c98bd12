// Package mail delivers password-reset and other account mail.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/billbook/backend/internal/domain/identity"
	"github.com/billbook/backend/internal/infrastructure/config"
	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Mail drivers
const (
	DriverSMTP = "smtp"
	DriverLog  = "log"
)

// ErrNoRecipients is returned when Send is called without an address
var ErrNoRecipients = errors.New("mail: no recipients")

// New returns the mailer selected by cfg.Driver. Unknown drivers fall back to
// the log mailer with a warning.
func New(cfg config.MailConfig, logger *zap.Logger) identity.Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case DriverSMTP:
		return NewSMTPMailer(cfg)
	case DriverLog, "":
		return NewLogMailer(logger)
	default:
		logger.Warn("Unknown mail driver, mail will only be logged", zap.String("driver", cfg.Driver))
		return NewLogMailer(logger)
	}
}

// LogMailer writes mail to the log instead of sending it
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a log-only mailer for development
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message
func (m *LogMailer) Send(ctx context.Context, subject, body string, to ...string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("Mail (not sent)",
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// SMTPMailer sends plain-text mail through an SMTP relay, upgrading to TLS
// when the server offers STARTTLS
type SMTPMailer struct {
	addr string
	host string
	from string
	auth bool
	opts []gomail.Option
	now  func() time.Time
}

const defaultSMTPTimeout = 15 * time.Second

// NewSMTPMailer creates an SMTP mailer. Authentication is skipped when no
// user is configured.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	m := &SMTPMailer{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		host: cfg.Host,
		from: cfg.From,
		auth: cfg.User != "",
		opts: []gomail.Option{
			gomail.WithPort(cfg.Port),
			gomail.WithTimeout(defaultSMTPTimeout),
			gomail.WithTLSPolicy(gomail.TLSOpportunistic),
			gomail.WithTLSConfig(tlsConfig(cfg.Host)),
		},
		now: time.Now,
	}
	if m.auth {
		m.opts = append(m.opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}
	return m
}

// Send delivers the message within ctx
func (m *SMTPMailer) Send(ctx context.Context, subject, body string, to ...string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	msg, err := m.message(subject, body, to)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(m.host, m.opts...)
	if err != nil {
		return fmt.Errorf("mail: invalid smtp settings: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: failed to send via %s: %w", m.addr, err)
	}
	return nil
}

// message builds a UTF-8 plain-text message
func (m *SMTPMailer) message(subject, body string, to []string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("mail: invalid sender %q: %w", m.from, err)
	}
	if err := msg.To(to...); err != nil {
		return nil, fmt.Errorf("mail: invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetDateWithValue(m.now())
	msg.SetBodyString(gomail.TypeTextPlain, body)
	return msg, nil
}

var (
	_ identity.Mailer = (*LogMailer)(nil)
	_ identity.Mailer = (*SMTPMailer)(nil)
)
