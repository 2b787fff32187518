package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"concierge/pkg/config"
	"concierge/pkg/logger"
)

const (
	ProviderSMTP  = "smtp"
	ProviderGmail = "gmail"
	ProviderLog   = "log"

	gmailHost = "smtp.gmail.com"
	gmailPort = 587
)

// ErrNotConfigured is returned by every send when mail credentials are absent.
var ErrNotConfigured = errors.New("email service not configured")

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport for cfg.MailProvider. Missing credentials
// yield a mailer that always fails with ErrNotConfigured so callers degrade
// instead of refusing to start.
func NewMailer(cfg *config.Config) Mailer {
	log := cfg.Log.Component("mailer")

	if cfg.MailProvider == ProviderLog {
		return &logMailer{log: log}
	}
	if !cfg.MailConfigured() {
		log.Warn("Email credentials missing, notifications disabled", "provider", cfg.MailProvider)
		return unconfiguredMailer{}
	}

	host, port := cfg.MailHost, cfg.MailPort
	if cfg.MailProvider == ProviderGmail {
		host, port = gmailHost, gmailPort
	}
	from := cfg.MailFrom
	if from == "" {
		from = cfg.MailUser
	}

	return &smtpMailer{
		addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		host:     host,
		user:     cfg.MailUser,
		password: cfg.MailPassword,
		from:     from,
		timeout:  30 * time.Second,
	}
}

type unconfiguredMailer struct{}

func (unconfiguredMailer) Send(context.Context, Message) error {
	return ErrNotConfigured
}

// logMailer writes messages to the log instead of delivering them.
type logMailer struct {
	log *logger.Logger
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.Info("Email (log provider)", "to", msg.To, "subject", msg.Subject, "html_bytes", len(msg.HTML))
	return nil
}

type smtpMailer struct {
	addr     string
	host     string
	user     string
	password string
	from     string
	timeout  time.Duration
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	dialer := &net.Dialer{Timeout: m.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return fmt.Errorf("failed to connect to mail server: %w", err)
	}
	deadline := time.Now().Add(m.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if err := client.Auth(smtp.PlainAuth("", m.user, m.password, m.host)); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("SMTP MAIL FROM rejected: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("SMTP RCPT TO rejected: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA rejected: %w", err)
	}
	if _, err := w.Write(buildMIME(m.from, msg)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return client.Quit()
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: Concierge <" + from + ">\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("Date: " + time.Now().UTC().Format(time.RFC1123Z) + "\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
