package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	mail "github.com/xhit/go-simple-mail/v2"
)

// smtpMailer is the concrete implementation for sending emails via SMTP.
type smtpMailer struct {
	server *mail.SMTPServer
	from   string
	log    *slog.Logger
}

// NewSMTPMailer creates a Mailer that delivers through an SMTP server.
func NewSMTPMailer(host string, port int, username, password, from string, log *slog.Logger) Mailer {
	server := mail.NewSMTPClient()
	server.Host = host
	server.Port = port
	server.Username = username
	server.Password = password
	server.Encryption = mail.EncryptionSTARTTLS
	server.KeepAlive = false
	server.ConnectTimeout = 10 * time.Second
	server.SendTimeout = 10 * time.Second

	return &smtpMailer{
		server: server,
		from:   from,
		log:    log,
	}
}

func (s *smtpMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	smtpClient, err := s.server.Connect()
	if err != nil {
		return "", fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	email := mail.NewMSG()
	email.SetFrom(s.from).AddTo(to).SetSubject(subject)
	email.SetBody(mail.TextHTML, htmlBody)

	if err = email.Send(smtpClient); err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	// go-simple-mail does not surface the server's queue id, so assign one
	// for correlation in logs and callers that require a dispatch id.
	id := uuid.NewString()
	s.log.Info("email sent via smtp", "to", to, "id", id)
	return id, nil
}
