package user

import (
	"context"

	"github.com/safecity/backend/internal/notification"
	"github.com/safecity/backend/internal/notification/templates"
)

// notificationMailer adapts the notification service to the narrow Mailer
// interface the user service depends on.
type notificationMailer struct {
	svc *notification.Service
}

// NewNotificationMailer wraps a notification service as a user Mailer.
func NewNotificationMailer(svc *notification.Service) Mailer {
	return &notificationMailer{svc: svc}
}

func (m *notificationMailer) SendVerifyEmail(ctx context.Context, to, url string) (string, error) {
	return notification.SendEmail(ctx, m.svc, templates.VerifyEmail, to, templates.VerifyEmailData{URL: url})
}

func (m *notificationMailer) SendPasswordReset(ctx context.Context, to, url string) (string, error) {
	return notification.SendEmail(ctx, m.svc, templates.PasswordReset, to, templates.PasswordResetData{URL: url})
}
