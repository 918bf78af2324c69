package mailer

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-accounts/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

const (
	welcomeSubject        = "Welcome aboard"
	resetRequestedSubject = "Password reset requested"
	resetCompletedSubject = "Your password was changed"
)

// SMTPNotifier delivers account lifecycle email over SMTP. Each send gets a
// message ID so delivery failures can be correlated in the logs without
// logging recipient-sensitive content.
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (n *SMTPNotifier) NotifyWelcome(ctx context.Context, email, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been created. Welcome!\n", displayName(name))
	return n.send(ctx, email, welcomeSubject, body)
}

func (n *SMTPNotifier) NotifyPasswordResetRequested(ctx context.Context, email, name, rawSecret string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. Use this code within the next hour:\n\n%s\n\nIf you did not request this, you can ignore this message.\n",
		displayName(name), rawSecret,
	)
	return n.send(ctx, email, resetRequestedSubject, body)
}

func (n *SMTPNotifier) NotifyPasswordResetCompleted(ctx context.Context, email, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\nYour password was just changed. If this was not you, request a password reset immediately.\n",
		displayName(name),
	)
	return n.send(ctx, email, resetCompletedSubject, body)
}

func (n *SMTPNotifier) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	messageID := uuid.New().String()

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetHeader("X-Message-ID", messageID)
	m.SetBody("text/plain", body)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail %s: %w", messageID, err)
	}

	logrus.WithFields(logrus.Fields{
		"message_id": messageID,
		"subject":    subject,
	}).Debug("Notification sent")
	return nil
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}

// LogNotifier stands in when SMTP is not configured. It records that a
// notification would have been sent without the secret material.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) NotifyWelcome(_ context.Context, email, _ string) error {
	logrus.WithField("email", email).Info("SMTP disabled, skipping welcome notification")
	return nil
}

func (n *LogNotifier) NotifyPasswordResetRequested(_ context.Context, email, _, _ string) error {
	logrus.WithField("email", email).Info("SMTP disabled, skipping password reset notification")
	return nil
}

func (n *LogNotifier) NotifyPasswordResetCompleted(_ context.Context, email, _ string) error {
	logrus.WithField("email", email).Info("SMTP disabled, skipping password reset confirmation")
	return nil
}
