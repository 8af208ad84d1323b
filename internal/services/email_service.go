package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// Notifier delivers a short report somewhere outside the API.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, subject, body string) error
}

type emailNotifier struct {
	send func(m ...*gomail.Message) error
	from string
	to   []string
}

// NewEmailNotifier sends reports through SMTP.
func NewEmailNotifier(smtpHost string, smtpPort int, smtpUser, smtpPassword, from string, to []string) Notifier {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailNotifier{send: dialer.DialAndSend, from: from, to: to}
}

func (n *emailNotifier) Name() string { return "email" }

func (n *emailNotifier) Notify(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", "<pre>"+html.EscapeString(body)+"</pre>")

	if err := n.send(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", strings.Join(n.to, ","), err)
	}
	return nil
}
