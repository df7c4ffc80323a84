package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers the transactional email rendered by the worker.
// One client is built per process and reused across sends.
type Mailgun struct {
	impl   *mg.MailgunImpl
	sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{impl: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send delivers one message. text is the plain body; html, when
// non-empty, is attached as the rich variant.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.impl.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.impl.Send(c, msg)
	return err
}
