package delivery

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"

	"cosmonumero/internal/platform/config"
)

// SMTPChannel sends mail through an SMTP relay.
type SMTPChannel struct {
	host    string
	addr    string
	from    string
	replyTo string
	auth    smtp.Auth
	// send is swapped in tests.
	send func(e *email.Email) error
}

func NewSMTPChannel(cfg config.Mail) *SMTPChannel {
	c := &SMTPChannel{
		host:    cfg.Host,
		addr:    net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		from:    cfg.From,
		replyTo: cfg.ReplyTo,
	}
	if cfg.Username != "" {
		c.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	switch cfg.Port {
	case 465:
		c.send = func(e *email.Email) error { return e.SendWithTLS(c.addr, c.auth, tlsConfig) }
	case 587:
		c.send = func(e *email.Email) error { return e.SendWithStartTLS(c.addr, c.auth, tlsConfig) }
	default:
		c.send = func(e *email.Email) error { return e.Send(c.addr, c.auth) }
	}
	return c
}

func (c *SMTPChannel) build(msg Message) (*email.Email, error) {
	e := email.NewEmail()
	e.From = c.from
	e.To = []string{msg.To}
	if c.replyTo != "" {
		e.ReplyTo = []string{c.replyTo}
	}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTMLBody)
	if a := msg.Attachment; a != nil {
		if _, err := e.Attach(bytes.NewReader(a.Data), a.Filename, a.ContentType); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return e, nil
}

// Send delivers msg. The SMTP exchange itself is not interruptible; a
// cancelled context abandons the wait for it.
func (c *SMTPChannel) Send(ctx context.Context, msg Message) error {
	e, err := c.build(msg)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- c.send(e) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail via %s: %w", c.addr, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
