package delivery

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cosmonumero/internal/platform/config"
)

func TestReadingMessage(t *testing.T) {
	msg := ReadingMessage("maria@example.com", "Maria <Silva>", []byte("%PDF"))

	assert.Equal(t, "Sua Análise Numerológica - Maria <Silva>", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "<p>Olá Maria &lt;Silva&gt;,</p>")
	require.NotNil(t, msg.Attachment)
	assert.Equal(t, AttachmentFilename, msg.Attachment.Filename)
	assert.Equal(t, "application/pdf", msg.Attachment.ContentType)
}

func TestSMTPChannelSend(t *testing.T) {
	ch := NewSMTPChannel(config.Mail{
		Host:    "smtp.example.com",
		Port:    587,
		From:    "Numerologia Cósmica <contato@ckao.in>",
		ReplyTo: "contato@ckao.in",
	})

	var sent *email.Email
	ch.send = func(e *email.Email) error {
		sent = e
		return nil
	}

	require.NoError(t, ch.Send(context.Background(), ReadingMessage("maria@example.com", "Maria", []byte("%PDF-1.3"))))
	require.NotNil(t, sent)
	assert.Equal(t, []string{"maria@example.com"}, sent.To)
	assert.Equal(t, []string{"contato@ckao.in"}, sent.ReplyTo)
	require.Len(t, sent.Attachments, 1)
	assert.Equal(t, AttachmentFilename, sent.Attachments[0].Filename)

	raw, err := sent.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.Contains(raw, []byte("multipart/mixed")))
}

func TestSMTPChannelSendFailure(t *testing.T) {
	ch := NewSMTPChannel(config.Mail{Host: "smtp.example.com", Port: 25})
	ch.send = func(*email.Email) error { return errors.New("535 auth failed") }

	err := ch.Send(context.Background(), Message{To: "a@example.com", Subject: "s", HTMLBody: "<p>x</p>"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "smtp.example.com:25"))
}

func TestSMTPChannelCancelled(t *testing.T) {
	ch := NewSMTPChannel(config.Mail{Host: "smtp.example.com", Port: 25})
	ch.send = func(*email.Email) error { t.Fatal("send must not run"); return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, ch.Send(ctx, Message{To: "a@example.com"}), context.Canceled)
}

func TestLogChannel(t *testing.T) {
	var buf bytes.Buffer
	ch := NewLogChannel(slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, ch.Send(context.Background(), ReadingMessage("maria@example.com", "Maria", []byte("%PDF"))))
	assert.NotContains(t, buf.String(), "maria@example.com")
	assert.Contains(t, buf.String(), "attachment_bytes=4")
}
