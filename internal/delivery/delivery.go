// Package delivery sends finished readings to customers by e-mail.
package delivery

import (
	"context"
	"html"
	"log/slog"

	"cosmonumero/pkg/email"
)

// AttachmentFilename is the name customers see on the e-mailed report.
const AttachmentFilename = "Analise_Numerologica.pdf"

// Attachment is a file sent along with a message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is one outgoing e-mail.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Channel delivers messages.
type Channel interface {
	Send(ctx context.Context, msg Message) error
}

// ReadingMessage builds the e-mail that carries a customer's report.
func ReadingMessage(to, fullName string, pdf []byte) Message {
	name := html.EscapeString(fullName)
	body := "<html><body>" +
		"<h1>Sua Análise Numerológica</h1>" +
		"<p>Olá " + name + ",</p>" +
		"<p>Segue em anexo sua análise numerológica completa.</p>" +
		"<p>Agradecemos pela confiança!</p>" +
		"<p>Atenciosamente,<br>Equipe Numerologia Cósmica</p>" +
		"</body></html>"
	return Message{
		To:       to,
		Subject:  "Sua Análise Numerológica - " + fullName,
		HTMLBody: body,
		Attachment: &Attachment{
			Filename:    AttachmentFilename,
			ContentType: "application/pdf",
			Data:        pdf,
		},
	}
}

// LogChannel records messages in the log instead of sending them.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Send(ctx context.Context, msg Message) error {
	size := 0
	if msg.Attachment != nil {
		size = len(msg.Attachment.Data)
	}
	c.logger.InfoContext(ctx, "email not sent, smtp not configured",
		"to", email.Mask(msg.To),
		"subject_length", len(msg.Subject),
		"attachment_bytes", size,
	)
	return nil
}
