package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"go.uber.org/zap"

	"github.com/shop/backend/internal/infrastructure/config"
)

// Message is one outgoing email with an optional PDF attachment
type Message struct {
	To             string
	Subject        string
	HTMLBody       string
	AttachmentName string
	Attachment     []byte
}

// Sender delivers email messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NotificationError wraps a delivery failure. Callers treat it as
// best-effort: the triggering operation has already committed.
type NotificationError struct {
	Recipient string
	Cause     error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to notify %s: %v", e.Recipient, e.Cause)
}

func (e *NotificationError) Unwrap() error {
	return e.Cause
}

// SMTPSender sends mail through a plain SMTP relay
type SMTPSender struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPSender creates an SMTP-backed sender
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPSender{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send delivers one message to one recipient
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return &NotificationError{Recipient: msg.To, Cause: fmt.Errorf("empty recipient")}
	}
	if err := ctx.Err(); err != nil {
		return &NotificationError{Recipient: msg.To, Cause: err}
	}

	body, err := buildMIMEMessage(s.cfg.From, msg)
	if err != nil {
		return &NotificationError{Recipient: msg.To, Cause: err}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	s.logger.Info("sending email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Bool("attachment", len(msg.Attachment) > 0))

	if err := s.send(addr, auth, s.cfg.From, []string{msg.To}, body); err != nil {
		s.logger.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.Error(err))
		return &NotificationError{Recipient: msg.To, Cause: err}
	}

	return nil
}

// buildMIMEMessage assembles a multipart/mixed message: an HTML part
// plus an optional base64-encoded application/pdf attachment
func buildMIMEMessage(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", `text/html; charset="UTF-8"`)
	htmlPart, err := writer.CreatePart(htmlHeader)
	if err != nil {
		return nil, err
	}
	if _, err := htmlPart.Write([]byte(msg.HTMLBody)); err != nil {
		return nil, err
	}

	if len(msg.Attachment) > 0 {
		name := msg.AttachmentName
		if name == "" {
			name = "attachment.pdf"
		}
		attHeader := textproto.MIMEHeader{}
		attHeader.Set("Content-Type", "application/pdf")
		attHeader.Set("Content-Transfer-Encoding", "base64")
		attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		attPart, err := writer.CreatePart(attHeader)
		if err != nil {
			return nil, err
		}

		encoded := base64.StdEncoding.EncodeToString(msg.Attachment)
		// RFC 2045 line length limit
		for len(encoded) > 76 {
			if _, err := attPart.Write([]byte(encoded[:76] + "\r\n")); err != nil {
				return nil, err
			}
			encoded = encoded[76:]
		}
		if _, err := attPart.Write([]byte(encoded + "\r\n")); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Sender = (*SMTPSender)(nil)

// NopSender drops all messages, used when smtp.enabled is false
type NopSender struct {
	logger *zap.Logger
}

// NewNopSender creates a sender that logs and discards
func NewNopSender(logger *zap.Logger) *NopSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NopSender{logger: logger}
}

// Send logs the message and drops it
func (s *NopSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("mail disabled, dropping message",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

var _ Sender = (*NopSender)(nil)
