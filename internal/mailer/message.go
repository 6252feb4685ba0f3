package mailer

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/galaxyfolio/backend/internal/contact"
)

// buildMessage serializes a composed email into an RFC 5322 message
// with multipart/alternative text and HTML bodies. The caller-supplied
// messageID becomes the Message-Id header and doubles as the provider
// identifier returned to the submitter.
func buildMessage(email *contact.Email, messageID string, date time.Time) ([]byte, error) {
	var buf bytes.Buffer

	var h mail.Header
	h.SetDate(date)
	h.SetMessageID(messageID)
	h.SetAddressList("From", []*mail.Address{{Address: email.From}})
	h.SetAddressList("To", []*mail.Address{{Address: email.To}})
	if email.ReplyTo != "" {
		h.SetAddressList("Reply-To", []*mail.Address{{Address: email.ReplyTo}})
	}
	h.SetSubject(email.Subject)

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create message writer: %w", err)
	}

	inline, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create alternative part: %w", err)
	}

	// Plain text first so the HTML rendering wins in capable clients
	var textHeader mail.InlineHeader
	textHeader.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	tw, err := inline.CreatePart(textHeader)
	if err != nil {
		return nil, fmt.Errorf("create text part: %w", err)
	}
	if _, err := io.WriteString(tw, email.TextBody); err != nil {
		return nil, fmt.Errorf("write text part: %w", err)
	}
	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("close text part: %w", err)
	}

	var htmlHeader mail.InlineHeader
	htmlHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	hw, err := inline.CreatePart(htmlHeader)
	if err != nil {
		return nil, fmt.Errorf("create html part: %w", err)
	}
	if _, err := io.WriteString(hw, email.HTMLBody); err != nil {
		return nil, fmt.Errorf("write html part: %w", err)
	}
	if err := hw.Close(); err != nil {
		return nil, fmt.Errorf("close html part: %w", err)
	}

	if err := inline.Close(); err != nil {
		return nil, fmt.Errorf("close alternative part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close message writer: %w", err)
	}

	return buf.Bytes(), nil
}
