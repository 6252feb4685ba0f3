package contact

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/galaxyfolio/backend/internal/sanitizer"
)

// htmlBodyTemplate renders the notification email. Name and Email are
// escaped contextually by html/template; Message is pre-sanitized
// line-by-line (see sanitizer.MultilineHTML) so newlines can become
// <br> tags without letting submitter markup through.
const htmlBodyTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>New Contact Message from Portfolio</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #0f172a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f8f9fa; padding: 20px; border-radius: 0 0 8px 8px; }
    .field { margin-bottom: 15px; }
    .label { font-weight: bold; color: #0f172a; }
    .value { background: white; padding: 10px; border-radius: 4px; border-left: 4px solid #fbbf24; }
    .footer { text-align: center; margin-top: 20px; color: #666; font-size: 12px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>New Contact Message</h1>
      <p>You have received a new message from your portfolio website</p>
    </div>
    <div class="content">
      <div class="field">
        <div class="label">Name:</div>
        <div class="value">{{.Name}}</div>
      </div>
      <div class="field">
        <div class="label">Email:</div>
        <div class="value">{{.Email}}</div>
      </div>
      <div class="field">
        <div class="label">Message:</div>
        <div class="value">{{.Message}}</div>
      </div>
      <div class="field">
        <div class="label">Sent At:</div>
        <div class="value">{{.SentAt}}</div>
      </div>
    </div>
    <div class="footer">
      <p>This message was sent from your portfolio contact form</p>
    </div>
  </div>
</body>
</html>
`

const textBodyTemplate = `New Contact Message from Portfolio

Name: %s
Email: %s
Message: %s

Sent at: %s
`

// Composer builds a transport-agnostic email from a validated
// submission. It is a pure function of its input plus the clock.
type Composer struct {
	from      string
	to        string
	sanitizer *sanitizer.Sanitizer
	tmpl      *template.Template
	now       func() time.Time
}

// NewComposer creates a composer sending from the service identity to
// the site owner's fixed destination address.
func NewComposer(from, to string) *Composer {
	return &Composer{
		from:      from,
		to:        to,
		sanitizer: sanitizer.New(),
		tmpl:      template.Must(template.New("contact").Parse(htmlBodyTemplate)),
		now:       time.Now,
	}
}

// Compose renders the HTML and plain-text bodies for a submission.
// The timestamp is the composition time, not the submission time.
// Reply-To carries the submitter's address so the owner can answer
// directly; it is user-supplied and unauthenticated.
func (c *Composer) Compose(sub Submission) (*Email, error) {
	sentAt := c.now().UTC().Format(time.RFC1123)

	var html strings.Builder
	err := c.tmpl.Execute(&html, struct {
		Name    string
		Email   string
		Message template.HTML
		SentAt  string
	}{
		Name:    sub.Name,
		Email:   sub.Email,
		Message: c.sanitizer.MultilineHTML(sub.Message),
		SentAt:  sentAt,
	})
	if err != nil {
		return nil, fmt.Errorf("render html body: %w", err)
	}

	return &Email{
		From:     c.from,
		To:       c.to,
		ReplyTo:  sub.Email,
		Subject:  "New Portfolio Contact from " + sub.Name,
		HTMLBody: html.String(),
		TextBody: fmt.Sprintf(textBodyTemplate, sub.Name, sub.Email, sub.Message, sentAt),
	}, nil
}
