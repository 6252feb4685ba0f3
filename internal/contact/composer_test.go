package contact

import (
	"strings"
	"testing"
	"time"
)

func newTestComposer() *Composer {
	c := NewComposer("relay@example.com", "owner@example.com")
	c.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return c
}

func TestCompose_RoundTrip(t *testing.T) {
	c := newTestComposer()

	email, err := c.Compose(Submission{
		Name:    "Ada",
		Email:   "ada@example.com",
		Message: "Hello\nWorld",
	})
	if err != nil {
		t.Fatal(err)
	}

	if email.From != "relay@example.com" || email.To != "owner@example.com" {
		t.Errorf("sender/destination not taken from configuration: %s -> %s", email.From, email.To)
	}
	if email.ReplyTo != "ada@example.com" {
		t.Errorf("reply-to should be the submitter address, got %q", email.ReplyTo)
	}
	if email.Subject != "New Portfolio Contact from Ada" {
		t.Errorf("unexpected subject: %q", email.Subject)
	}

	// HTML body: both fields present, newline became a line break.
	for _, want := range []string{"Ada", "ada@example.com", "Hello<br>World"} {
		if !strings.Contains(email.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}

	// Text body: all three raw fields.
	for _, want := range []string{"Ada", "ada@example.com", "Hello\nWorld"} {
		if !strings.Contains(email.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
}

func TestCompose_EmbedsCompositionTimestamp(t *testing.T) {
	c := newTestComposer()

	email, err := c.Compose(validSubmission())
	if err != nil {
		t.Fatal(err)
	}

	stamp := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC1123)
	if !strings.Contains(email.HTMLBody, stamp) {
		t.Errorf("HTML body missing timestamp %q", stamp)
	}
	if !strings.Contains(email.TextBody, stamp) {
		t.Errorf("text body missing timestamp %q", stamp)
	}
}

func TestCompose_EscapesHTMLInjection(t *testing.T) {
	c := newTestComposer()

	email, err := c.Compose(Submission{
		Name:    `<img src=x onerror=alert(1)>`,
		Email:   "ada@example.com",
		Message: "<script>steal()</script>\nlegit text",
	})
	if err != nil {
		t.Fatal(err)
	}

	if strings.Contains(email.HTMLBody, "<script>") {
		t.Error("script tag from message reached the HTML body")
	}
	if strings.Contains(email.HTMLBody, "<img src=x") {
		t.Error("img tag from name reached the HTML body")
	}
	if !strings.Contains(email.HTMLBody, "legit text") {
		t.Error("benign message content lost")
	}

	// The text body is not an HTML context; raw content stays.
	if !strings.Contains(email.TextBody, "<script>steal()</script>") {
		t.Error("text body should carry the raw message")
	}
}

func TestCompose_IsPureGivenClock(t *testing.T) {
	c := newTestComposer()

	first, err := c.Compose(validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Compose(validSubmission())
	if err != nil {
		t.Fatal(err)
	}
	if *first != *second {
		t.Error("composing the same submission twice with a fixed clock should be identical")
	}
}
