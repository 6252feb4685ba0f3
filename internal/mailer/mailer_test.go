package mailer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/galaxyfolio/backend/internal/config"
	"github.com/galaxyfolio/backend/internal/contact"
)

func testEmail() *contact.Email {
	return &contact.Email{
		From:     "relay@example.com",
		To:       "owner@example.com",
		ReplyTo:  "ada@example.com",
		Subject:  "New Portfolio Contact from Ada",
		HTMLBody: "<html><body><p>Hello<br>World</p></body></html>",
		TextBody: "Name: Ada\nEmail: ada@example.com\nMessage: Hello\nWorld\n",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildMessage_Headers(t *testing.T) {
	raw, err := buildMessage(testEmail(), "abc123@example.com", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	msg := string(raw)

	for _, want := range []string{
		"From: <relay@example.com>",
		"To: <owner@example.com>",
		"Reply-To: <ada@example.com>",
		"Subject: New Portfolio Contact from Ada",
		"abc123@example.com",
		"multipart/alternative",
		"text/plain",
		"text/html",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestBuildMessage_OmitsEmptyReplyTo(t *testing.T) {
	email := testEmail()
	email.ReplyTo = ""

	raw, err := buildMessage(email, "id@example.com", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "Reply-To") {
		t.Error("Reply-To header present despite empty address")
	}
}

func TestNewMessageID_UsesSenderDomain(t *testing.T) {
	m := New(&config.SMTPConfig{
		Host: "smtp.gmail.com",
		From: "owner@example.com",
	}, discardLogger())

	id := m.newMessageID()
	if !strings.HasSuffix(id, "@example.com") {
		t.Errorf("expected sender-domain suffix, got %q", id)
	}
	if len(id) <= len("@example.com") {
		t.Errorf("identifier has no unique part: %q", id)
	}

	if id2 := m.newMessageID(); id2 == id {
		t.Error("message identifiers must be unique per send")
	}
}

func TestNewMessageID_FallsBackToHost(t *testing.T) {
	m := New(&config.SMTPConfig{Host: "smtp.gmail.com", From: "not-an-address"}, discardLogger())
	if id := m.newMessageID(); !strings.HasSuffix(id, "@smtp.gmail.com") {
		t.Errorf("expected host fallback, got %q", id)
	}
}

func TestSend_ConnectionFailure(t *testing.T) {
	// Nothing listens on the discard port; the single attempt must fail
	// fast with a wrapped connection error and no retry.
	m := New(&config.SMTPConfig{
		Host:     "127.0.0.1",
		Port:     "9",
		Username: "user",
		Password: "pass",
		From:     "relay@example.com",
		To:       "owner@example.com",
		Timeout:  500 * time.Millisecond,
	}, discardLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	id, err := m.Send(ctx, testEmail())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if id != "" {
		t.Errorf("expected empty message ID on failure, got %q", id)
	}
	if !strings.Contains(err.Error(), "connect to mail server") {
		t.Errorf("error not wrapped with context: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("send did not respect the bounded timeout: %s", elapsed)
	}
}
