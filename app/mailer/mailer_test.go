package mailer

import (
	"context"
	"testing"

	"github.com/vibast-solutions/ms-go-accounts/config"
)

func TestDisplayName(t *testing.T) {
	if got := displayName("Alice"); got != "Alice" {
		t.Fatalf("expected Alice, got %q", got)
	}
	if got := displayName(""); got != "there" {
		t.Fatalf("expected fallback greeting, got %q", got)
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier()
	ctx := context.Background()

	if err := n.NotifyWelcome(ctx, "alice@example.com", "Alice"); err != nil {
		t.Fatalf("welcome: %v", err)
	}
	if err := n.NotifyPasswordResetRequested(ctx, "alice@example.com", "Alice", "secret"); err != nil {
		t.Fatalf("reset requested: %v", err)
	}
	if err := n.NotifyPasswordResetCompleted(ctx, "alice@example.com", "Alice"); err != nil {
		t.Fatalf("reset completed: %v", err)
	}
}

func TestSMTPNotifierHonorsCancelledContext(t *testing.T) {
	n := NewSMTPNotifier(config.SMTPConfig{
		Host: "smtp.example.com",
		Port: 587,
		From: "noreply@example.com",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context must fail before any dial attempt.
	if err := n.NotifyWelcome(ctx, "alice@example.com", "Alice"); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}
