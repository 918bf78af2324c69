package service

import "context"

// Notifier delivers account lifecycle email. Delivery is best-effort from the
// service's perspective: a failed notification is logged and never fails or
// rolls back the credential operation that triggered it.
type Notifier interface {
	NotifyWelcome(ctx context.Context, email, name string) error
	NotifyPasswordResetRequested(ctx context.Context, email, name, rawSecret string) error
	NotifyPasswordResetCompleted(ctx context.Context, email, name string) error
}
