package providers

import (
	"context"
)

// EmailSender delivers transactional email through an external API. The
// core treats delivery as fire-and-forget: failures are logged by callers,
// never propagated into state changes.
type EmailSender interface {
	// Send delivers a single message and returns the provider's message ID
	Send(ctx context.Context, to, subject, body string) (string, error)
}
