package push

import "context"

// Sender delivers a push message to a single device token. Delivery is
// best-effort; callers are expected to log and ignore failures.
type Sender interface {
	Send(ctx context.Context, token, title, body string) error
}
