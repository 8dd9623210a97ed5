package notify

import "context"

// Ledger loads and stores the full notification list. Save receives every
// entry, in Index order, with updated statuses.
type Ledger interface {
	Load(ctx context.Context) ([]Notification, error)
	Save(ctx context.Context, notifications []Notification) error
	Close() error
}
