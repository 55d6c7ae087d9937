package ports

import "context"

// Notifier delivers a message to a user out-of-band.
type Notifier interface {
	Send(ctx context.Context, toName, toAddress, subject, body string) error
}

// AssetStore persists binary assets under a caller-chosen name.
type AssetStore interface {
	WriteBytes(ctx context.Context, name string, data []byte) error
}
