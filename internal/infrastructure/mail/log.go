package mail

import (
	"context"

	"github.com/rs/zerolog"
)

// LogMailer stands in for SMTP in development. The body carries the
// generated password and is never logged.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, toName, toAddress, subject, body string) error {
	m.log.Info().
		Str("to_name", toName).
		Str("to", toAddress).
		Str("subject", subject).
		Int("body_bytes", len(body)).
		Msg("email suppressed, no SMTP relay configured")
	return nil
}
