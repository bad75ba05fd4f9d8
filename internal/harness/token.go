package harness

import "github.com/google/uuid"

// RunTokenGenerator produces tokens that identify scenario runs.
// Implemented by UUIDv7Generator (production) and testutil.FixedTokenGenerator
// (deterministic tests).
type RunTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort by
// creation time - convenient when scanning many run records.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7 string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
