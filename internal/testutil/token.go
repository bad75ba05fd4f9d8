// Package testutil provides deterministic helpers for guard tests.
package testutil

// FixedTokenGenerator returns the same run token every time.
//
// This enables deterministic harness runs and golden snapshot comparison:
// the same scenario with the same token produces byte-identical traces.
//
// Thread-safety: stateless after construction, safe for concurrent use.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a fixed run-token generator.
// An empty token defaults to "test-run-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
// Implements harness.RunTokenGenerator.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
