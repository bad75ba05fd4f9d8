package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixedTokenGenerator_ReturnsSameToken(t *testing.T) {
	g := NewFixedTokenGenerator("run-42")

	assert.Equal(t, "run-42", g.Generate())
	assert.Equal(t, "run-42", g.Generate())
}

func TestFixedTokenGenerator_EmptyDefaults(t *testing.T) {
	g := NewFixedTokenGenerator("")
	assert.Equal(t, "test-run-default", g.Generate())
}
