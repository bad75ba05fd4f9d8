package guard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScope_ExitFiresLIFO(t *testing.T) {
	var log []string

	s := NewScope()
	for _, label := range []string{"G1", "G2", "G3"} {
		s.Defer(func() { log = append(log, label) })
	}
	s.Exit()

	assert.Equal(t, []string{"G3", "G2", "G1"}, log, "reverse declaration order")
}

func TestScope_ExitIsIdempotent(t *testing.T) {
	count := 0

	s := NewScope()
	s.Defer(func() { count++ })
	s.Exit()
	s.Exit()

	assert.Equal(t, 1, count, "second Exit must not refire guards")
}

func TestScope_ExitWithNoGuards(t *testing.T) {
	s := NewScope()
	assert.NotPanics(t, func() { s.Exit() })
}

func TestScope_DeferReturnsObservableGuard(t *testing.T) {
	s := NewScope()
	g := s.Defer(func() {})

	require.NotNil(t, g)
	assert.False(t, g.Fired(), "guard is armed until the scope exits")

	s.Exit()
	assert.True(t, g.Fired())
}

func TestScope_Len(t *testing.T) {
	s := NewScope()
	assert.Equal(t, 0, s.Len())

	s.Defer(func() {})
	s.Defer(func() {})
	assert.Equal(t, 2, s.Len())
}

func TestScope_FailingActionDoesNotStopUnwind(t *testing.T) {
	var log []string

	s := NewScope()
	s.Defer(func() { log = append(log, "bottom") })
	s.Defer(func() { panic("middle failure") })
	s.Defer(func() { log = append(log, "top") })

	require.NotPanics(t, func() { s.Exit() })
	assert.Equal(t, []string{"top", "bottom"}, log,
		"guards below a failing one still fire")
}

func TestScope_BlockNarrowerThanFunction(t *testing.T) {
	var log []string

	// Per-iteration scopes tear down inside the loop body, which a plain
	// defer cannot do.
	for i := 0; i < 3; i++ {
		s := NewScope()
		s.Defer(func() { log = append(log, fmt.Sprintf("exit-%d", i)) })
		log = append(log, fmt.Sprintf("body-%d", i))
		s.Exit()
	}

	assert.Equal(t, []string{
		"body-0", "exit-0",
		"body-1", "exit-1",
		"body-2", "exit-2",
	}, log)
}

func TestBlock_ExitsOnNormalReturn(t *testing.T) {
	var log []string

	Block(func(s *Scope) {
		s.Defer(func() { log = append(log, "A") })
		s.Defer(func() { log = append(log, "B") })
		log = append(log, "body")
	})

	assert.Equal(t, []string{"body", "B", "A"}, log)
}

func TestBlock_ExitsOnPanicAndPropagates(t *testing.T) {
	fired := false

	fn := func() {
		Block(func(s *Scope) {
			s.Defer(func() { fired = true })
			panic("block failure")
		})
	}

	assert.PanicsWithValue(t, "block failure", fn,
		"the block's own panic is not suppressed")
	assert.True(t, fired, "teardown runs before the panic propagates")
}

func TestScope_LiveCaptureAcrossMutation(t *testing.T) {
	var observed string
	state := "initial"

	s := NewScope()
	s.Defer(func() { observed = state })
	state = "final"
	s.Exit()

	assert.Equal(t, "final", observed)
}
