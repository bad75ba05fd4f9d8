package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoSideEffectAtConstruction(t *testing.T) {
	ran := false
	g := New(func() { ran = true })

	assert.False(t, ran, "construction must not invoke the action")
	assert.False(t, g.Fired(), "new guard should be armed")
}

func TestGuard_RunFiresExactlyOnce(t *testing.T) {
	count := 0
	g := New(func() { count++ })

	g.Run()
	g.Run()
	g.Run()

	assert.Equal(t, 1, count, "action must fire exactly once")
	assert.True(t, g.Fired())
}

func TestGuard_NilActionIsNoop(t *testing.T) {
	g := New(nil)

	assert.NotPanics(t, func() { g.Run() })
	assert.True(t, g.Fired(), "nil-action guard still transitions to fired")
}

func TestGuard_SuppressesActionPanic(t *testing.T) {
	g := New(func() { panic("teardown failure") })

	assert.NotPanics(t, func() { g.Run() }, "action panics must not escape Run")
	assert.True(t, g.Fired(), "guard is fired even when the action fails")

	// The failed action is never retried.
	assert.NotPanics(t, func() { g.Run() })
}

// Scenario: the enclosing function's return value is what the caller
// observes, even when the guard's action blows up during teardown.
func TestGuard_ReturnValueSurvivesActionFailure(t *testing.T) {
	n := 5

	fn := func() int {
		defer New(func() { _ = 10 / n }).Run()
		n = 0 // the action will divide by zero
		return 42
	}

	var got int
	require.NotPanics(t, func() { got = fn() })
	assert.Equal(t, 42, got, "caller observes the original return value")
}

func TestGuard_FiresOnEarlyReturn(t *testing.T) {
	fired := false

	fn := func(fail bool) error {
		defer New(func() { fired = true }).Run()
		if fail {
			return assert.AnError
		}
		return nil
	}

	err := fn(true)
	assert.Error(t, err)
	assert.True(t, fired, "guard fires before control returns to the caller")
}

func TestGuard_FiresDuringPanicUnwind(t *testing.T) {
	fired := false

	fn := func() {
		defer New(func() { fired = true }).Run()
		panic("in-flight failure")
	}

	// The original panic propagates; the guard fires on the way out.
	assert.PanicsWithValue(t, "in-flight failure", fn)
	assert.True(t, fired)
}

// A guard whose action also panics must not mask the panic already
// unwinding the stack.
func TestGuard_ActionFailureDoesNotMaskInFlightPanic(t *testing.T) {
	fn := func() {
		defer New(func() { panic("teardown failure") }).Run()
		panic("original failure")
	}

	assert.PanicsWithValue(t, "original failure", fn,
		"the caller observes the original panic, not the teardown one")
}

func TestGuard_LiveCapture(t *testing.T) {
	var observed int
	x := 1

	g := New(func() { observed = x })
	x = 99
	g.Run()

	assert.Equal(t, 99, observed, "action sees the final value, not a declaration-time snapshot")
}

func TestGuard_DeferLIFOWithinFunction(t *testing.T) {
	var log []string

	func() {
		defer New(func() { log = append(log, "A") }).Run()
		defer New(func() { log = append(log, "B") }).Run()
	}()

	assert.Equal(t, []string{"B", "A"}, log, "last declared fires first")
}

func TestOn_SingleStatementDeclaration(t *testing.T) {
	var log []string

	func() {
		defer On(func() { log = append(log, "A") })()
		defer On(func() { log = append(log, "B") })()
	}()

	assert.Equal(t, []string{"B", "A"}, log)
}

func TestOn_TriggerIsExactlyOnce(t *testing.T) {
	count := 0
	run := On(func() { count++ })

	run()
	run()

	assert.Equal(t, 1, count)
}
