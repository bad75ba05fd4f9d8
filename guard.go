package guard

import "sync/atomic"

// Guard owns a single zero-argument cleanup action and fires it exactly once.
//
// A Guard has two states, armed and fired. Construction arms it; the first
// call to Run fires it; the transition is irreversible and there are no other
// states. Every constructed Guard eventually fires when its trigger runs -
// there is no way to neutralize one.
//
// The zero value is an armed guard with no action; firing it is a no-op.
// Construct guards with New or one of the adapter constructors.
type Guard struct {
	action func()
	fired  atomic.Bool
}

// New creates an armed Guard owning action.
//
// The action is stored, not invoked - construction has no observable side
// effect. A nil action is permitted and makes firing a no-op.
//
// The canonical declaration is a single defer statement at the acquisition
// site:
//
//	g := guard.New(func() { release(handle) })
//	defer g.Run()
//
// or, without naming the guard, guard.On.
func New(action func()) *Guard {
	return &Guard{action: action}
}

// Run fires the guard's action if it has not fired yet.
//
// The first call invokes the action exactly once; every later call is a
// no-op. If the action panics, the panic is recovered and discarded at the
// guard boundary: Run never panics, regardless of what the action does.
// Teardown-time failures have no well-defined place to go when the stack is
// already unwinding, so the guard drops them rather than let them compete
// with the control-flow event that triggered it.
//
// The action's outcome is not inspected and nothing is retried.
func (g *Guard) Run() {
	if !g.fired.CompareAndSwap(false, true) {
		return
	}
	if g.action == nil {
		return
	}
	defer func() {
		// Failures raised during teardown stop here.
		_ = recover()
	}()
	g.action()
}

// Fired reports whether the guard's action has already run (or been consumed
// by a nil-action fire).
func (g *Guard) Fired() bool {
	return g.fired.Load()
}

// On arms a guard for action and returns its trigger, for single-statement
// declaration without a named binding:
//
//	defer guard.On(func() { f.Close() })()
//
// The returned func is (*Guard).Run on a fresh guard and carries the same
// exactly-once and failure-suppression guarantees.
func On(action func()) func() {
	return New(action).Run
}
