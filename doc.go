// Package guard provides scope-exit execution guards: containers for a single
// cleanup action that runs exactly once, automatically, when control leaves
// the block that declared it - by fall-through, early return, or panic.
//
// The core type is [Guard]. A guard is declared in a single statement at the
// point where a resource is acquired, so the cleanup reads next to the
// acquisition instead of being duplicated at every exit path:
//
//	f, err := os.Open(path)
//	if err != nil {
//	    return err
//	}
//	defer guard.On(func() { f.Close() })()
//
// Go's defer statement is the deterministic finalization facility the guard
// relies on: it fires on every exit path and unwinds in LIFO order. What the
// guard adds on top:
//
//   - Exactly-once firing. A Guard transitions armed -> fired exactly once,
//     no matter how many trigger paths reach it.
//   - Failure suppression. A panic raised by the action is caught at the
//     guard boundary and discarded. Teardown never escalates into
//     termination and never masks an error already unwinding the stack.
//     The caller observes the original return value or panic, untouched.
//   - Block-level scoping. defer is function-scoped; [Scope] provides an
//     explicit LIFO guard stack for blocks narrower than a function body,
//     and [Block] runs a function with a scope whose exit is guaranteed.
//
// Actions are ordinary closures, so they capture enclosing variables by
// reference: an action observes the final value of a captured variable at
// exit time, not a snapshot taken at declaration time. This is what makes
// the handle-assigned-later pattern work:
//
//	var tx *sql.Tx
//	defer guard.On(func() {
//	    if tx != nil {
//	        tx.Rollback()
//	    }
//	})()
//	tx, err = db.Begin()
//
// CONCURRENCY MODEL:
//
// Guards are lexical and single-threaded by design. A guard belongs to the
// goroutine that declared it; nothing in this package shares a guard's
// firing across goroutines. The armed -> fired transition is atomic purely
// so that misuse cannot double-fire an action, not to enable concurrent use.
//
// There is no cancel or dismiss operation: once declared, a guard's action
// will run. Callers that need conditional cleanup encode the condition
// inside the action, as in the rollback example above.
package guard
