package guard

import "sync/atomic"

// Scope is an explicit LIFO stack of guards for lexical blocks narrower than
// a function body.
//
// Go's defer statement is function-scoped: a guard deferred inside a block
// (a loop body, a branch arm) would not fire until the whole function
// returns. A Scope restores block-level lifetime: declare the scope at the
// top of the block, defer its Exit, and register cleanups as the block
// acquires resources.
//
//	for _, job := range jobs {
//	    s := guard.NewScope()
//	    tmp := stage(job)
//	    s.Defer(func() { os.RemoveAll(tmp) })
//	    // ... work with tmp ...
//	    s.Exit()
//	}
//
// Guards fire in strict reverse declaration order - last declared, first
// fired - matching nested-resource teardown. Each guard fires with the usual
// failure suppression, so one failing action never prevents the rest of the
// stack from unwinding.
//
// A Scope is confined to the goroutine that declared it. Exit is idempotent
// via the same atomic transition guards use, but that is misuse protection,
// not a concurrency feature.
type Scope struct {
	guards []*Guard
	exited atomic.Bool
}

// NewScope creates an empty scope.
func NewScope() *Scope {
	return &Scope{}
}

// Defer arms a guard for action and pushes it onto the scope's teardown
// stack. The returned guard is the one Exit will fire; callers normally
// ignore it, tests can observe its state.
//
// Registering a guard after Exit has run is a caller error: the scope has
// ended, and the late guard will never fire.
func (s *Scope) Defer(action func()) *Guard {
	g := New(action)
	s.guards = append(s.guards, g)
	return g
}

// Exit fires every registered guard in reverse declaration order.
//
// The first call performs the teardown; later calls are no-ops. Exit never
// panics: each guard suppresses its own action's failure, so the unwind
// always reaches the bottom of the stack.
//
// Intended use is a single defer at scope creation, which covers every exit
// path including panics:
//
//	s := guard.NewScope()
//	defer s.Exit()
func (s *Scope) Exit() {
	if !s.exited.CompareAndSwap(false, true) {
		return
	}
	for i := len(s.guards) - 1; i >= 0; i-- {
		s.guards[i].Run()
	}
}

// Len returns the number of guards declared in the scope.
func (s *Scope) Len() int {
	return len(s.guards)
}

// Block runs fn with a fresh scope and guarantees the scope's exit.
//
// Teardown runs on every way out of fn: normal return or panic. A panic from
// fn itself is not suppressed - it propagates to the caller after the
// scope's guards have fired, mirroring stack unwinding. Only panics from
// guard actions are swallowed.
func Block(fn func(*Scope)) {
	s := NewScope()
	defer s.Exit()
	fn(s)
}
