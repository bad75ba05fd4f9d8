// Package harness executes guard conformance scenarios against the real
// guard package.
//
// A scenario (see internal/scenario) describes one lexical block: guard
// declarations, variable mutations, and an exit mode. The harness builds
// that block with a live guard.Scope, wires each declared action to a trace
// recorder, leaves the block the declared way, and checks the observable
// outcome against the scenario's expect section.
//
// # Determinism
//
// Everything in a run is deterministic:
//
//   - Trace events are stamped by a logical clock, never wall time.
//   - Run tokens come from the scenario (run_token) or from a pluggable
//     generator; tests pin them, production runs get UUIDv7.
//   - Steps execute in declaration order on a single goroutine.
//
// Identical scenarios therefore produce byte-identical trace snapshots,
// which is what golden-file comparison (RunWithGolden) relies on.
//
// # What a run exercises
//
// The harness does not simulate the guard semantics it checks. Failing
// actions really panic and are really suppressed at the guard boundary;
// panic exits really unwind through Scope.Exit. If suppression or LIFO
// ordering broke in the guard package, scenario runs would fail - later
// guards would not fire, or the block's caller would see a teardown panic.
package harness
