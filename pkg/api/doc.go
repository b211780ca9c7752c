// Package api contains the core types shared by the canvas packages: step
// kinds and step records, the input provider used while building steps, the
// error values surfaced by list operations, and the Observer hooks.
//
// Most users interact with the higher-level canvas package, which re-exports
// selected types and helpers from this package.
//
// # Steps
//
// A Step is a tagged record. Its Kind decides which payload it carries:
//
//   - get-data, create-update-data, perform-calculation: no payload
//   - if-condition, else-if-condition, else-condition, while-loop: Condition
//   - for-loop: Iterations (always >= 1)
//
// Steps also carry an ID assigned when they are created. IDs label a step for
// display; they are not unique and are never used to address a step. Moves
// and deletes address steps by their current position in the list.
//
// # Input
//
// Steps that need a payload ask an InputProvider once. A cancelled or empty
// answer is not an error; it is replaced by the kind's default
// (DefaultCondition, DefaultWhileCondition, DefaultIterations).
//
// # Errors
//
// List operations report ErrIndexOutOfRange (wrapped in *IndexError) and
// ErrMalformedData. Both leave the list untouched; check them with errors.Is.
//
// # Observability
//
// The Observer interface reports list mutations and persistence events.
// LoggingObserver writes them to a log/slog logger and BasicMetrics keeps
// in-memory counters; combine them with NewCompositeObserver.
package api
