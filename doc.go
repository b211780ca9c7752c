// Package canvas is the model behind a visual workflow editor: an ordered
// list of workflow steps that users build by dropping components from a
// palette, reorder by drag and drop, delete, and save for later.
//
// canvas covers the list and its rules. Rendering and gesture handling stay
// in the presentation layer, which talks to a Session.
//
// # Core Concepts
//
//  1. Step
//  2. Session
//  3. InputProvider
//  4. ByteStore
//  5. Codec
//
// # Step
//
// A Step is a tagged record. Eight kinds are available:
//
//   - get-data, create-update-data, perform-calculation
//   - if-condition, else-if-condition, else-condition (with a condition)
//   - for-loop (with an iteration count)
//   - while-loop (with a condition)
//
// Steps are created once and never edited. To change a step, delete it and
// drop a new one.
//
// # Session
//
// A Session owns the list for as long as a canvas is open:
//
//	s := canvas.NewSession(canvas.NewInMemoryStore())
//	s.Drop(ctx, canvas.KindGetData, nil)
//	s.Drop(ctx, canvas.KindForLoop, canvas.NewCannedInput("3"))
//	s.Move(ctx, 0, 1) // [for-loop, get-data]
//	s.Delete(ctx, 0)  // [get-data]
//	s.Save(ctx)
//
// Moves and deletes address steps by position. A move removes the step
// first and then inserts it at the target position of the shortened list;
// it is not a swap. Invalid positions fail with ErrIndexOutOfRange and leave
// the list unchanged.
//
// # InputProvider
//
// Conditions and loop counts come from an InputProvider, asked once per
// step. Cancelled or empty answers are not errors: conditions fall back to
// "No condition" (while loops to "true") and loop counts to 1.
//
// # ByteStore
//
// Saved workflows are opaque bytes under a key. Backends:
//
//   - In-memory (non-durable, best for tests)
//   - SQLite
//   - Postgres
//   - Redis
//   - MongoDB
//
// Any of them can be wrapped with NewCachedStore.
//
// # Codec
//
// The default encoding is a JSON array of {kind, id, payload} records;
// YAML is available for hand-edited exports. Loading malformed bytes fails
// with ErrMalformedData and keeps the current list.
package canvas
