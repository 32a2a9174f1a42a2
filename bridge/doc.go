// Package bridge provides the public embedding surface: explicit state
// handles, tagged values, path accessors, chunks, calls and host function
// exposure over an embedded Lua interpreter.
//
// # State Threading
//
// Init returns the first handle of a lineage. Every mutating operation
// consumes the handle it is called on and returns the one valid
// successor:
//
//	st := bridge.Init()
//	v, st, err := st.EncodeInt(42)
//	st, err = st.Set(bridge.KeyPath{"answer"}, v)
//
// Using a consumed handle fails with stale_state rather than behaving
// unpredictably; the one exception a caller needs to know is that read
// operations (Get, RefGet, Globals) validate without consuming. There is exactly
// one live handle per interpreter at any time, which is what makes the
// mutation points of a program explicit in its data flow.
//
// # Values
//
// Values are tagged handles: nil, bool, int, float, string, table,
// function, ref. Primitives decode through the As accessors with strict
// tag matching; int and float never convert silently in either
// direction. Tables walk through Entries or convert wholesale with
// Interface. Functions and refs stay opaque.
//
// # Host Functions
//
// Expose turns a HostFunc into a guest-callable value. Inside the
// closure the handle threading continues seamlessly: the closure
// receives the live handle, may re-enter the bridge, and returns the
// successor. Structured errors returned by a closure surface from the
// enclosing bridge operation with their kind intact.
//
// # Concurrency
//
// A lineage is single-threaded by contract. Handles perform no locking;
// driving one interpreter from several goroutines is a caller bug even
// when every operation uses the live handle.
package bridge
