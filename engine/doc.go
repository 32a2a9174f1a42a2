// Package engine provides the low-level adapter over the gopher-lua
// interpreter.
//
// This package wraps a single *lua.LState and exposes raw operations on
// it: compiling source to reusable prototypes, protected execution and
// calls, raw path resolution and assignment on the global table, and the
// host-error channel used to carry structured errors across guest frames.
//
// # Architecture
//
// The engine sits between the interpreter and the bridge package:
//
//	Engine        - owns the *lua.LState, classifies interpreter failures
//	ResolvePath   - raw left-to-right walk from the global table
//	AssignPath    - raw write with auto-vivification of intermediates
//	AbortHost     - raises a marker the enclosing call recognizes
//
// Every failure leaving this package is already classified into the
// bridge taxonomy: parser errors become syntax errors with a source
// position, missing files become io errors, and guest raises become
// runtime errors with the interpreter's message and stack trace intact.
//
// # Host Error Tunneling
//
// A host function that fails calls AbortHost, which stashes the
// structured error and raises a per-abort sentinel value inside the
// guest. When the enclosing protected call fails with that exact
// sentinel, classification returns the stashed error unchanged instead of
// wrapping the sentinel as a runtime error. Guest code that intercepts
// the sentinel with pcall keeps control; the stash is cleared on the next
// protected call.
//
// # Thread Safety
//
// Engine is NOT safe for concurrent use. The bridge package enforces a
// single live handle per interpreter; callers provide the corresponding
// single-goroutine discipline.
//
// Most users should use the bridge package rather than this one.
package engine
