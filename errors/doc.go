// Package errors provides structured error types for the lua-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: key path, source location, expected/observed
// tags, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindDecodeFailure).
//		Path("config", "port").
//		Tags("int", "string").
//		Detail("port must be numeric").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DecodeFailure("int", "string")
//	err := errors.UndefinedPath(errors.PhasePath, []string{"a", "b"})
//
// All errors implement the standard error interface and support errors.Is/As.
// Kinds map one to one onto the failure cases callers are expected to branch
// on: syntax, runtime, undefined_path, invalid_path, decode_failure, io, and
// stale_state for lifecycle violations.
package errors
