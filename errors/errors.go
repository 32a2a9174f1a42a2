package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile Phase = "compile" // source to chunk
	PhaseRun     Phase = "run"     // chunk execution
	PhaseCall    Phase = "call"    // function invocation
	PhasePath    Phase = "path"    // table path resolution
	PhaseEncode  Phase = "encode"  // host to guest
	PhaseDecode  Phase = "decode"  // guest to host
	PhaseHost    Phase = "host"    // host function bridging
	PhaseState   Phase = "state"   // handle lifecycle
)

// Kind categorizes the error
type Kind string

const (
	KindSyntax        Kind = "syntax"
	KindRuntime       Kind = "runtime"
	KindUndefinedPath Kind = "undefined_path"
	KindInvalidPath   Kind = "invalid_path"
	KindDecodeFailure Kind = "decode_failure"
	KindIO            Kind = "io"
	KindStaleState    Kind = "stale_state"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Path      []string // key path, for path resolution errors
	Source    string   // chunk name, for syntax errors
	Line      int
	Column    int
	Expected  string // expected tag, for decode failures
	Observed  string // observed tag, for decode failures
	File      string // filesystem path, for io errors
	Traceback string // guest stack trace, for runtime errors
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	} else if e.Source != "" || e.Line > 0 {
		b.WriteString(" at ")
		b.WriteString(e.Source)
		b.WriteString(fmt.Sprintf(":%d:%d", e.Line, e.Column))
	}

	if e.Expected != "" || e.Observed != "" {
		b.WriteString(": ")
		if e.Expected != "" && e.Observed != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
			b.WriteString(", got ")
			b.WriteString(e.Observed)
		} else if e.Expected != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Observed)
		}
	}

	if e.Detail != "" {
		if e.Expected != "" || e.Observed != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	if e.Traceback != "" {
		b.WriteByte('\n')
		b.WriteString(e.Traceback)
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. An empty Phase or Kind
// on the target acts as a wildcard, so a sentinel like
// &Error{Kind: KindSyntax} matches any syntax error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	if t.Kind != "" && t.Kind != e.Kind {
		return false
	}
	return true
}

// KindOf returns the kind of err if it is a bridge error, or "" otherwise
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err is a bridge error of the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the key path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Tags sets the expected and observed tags for decode failures
func (b *Builder) Tags(expected, observed string) *Builder {
	b.err.Expected = expected
	b.err.Observed = observed
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Syntax creates a syntax error with its source location
func Syntax(source string, line, column int, detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindSyntax,
		Source: source,
		Line:   line,
		Column: column,
		Detail: detail,
		Cause:  cause,
	}
}

// Runtime creates a runtime error carrying the guest message and traceback
func Runtime(phase Phase, message, traceback string) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindRuntime,
		Detail:    message,
		Traceback: traceback,
	}
}

// UndefinedPath creates an error for a path that resolves to nothing
func UndefinedPath(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefinedPath,
		Path:   path,
		Detail: "no value defined",
	}
}

// PathCollision creates an error for a path blocked by a non-table value.
// The path holds the prefix up to and including the blocking key.
func PathCollision(phase Phase, path []string, key, tag string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUndefinedPath,
		Path:   path,
		Detail: fmt.Sprintf("%q holds a %s, not a table", key, tag),
	}
}

// NotCallable creates an error for a path whose value cannot be called
func NotCallable(path []string, tag string) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindUndefinedPath,
		Path:   path,
		Detail: fmt.Sprintf("value is a %s, not callable", tag),
	}
}

// InvalidPath creates an error for a structurally malformed path
func InvalidPath(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidPath,
		Detail: detail,
	}
}

// DecodeFailure creates a tag mismatch error during value extraction
func DecodeFailure(expected, observed string) *Error {
	return &Error{
		Phase:    PhaseDecode,
		Kind:     KindDecodeFailure,
		Expected: expected,
		Observed: observed,
	}
}

// IO creates a filesystem error for the given path
func IO(phase Phase, file string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		File:   file,
		Detail: fmt.Sprintf("read %s", file),
		Cause:  cause,
	}
}

// StaleState creates an error for use of a consumed or closed handle
func StaleState(detail string) *Error {
	return &Error{
		Phase:  PhaseState,
		Kind:   KindStaleState,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
