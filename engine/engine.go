package engine

import (
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/wippyai/lua-bridge/errors"
)

// hostAbortMarker prefixes the guest error value raised by AbortHost.
// Each abort appends its own sequence number, so only the exact marker in
// flight recovers the stashed host error; guest code raising the bare
// prefix stays an ordinary runtime error.
const hostAbortMarker = "lua-bridge: uncaught host error"

// Config controls interpreter creation. The zero value opens the full
// standard library with gopher-lua's default stack and registry sizes.
type Config struct {
	SkipStdLib    bool // leave the guest environment without standard libraries
	RegistrySize  int
	CallStackSize int
}

// Engine owns a single gopher-lua interpreter and translates its failures
// into the bridge error taxonomy. It performs raw operations only; handle
// threading and value tagging live in the bridge package.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	state    *lua.LState
	pending  *errors.Error // host error in flight across the guest boundary
	marker   string        // guest error value the pending abort was raised with
	abortSeq uint64
	closed   bool
}

// New creates an interpreter with its own isolated global environment.
func New(cfg Config) *Engine {
	L := lua.NewState(lua.Options{
		SkipOpenLibs:  cfg.SkipStdLib,
		RegistrySize:  cfg.RegistrySize,
		CallStackSize: cfg.CallStackSize,
	})
	debugf("engine: new interpreter (stdlib=%v)", !cfg.SkipStdLib)
	return &Engine{state: L}
}

// Close releases the interpreter. Further operations fail with stale_state.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.state.Close()
	debugf("engine: closed")
}

// Closed reports whether Close has been called.
func (e *Engine) Closed() bool {
	return e.closed
}

// Compile parses and compiles source without executing it. The returned
// prototype is immutable and can be instantiated any number of times.
func (e *Engine) Compile(source, name string) (*lua.FunctionProto, error) {
	stmts, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, classifyParse(name, err)
	}
	proto, err := lua.Compile(stmts, name)
	if err != nil {
		return nil, classifyParse(name, err)
	}
	debugf("engine: compiled %q (%d statements)", name, len(stmts))
	return proto, nil
}

// CompileFile reads and compiles the script at path. Read failures are
// reported as io errors carrying the path; they are never folded into
// syntax classification.
func (e *Engine) CompileFile(path string) (*lua.FunctionProto, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseCompile, path, err)
	}
	return e.Compile(string(src), path)
}

// RunProto instantiates a compiled chunk and executes it, returning all
// values the chunk returns.
func (e *Engine) RunProto(proto *lua.FunctionProto) ([]lua.LValue, error) {
	return e.protectedCall(errors.PhaseRun, e.state.NewFunctionFromProto(proto), nil)
}

// Call invokes a callable guest value with the given arguments and returns
// all results in order.
func (e *Engine) Call(fn lua.LValue, args []lua.LValue) ([]lua.LValue, error) {
	return e.protectedCall(errors.PhaseCall, fn, args)
}

// protectedCall pushes fn and args, runs a protected call, and collects
// every returned value. The stack is restored on all paths.
func (e *Engine) protectedCall(phase errors.Phase, fn lua.LValue, args []lua.LValue) ([]lua.LValue, error) {
	L := e.state
	e.pending = nil
	e.marker = ""

	base := L.GetTop()
	L.Push(fn)
	for _, a := range args {
		L.Push(a)
	}
	if err := L.PCall(len(args), lua.MultRet, nil); err != nil {
		L.SetTop(base)
		return nil, e.classify(phase, err)
	}

	top := L.GetTop()
	results := make([]lua.LValue, 0, top-base)
	for i := base + 1; i <= top; i++ {
		results = append(results, L.Get(i))
	}
	L.SetTop(base)
	return results, nil
}

// NewTable allocates an empty guest table.
func (e *Engine) NewTable() *lua.LTable {
	return e.state.NewTable()
}

// Globals returns the interpreter's global table, the root that path
// resolution starts from.
func (e *Engine) Globals() *lua.LTable {
	return e.state.G.Global
}

// NewFunction wraps a Go function as a guest-callable value.
func (e *Engine) NewFunction(fn lua.LGFunction) *lua.LFunction {
	return e.state.NewFunction(fn)
}

// Callable reports whether v can be invoked: a function, or any value
// whose metatable carries __call.
func (e *Engine) Callable(v lua.LValue) bool {
	if v.Type() == lua.LTFunction {
		return true
	}
	return e.state.GetMetaField(v, "__call") != lua.LNil
}

// AbortHost stashes err and aborts the guest call currently running on L.
// It must only be called from inside a host function invoked by the guest;
// it does not return. The enclosing bridge operation recovers err intact
// unless guest code intercepts the abort with pcall.
func (e *Engine) AbortHost(L *lua.LState, err *errors.Error) {
	e.abortSeq++
	e.pending = err
	e.marker = fmt.Sprintf("%s #%d", hostAbortMarker, e.abortSeq)
	debugf("engine: aborting guest call: %v", err)
	L.Error(lua.LString(e.marker), 0)
}

// classify maps a protected-call failure onto the taxonomy. Host errors
// tunneled through the guest error channel are returned unchanged.
func (e *Engine) classify(phase errors.Phase, err error) error {
	apiErr, ok := err.(*lua.ApiError)
	if !ok {
		return errors.Wrap(phase, errors.KindRuntime, err, "guest execution failed")
	}

	switch apiErr.Type {
	case lua.ApiErrorSyntax:
		return classifyParse("", apiErr.Cause)
	case lua.ApiErrorFile:
		return errors.IO(phase, apiErr.Object.String(), apiErr.Cause)
	default:
		if e.pending != nil {
			if s, ok := apiErr.Object.(lua.LString); ok && string(s) == e.marker {
				p := e.pending
				e.pending = nil
				e.marker = ""
				return p
			}
		}
		return errors.Runtime(phase, apiErr.Object.String(), apiErr.StackTrace)
	}
}

// classifyParse converts a parser failure into a syntax error carrying the
// reported source position.
func classifyParse(name string, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(*parse.Error); ok {
		return errors.Syntax(pe.Pos.Source, pe.Pos.Line, pe.Pos.Column, pe.Message, pe)
	}
	return errors.Syntax(name, 0, 0, err.Error(), err)
}
