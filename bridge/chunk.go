package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// sourceChunkName is the guest-visible name for chunks compiled from
// in-memory source, following the guest's own convention for unnamed
// loads.
const sourceChunkName = "<string>"

// Chunk is compiled guest source. Compilation has no side effects on the
// interpreter: a chunk holds only the immutable prototype, so it can be
// executed any number of times and each execution sees the state current
// at that moment.
type Chunk struct {
	proto *lua.FunctionProto
	name  string
}

// Name returns the guest-visible chunk name used in error positions and
// tracebacks.
func (c *Chunk) Name() string {
	return c.name
}

// Load compiles source without executing it. Malformed source fails with
// a syntax error carrying the reported position. Load consumes the
// handle.
func (s *State) Load(source string) (*Chunk, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	proto, err := s.sess.eng.Compile(source, sourceChunkName)
	if err != nil {
		return nil, s.successor(), err
	}
	return &Chunk{proto: proto, name: sourceChunkName}, s.successor(), nil
}

// Run compiles and executes source, returning every value the chunk
// returns, in order. Run consumes the handle.
func (s *State) Run(source string) ([]Value, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	proto, err := s.sess.eng.Compile(source, sourceChunkName)
	if err != nil {
		return nil, s.successor(), err
	}
	return s.runProto(proto)
}

// RunChunk executes a previously loaded chunk. The chunk stays valid for
// further executions. RunChunk consumes the handle.
func (s *State) RunChunk(c *Chunk) ([]Value, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	if c == nil || c.proto == nil {
		return nil, s.successor(), errors.New(errors.PhaseRun, errors.KindDecodeFailure).
			Detail("nil chunk").
			Build()
	}
	return s.runProto(c.proto)
}

// RunFile reads, compiles and executes the script at path. A read
// failure is an io error carrying the path; it is never folded into
// syntax or runtime classification. RunFile consumes the handle.
func (s *State) RunFile(path string) ([]Value, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	proto, err := s.sess.eng.CompileFile(path)
	if err != nil {
		return nil, s.successor(), err
	}
	return s.runProto(proto)
}

// runProto executes a prototype. The handle is already consumed; the
// successor is minted after execution so re-entrant host calls are
// absorbed.
func (s *State) runProto(proto *lua.FunctionProto) ([]Value, *State, error) {
	results, err := s.sess.eng.RunProto(proto)
	if err != nil {
		return nil, s.successor(), err
	}
	return wrapAll(s.sess, results), s.successor(), nil
}
