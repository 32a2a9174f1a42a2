package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// Call invokes the referenced function with args and returns every
// result in order. The target may be guest-authored or host-exposed; the
// two are indistinguishable here. Call consumes the handle.
func (s *State) Call(fn Ref, args []Value) ([]Value, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	if fn.lv == nil {
		return nil, s.successor(), errors.New(errors.PhaseCall, errors.KindDecodeFailure).
			Detail("zero ref handle").
			Build()
	}
	if fn.sess != s.sess {
		return nil, s.successor(), errors.StaleState("ref belongs to a different interpreter")
	}
	return s.call(fn.lv, args)
}

// CallByName resolves path and invokes the value found there. A path
// that does not resolve, or resolves to something not callable, fails
// with undefined_path; values whose metatable carries __call count as
// callable. CallByName consumes the handle.
func (s *State) CallByName(path KeyPath, args []Value) ([]Value, *State, error) {
	if err := s.use(); err != nil {
		return nil, nil, err
	}
	s.advance()
	target, err := s.sess.eng.ResolvePath(errors.PhaseCall, path)
	if err != nil {
		return nil, s.successor(), err
	}
	if !s.sess.eng.Callable(target) {
		return nil, s.successor(), errors.NotCallable(path, classify(target).String())
	}
	return s.call(target, args)
}

// call marshals args, runs the protected call and wraps the results. The
// handle is already consumed; the successor is minted after the call so
// re-entrant host invocations are absorbed.
func (s *State) call(fn lua.LValue, args []Value) ([]Value, *State, error) {
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		if err := s.checkOwned(errors.PhaseCall, a); err != nil {
			return nil, s.successor(), err
		}
		largs[i] = a.lv
	}
	results, err := s.sess.eng.Call(fn, largs)
	if err != nil {
		return nil, s.successor(), err
	}
	return wrapAll(s.sess, results), s.successor(), nil
}
