package bridge

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// HostFunc is a host closure callable from guest code. It receives the
// live handle as of the moment the guest invokes it and must return the
// live successor reflecting everything it did, including re-entrant
// bridge calls. Returning an error aborts the guest call; the error
// surfaces from the enclosing bridge operation with its kind intact
// unless guest code intercepts it with pcall.
type HostFunc func(*State, []Value) ([]Value, *State, error)

// Expose wraps fn as a guest-callable function value. The value can be
// bound into guest tables with Set, passed as an argument, or called
// directly; the guest cannot tell it apart from one of its own
// functions. Expose consumes the handle.
func (s *State) Expose(fn HostFunc) (Value, *State, error) {
	if err := s.use(); err != nil {
		return Value{}, nil, err
	}
	s.advance()

	sess := s.sess
	lfn := sess.eng.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]Value, 0, n)
		for i := 1; i <= n; i++ {
			args = append(args, wrap(sess, L.Get(i)))
		}

		results, next, err := fn(live(sess), args)
		if err != nil {
			sess.eng.AbortHost(L, hostError(err))
			return 0
		}
		if next == nil || next.sess != sess || next.gen != sess.gen {
			sess.eng.AbortHost(L, errors.StaleState("host function returned a stale state handle"))
			return 0
		}
		for _, rv := range results {
			if rv.lv == nil || rv.tag == TagInvalid {
				sess.eng.AbortHost(L, errors.New(errors.PhaseHost, errors.KindDecodeFailure).
					Detail("host function returned a zero value handle").
					Build())
				return 0
			}
			if rv.sess != sess {
				sess.eng.AbortHost(L, errors.StaleState("host function returned a foreign value"))
				return 0
			}
		}
		for _, rv := range results {
			L.Push(rv.lv)
		}
		return len(results)
	})

	return Value{sess: sess, lv: lfn, tag: TagFunction}, s.successor(), nil
}

// hostError normalizes a host failure for transport across guest frames.
// Structured errors pass through untouched so their kind survives.
func hostError(err error) *errors.Error {
	if be, ok := err.(*errors.Error); ok {
		return be
	}
	return errors.Wrap(errors.PhaseHost, errors.KindRuntime, err, "host function failed")
}
