package bridge

import (
	"github.com/wippyai/lua-bridge/errors"
)

// KeyPath addresses a value by successive string keys starting at the
// guest's global table. A path must contain at least one key; the empty
// path is invalid_path on every operation that takes one.
type KeyPath []string

// Globals returns the guest's global table as a table value. It is the
// root every KeyPath resolves from, so walking its Entries enumerates
// everything reachable by path. Globals does not consume the handle.
func (s *State) Globals() (Value, error) {
	if err := s.use(); err != nil {
		return Value{}, err
	}
	return wrap(s.sess, s.sess.eng.Globals()), nil
}

// Get resolves path and returns the value found there. Resolution walks
// left to right; a key that is absent or holds nil fails with
// undefined_path, and the two cases are indistinguishable, matching guest
// table semantics. Get does not consume the handle.
func (s *State) Get(path KeyPath) (Value, error) {
	if err := s.use(); err != nil {
		return Value{}, err
	}
	lv, err := s.sess.eng.ResolvePath(errors.PhasePath, path)
	if err != nil {
		return Value{}, err
	}
	return wrap(s.sess, lv), nil
}

// RefGet resolves path and returns an opaque reference to the value
// without decoding it. Resolution failures match Get.
func (s *State) RefGet(path KeyPath) (Ref, error) {
	if err := s.use(); err != nil {
		return Ref{}, err
	}
	lv, err := s.sess.eng.ResolvePath(errors.PhasePath, path)
	if err != nil {
		return Ref{}, err
	}
	return Ref{sess: s.sess, lv: lv}, nil
}

// Set assigns v at path, creating missing intermediate tables along the
// way. The final key is overwritten unconditionally, whatever it held.
// An existing non-table intermediate fails with undefined_path naming the
// blocking prefix, and nothing is created in that case. Set consumes the
// handle.
func (s *State) Set(path KeyPath, v Value) (*State, error) {
	if err := s.use(); err != nil {
		return nil, err
	}
	s.advance()
	if err := s.checkOwned(errors.PhasePath, v); err != nil {
		return s.successor(), err
	}
	if err := s.sess.eng.AssignPath(path, v.lv); err != nil {
		return s.successor(), err
	}
	return s.successor(), nil
}
