package bridge

import (
	"github.com/gofrs/uuid"

	"github.com/wippyai/lua-bridge/engine"
	"github.com/wippyai/lua-bridge/errors"
)

// session is the shared owner of one interpreter. All handles, values,
// refs and exposed functions of a lineage point at the same session; the
// generation counter decides which single handle is currently live.
type session struct {
	id  uuid.UUID
	eng *engine.Engine
	gen uint64
}

// State is a handle to an interpreter at a point in its lineage. Every
// mutating operation consumes the handle it is called on and returns the
// single valid successor; using a consumed or closed handle fails with
// stale_state. Read operations validate the handle without consuming it.
//
// A lineage must be driven from one goroutine at a time. The handle
// performs no locking; this is a documented precondition, matching the
// synchronous single-threaded execution model.
type State struct {
	sess *session
	gen  uint64
}

// Options controls interpreter creation. The zero value opens the guest
// standard library with default interpreter sizing.
type Options struct {
	SkipStdLib    bool
	RegistrySize  int
	CallStackSize int
}

// Init creates a fresh interpreter and returns its first handle.
func Init() *State {
	return InitWith(Options{})
}

// InitWith creates a fresh interpreter with explicit options.
func InitWith(opts Options) *State {
	sess := &session{
		id: uuid.Must(uuid.NewV4()),
		eng: engine.New(engine.Config{
			SkipStdLib:    opts.SkipStdLib,
			RegistrySize:  opts.RegistrySize,
			CallStackSize: opts.CallStackSize,
		}),
	}
	Logger().Debug("session created", logSession(sess.id))
	return &State{sess: sess}
}

// Close releases the interpreter. Every handle, value and ref of the
// lineage is stale afterwards. Close consumes the handle; closing through
// a stale handle fails with stale_state.
func (s *State) Close() error {
	if err := s.use(); err != nil {
		return err
	}
	s.advance()
	s.sess.eng.Close()
	Logger().Debug("session closed", logSession(s.sess.id))
	return nil
}

// SessionID returns the stable identity of the underlying interpreter,
// shared by every handle in the lineage. It stays readable after the
// handle goes stale.
func (s *State) SessionID() string {
	if s == nil || s.sess == nil {
		return ""
	}
	return s.sess.id.String()
}

// use validates that the handle is the live one.
func (s *State) use() error {
	if s == nil || s.sess == nil {
		return errors.StaleState("nil state handle")
	}
	if s.sess.eng.Closed() {
		return errors.StaleState("interpreter closed")
	}
	if s.gen != s.sess.gen {
		return errors.StaleState("handle already consumed")
	}
	return nil
}

// advance consumes the live handle. The successor minted afterwards is
// the only handle that will validate.
func (s *State) advance() {
	s.sess.gen++
}

// successor returns the live handle for the session. Minted after the
// operation body so re-entrant host calls that advanced the lineage are
// absorbed into the returned handle.
func (s *State) successor() *State {
	return &State{sess: s.sess, gen: s.sess.gen}
}

// live mints the currently-live handle for a session. Used when the guest
// calls back into an exposed host function.
func live(sess *session) *State {
	return &State{sess: sess, gen: sess.gen}
}

// checkOwned rejects values that belong to another lineage or were never
// produced by one.
func (s *State) checkOwned(phase errors.Phase, v Value) error {
	if v.lv == nil || v.tag == TagInvalid {
		return errors.New(phase, errors.KindDecodeFailure).
			Detail("zero value handle").
			Build()
	}
	if v.sess != s.sess {
		return errors.StaleState("value belongs to a different interpreter")
	}
	return nil
}
