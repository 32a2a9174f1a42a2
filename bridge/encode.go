package bridge

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// EncodeNil produces the guest nil. Encode operations consume the handle
// and return the successor alongside the encoded value.
func (s *State) EncodeNil() (Value, *State, error) {
	return s.encode(lua.LNil, TagNil)
}

// EncodeBool produces a guest boolean.
func (s *State) EncodeBool(b bool) (Value, *State, error) {
	return s.encode(lua.LBool(b), TagBool)
}

// EncodeInt produces an int-tagged guest number. The guest stores all
// numbers as doubles, so magnitudes beyond 2^53 round in the guest
// representation; the handle stashes the exact integer and decodes back
// to it regardless.
func (s *State) EncodeInt(i int64) (Value, *State, error) {
	v, next, err := s.encode(lua.LNumber(i), TagInt)
	if err != nil {
		return Value{}, nil, err
	}
	v.ival, v.exact = i, true
	return v, next, nil
}

// EncodeFloat produces a float-tagged guest number. The tag is kept even
// for whole-valued floats, so EncodeFloat(2.0) never decodes as int.
func (s *State) EncodeFloat(f float64) (Value, *State, error) {
	return s.encode(lua.LNumber(f), TagFloat)
}

// EncodeString produces a guest string from raw bytes.
func (s *State) EncodeString(str string) (Value, *State, error) {
	return s.encode(lua.LString(str), TagString)
}

func (s *State) encode(lv lua.LValue, tag Tag) (Value, *State, error) {
	if err := s.use(); err != nil {
		return Value{}, nil, err
	}
	s.advance()
	return Value{sess: s.sess, lv: lv, tag: tag}, s.successor(), nil
}

// NewTable allocates an empty guest table.
func (s *State) NewTable() (Value, *State, error) {
	if err := s.use(); err != nil {
		return Value{}, nil, err
	}
	s.advance()
	tbl := s.sess.eng.NewTable()
	return Value{sess: s.sess, lv: tbl, tag: TagTable}, s.successor(), nil
}

// SetEntry assigns table[key] = value using raw access. The guest rejects
// nil and NaN keys; assigning a nil value removes the key, so a later get
// of it reports undefined_path like any absent entry.
func (s *State) SetEntry(table, key, value Value) (*State, error) {
	if err := s.use(); err != nil {
		return nil, err
	}
	s.advance()

	if err := s.checkOwned(errors.PhaseEncode, table); err != nil {
		return s.successor(), err
	}
	if table.tag != TagTable {
		return s.successor(), errors.New(errors.PhaseEncode, errors.KindDecodeFailure).
			Tags(TagTable.String(), table.tag.String()).
			Build()
	}
	if err := s.checkOwned(errors.PhaseEncode, key); err != nil {
		return s.successor(), err
	}
	if key.tag == TagNil {
		return s.successor(), errors.New(errors.PhaseEncode, errors.KindRuntime).
			Detail("table index is nil").
			Build()
	}
	if n, ok := key.lv.(lua.LNumber); ok && math.IsNaN(float64(n)) {
		return s.successor(), errors.New(errors.PhaseEncode, errors.KindRuntime).
			Detail("table index is NaN").
			Build()
	}
	if err := s.checkOwned(errors.PhaseEncode, value); err != nil {
		return s.successor(), err
	}

	table.lv.(*lua.LTable).RawSet(key.lv, value.lv)
	return s.successor(), nil
}
