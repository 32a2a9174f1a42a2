package engine

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// ResolvePath walks keys left to right starting at the global table, using
// raw table access. A key that is absent or holds nil fails with
// undefined_path, as does an intermediate that is not a table; the error
// path names the prefix up to and including the failing key. An empty key
// path is invalid_path.
func (e *Engine) ResolvePath(phase errors.Phase, keys []string) (lua.LValue, error) {
	if len(keys) == 0 {
		return nil, errors.InvalidPath(phase, "empty key path")
	}

	var current lua.LValue = e.state.G.Global
	for i, key := range keys {
		tbl, ok := current.(*lua.LTable)
		if !ok {
			return nil, errors.PathCollision(phase, keys[:i], keys[i-1], luaTypeName(current))
		}
		next := tbl.RawGetString(key)
		if next == lua.LNil {
			return nil, errors.UndefinedPath(phase, keys[:i+1])
		}
		current = next
	}
	return current, nil
}

// AssignPath writes v at keys, creating missing intermediate tables along
// the way. Assignment through an existing non-table value fails with
// undefined_path naming the blocking prefix, and in that case nothing has
// been created: a collision can only occur before the first vivification.
// The final key is assigned unconditionally, whatever it held before.
func (e *Engine) AssignPath(keys []string, v lua.LValue) error {
	if len(keys) == 0 {
		return errors.InvalidPath(errors.PhasePath, "empty key path")
	}

	tbl := e.state.G.Global
	for i := 0; i < len(keys)-1; i++ {
		switch next := tbl.RawGetString(keys[i]).(type) {
		case *lua.LTable:
			tbl = next
		case *lua.LNilType:
			fresh := e.state.NewTable()
			tbl.RawSetString(keys[i], fresh)
			tbl = fresh
		default:
			return errors.PathCollision(errors.PhasePath, keys[:i+1], keys[i], luaTypeName(next))
		}
	}
	tbl.RawSetString(keys[len(keys)-1], v)
	debugf("engine: assigned %v", keys)
	return nil
}

// luaTypeName returns the guest-visible type name of v.
func luaTypeName(v lua.LValue) string {
	return v.Type().String()
}
