// Package hostlib provides ready-made host modules for guest code:
// json encoding, uuid generation and structured logging. Modules are
// built entirely on the public bridge surface and install as global
// guest tables:
//
//	st, err := hostlib.Install(st, hostlib.JSON(), hostlib.UUID())
//
// Guest code then calls them like any other library:
//
//	local s = json.encode({port = 8080})
//	local id = uuid.v4()
package hostlib

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/wippyai/lua-bridge/bridge"
	"github.com/wippyai/lua-bridge/errors"
)

// Module is a named bundle of host functions installed together as one
// global guest table.
type Module struct {
	Name  string
	Funcs map[string]bridge.HostFunc
}

// Install binds each module as a guest global. A module binds all of its
// functions or none of them; failures are collected per module and
// installation continues with the rest, so one broken module does not
// block the others. The returned handle is live regardless of the error.
func Install(st *bridge.State, modules ...Module) (*bridge.State, error) {
	var errs *multierror.Error
	for _, m := range modules {
		next, err := installModule(st, m)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("module %s: %w", m.Name, err))
		}
		if next != nil {
			st = next
		}
	}
	return st, errs.ErrorOrNil()
}

func installModule(st *bridge.State, m Module) (*bridge.State, error) {
	if m.Name == "" {
		return st, errors.InvalidPath(errors.PhaseHost, "module name cannot be empty")
	}

	tbl, st, err := st.NewTable()
	if err != nil {
		return st, err
	}

	// Deterministic exposure order keeps failure reports stable.
	names := make([]string, 0, len(m.Funcs))
	for name := range m.Funcs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var fnVal, key bridge.Value
		fnVal, st, err = st.Expose(m.Funcs[name])
		if err != nil {
			return st, err
		}
		key, st, err = st.EncodeString(name)
		if err != nil {
			return st, err
		}
		st, err = st.SetEntry(tbl, key, fnVal)
		if err != nil {
			return st, err
		}
	}

	return st.Set(bridge.KeyPath{m.Name}, tbl)
}

// failure returns the guest-conventional (nil, message) pair used by
// module functions for recoverable errors.
func failure(st *bridge.State, msg string) ([]bridge.Value, *bridge.State, error) {
	nilVal, st, err := st.EncodeNil()
	if err != nil {
		return nil, st, err
	}
	msgVal, st, err := st.EncodeString(msg)
	if err != nil {
		return nil, st, err
	}
	return []bridge.Value{nilVal, msgVal}, st, nil
}
