package main

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/wippyai/lua-bridge/bridge"
	"github.com/wippyai/lua-bridge/hostlib"
)

// Profile configures a session before any script runs: interpreter
// sizing, host modules, seeded globals and preloaded scripts.
//
//	name = "sandbox"
//	stdlib = true
//	modules = ["json", "uuid"]
//	preload = ["scripts/util.lua"]
//
//	[globals]
//	greeting = "hello"
//	retries = 3
type Profile struct {
	Name          string         `toml:"name"`
	Stdlib        *bool          `toml:"stdlib"`
	RegistrySize  int            `toml:"registry_size"`
	CallStackSize int            `toml:"call_stack_size"`
	Modules       []string       `toml:"modules"`
	Preload       []string       `toml:"preload"`
	Globals       map[string]any `toml:"globals"`
}

// loadProfile reads a TOML profile. The empty path yields the default
// profile: standard library open, every host module installed.
func loadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{Modules: []string{"json", "log", "uuid"}}, nil
	}
	var p Profile
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) options() bridge.Options {
	opts := bridge.Options{
		RegistrySize:  p.RegistrySize,
		CallStackSize: p.CallStackSize,
	}
	if p.Stdlib != nil {
		opts.SkipStdLib = !*p.Stdlib
	}
	return opts
}

// setup installs the profile's modules, seeds its globals and runs its
// preload scripts, in that order, so preloads already see the modules
// and globals.
func (p *Profile) setup(st *bridge.State, logger *zap.Logger) (*bridge.State, error) {
	modules := make([]hostlib.Module, 0, len(p.Modules))
	for _, name := range p.Modules {
		switch name {
		case "json":
			modules = append(modules, hostlib.JSON())
		case "uuid":
			modules = append(modules, hostlib.UUID())
		case "log":
			modules = append(modules, hostlib.Log(logger))
		default:
			return st, fmt.Errorf("unknown module %q", name)
		}
	}
	st, err := hostlib.Install(st, modules...)
	if err != nil {
		return st, err
	}

	keys := make([]string, 0, len(p.Globals))
	for key := range p.Globals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		var v bridge.Value
		v, st, err = encodeGo(st, p.Globals[key])
		if err != nil {
			return st, fmt.Errorf("global %s: %w", key, err)
		}
		st, err = st.Set(bridge.KeyPath{key}, v)
		if err != nil {
			return st, fmt.Errorf("global %s: %w", key, err)
		}
	}

	for _, script := range p.Preload {
		_, st, err = st.RunFile(script)
		if err != nil {
			return st, fmt.Errorf("preload %s: %w", script, err)
		}
	}
	return st, nil
}

// encodeGo builds a guest value from decoded TOML data. TOML integers
// stay int-tagged and floats float-tagged; arrays become sequences and
// tables become string-keyed guest tables.
func encodeGo(st *bridge.State, v any) (bridge.Value, *bridge.State, error) {
	switch t := v.(type) {
	case nil:
		return st.EncodeNil()
	case bool:
		return st.EncodeBool(t)
	case int64:
		return st.EncodeInt(t)
	case float64:
		return st.EncodeFloat(t)
	case string:
		return st.EncodeString(t)
	case []any:
		tbl, st, err := st.NewTable()
		if err != nil {
			return bridge.Value{}, st, err
		}
		for i, elem := range t {
			var key, val bridge.Value
			key, st, err = st.EncodeInt(int64(i + 1))
			if err != nil {
				return bridge.Value{}, st, err
			}
			val, st, err = encodeGo(st, elem)
			if err != nil {
				return bridge.Value{}, st, err
			}
			st, err = st.SetEntry(tbl, key, val)
			if err != nil {
				return bridge.Value{}, st, err
			}
		}
		return tbl, st, nil
	case map[string]any:
		tbl, st, err := st.NewTable()
		if err != nil {
			return bridge.Value{}, st, err
		}
		keys := make([]string, 0, len(t))
		for key := range t {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, k := range keys {
			var key, val bridge.Value
			key, st, err = st.EncodeString(k)
			if err != nil {
				return bridge.Value{}, st, err
			}
			val, st, err = encodeGo(st, t[k])
			if err != nil {
				return bridge.Value{}, st, err
			}
			st, err = st.SetEntry(tbl, key, val)
			if err != nil {
				return bridge.Value{}, st, err
			}
		}
		return tbl, st, nil
	}
	return bridge.Value{}, st, fmt.Errorf("unsupported profile value of type %T", v)
}
