package hostlib

import (
	"github.com/gofrs/uuid"

	"github.com/wippyai/lua-bridge/bridge"
)

// UUID returns the uuid module:
//
//	uuid.v4()                  -> string | nil, message
//	uuid.v5(namespace, name)   -> string | nil, message
//
// v5 takes the namespace as a UUID string and derives a deterministic
// identifier from it and the name.
func UUID() Module {
	return Module{
		Name: "uuid",
		Funcs: map[string]bridge.HostFunc{
			"v4": uuidV4,
			"v5": uuidV5,
		},
	}
}

func uuidV4(st *bridge.State, args []bridge.Value) ([]bridge.Value, *bridge.State, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return failure(st, err.Error())
	}
	out, st, err := st.EncodeString(id.String())
	if err != nil {
		return nil, st, err
	}
	return []bridge.Value{out}, st, nil
}

func uuidV5(st *bridge.State, args []bridge.Value) ([]bridge.Value, *bridge.State, error) {
	if len(args) != 2 {
		return failure(st, "v5 expects a namespace uuid and a name")
	}
	nsText, err := args[0].AsString()
	if err != nil {
		return failure(st, err.Error())
	}
	name, err := args[1].AsString()
	if err != nil {
		return failure(st, err.Error())
	}
	ns, err := uuid.FromString(nsText)
	if err != nil {
		return failure(st, err.Error())
	}
	out, st, err := st.EncodeString(uuid.NewV5(ns, name).String())
	if err != nil {
		return nil, st, err
	}
	return []bridge.Value{out}, st, nil
}
