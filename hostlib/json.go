package hostlib

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/wippyai/lua-bridge/bridge"
)

// JSON returns the json module:
//
//	json.encode(value)  -> string | nil, message
//	json.decode(string) -> value  | nil, message
//
// Guest tables that read as pure sequences encode as JSON arrays, all
// other tables as objects with stringified keys. Decoded JSON numbers
// without a fractional part come back as guest integers.
func JSON() Module {
	return Module{
		Name: "json",
		Funcs: map[string]bridge.HostFunc{
			"encode": jsonEncode,
			"decode": jsonDecode,
		},
	}
}

func jsonEncode(st *bridge.State, args []bridge.Value) ([]bridge.Value, *bridge.State, error) {
	if len(args) != 1 {
		return failure(st, "encode expects exactly one value")
	}
	plain, err := args[0].Interface()
	if err != nil {
		return failure(st, err.Error())
	}
	ready, err := jsonReady(plain)
	if err != nil {
		return failure(st, err.Error())
	}
	data, err := json.Marshal(ready)
	if err != nil {
		return failure(st, err.Error())
	}
	out, st, err := st.EncodeString(string(data))
	if err != nil {
		return nil, st, err
	}
	return []bridge.Value{out}, st, nil
}

func jsonDecode(st *bridge.State, args []bridge.Value) ([]bridge.Value, *bridge.State, error) {
	if len(args) != 1 {
		return failure(st, "decode expects exactly one string")
	}
	text, err := args[0].AsString()
	if err != nil {
		return failure(st, err.Error())
	}
	var plain any
	if err := json.Unmarshal([]byte(text), &plain); err != nil {
		return failure(st, err.Error())
	}
	out, st, err := guestValue(st, plain)
	if err != nil {
		return nil, st, err
	}
	return []bridge.Value{out}, st, nil
}

// jsonReady rewrites the decoded-table representation into something
// encoding/json accepts: map keys become strings, nested containers are
// rewritten recursively.
func jsonReady(v any) (any, error) {
	switch t := v.(type) {
	case map[any]any:
		obj := make(map[string]any, len(t))
		for k, val := range t {
			ready, err := jsonReady(val)
			if err != nil {
				return nil, err
			}
			obj[jsonKey(k)] = ready
		}
		return obj, nil
	case []any:
		for i := range t {
			ready, err := jsonReady(t[i])
			if err != nil {
				return nil, err
			}
			t[i] = ready
		}
		return t, nil
	default:
		return v, nil
	}
}

func jsonKey(k any) string {
	switch t := k.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

// guestValue rebuilds a decoded JSON document as guest values.
func guestValue(st *bridge.State, v any) (bridge.Value, *bridge.State, error) {
	switch t := v.(type) {
	case nil:
		return st.EncodeNil()
	case bool:
		return st.EncodeBool(t)
	case float64:
		if t == math.Trunc(t) && t >= -(1<<63) && t < 1<<63 {
			return st.EncodeInt(int64(t))
		}
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
			val, st, err = guestValue(st, elem)
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
		for k, elem := range t {
			var key, val bridge.Value
			key, st, err = st.EncodeString(k)
			if err != nil {
				return bridge.Value{}, st, err
			}
			val, st, err = guestValue(st, elem)
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
	return st.EncodeNil()
}
