package bridge

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-bridge/errors"
)

// Tag identifies the host-visible type of a guest value.
type Tag int

const (
	TagInvalid Tag = iota
	TagNil
	TagBool
	TagInt
	TagFloat
	TagString
	TagTable
	TagFunction
	TagRef
)

var tagNames = [...]string{
	TagInvalid:  "invalid",
	TagNil:      "nil",
	TagBool:     "bool",
	TagInt:      "int",
	TagFloat:    "float",
	TagString:   "string",
	TagTable:    "table",
	TagFunction: "function",
	TagRef:      "ref",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "invalid"
	}
	return tagNames[t]
}

// Value is a tagged handle to a guest value. Primitive values decode
// through the As accessors; tables walk through Entries; functions and
// refs stay opaque and are used as call targets or arguments. A Value is
// only meaningful against the lineage that produced it.
//
// The tag distinguishes int from float even though the guest stores all
// numbers as doubles: values encoded by the host keep the tag they were
// encoded with, and guest-born numbers classify as int when integral.
// Host-encoded ints also keep their exact value; the guest double cannot
// represent every int64, so decoding prefers the stashed original.
type Value struct {
	sess  *session
	lv    lua.LValue
	tag   Tag
	ival  int64 // exact value for host-encoded ints, authoritative over lv
	exact bool
}

// Ref is an opaque, undecoded reference to a guest value. It is the
// call target form produced by RefGet and converts to a Value for use as
// an argument or table entry without ever decoding the referent.
type Ref struct {
	sess *session
	lv   lua.LValue
}

// Value returns the ref as an opaque value for use in arguments and
// table entries.
func (r Ref) Value() Value {
	return Value{sess: r.sess, lv: r.lv, tag: TagRef}
}

// wrap classifies a guest value into a tagged handle.
func wrap(sess *session, lv lua.LValue) Value {
	return Value{sess: sess, lv: lv, tag: classify(lv)}
}

// wrapAll classifies a result list in order.
func wrapAll(sess *session, lvs []lua.LValue) []Value {
	out := make([]Value, len(lvs))
	for i, lv := range lvs {
		out[i] = wrap(sess, lv)
	}
	return out
}

// classify maps an interpreter value onto its host-visible tag. Userdata,
// channels and threads have no decoded form and classify as refs.
func classify(lv lua.LValue) Tag {
	switch v := lv.(type) {
	case *lua.LNilType:
		return TagNil
	case lua.LBool:
		return TagBool
	case lua.LNumber:
		if integral(float64(v)) {
			return TagInt
		}
		return TagFloat
	case lua.LString:
		return TagString
	case *lua.LTable:
		return TagTable
	case *lua.LFunction:
		return TagFunction
	default:
		return TagRef
	}
}

// integral reports whether f is a whole number representable as int64.
func integral(f float64) bool {
	return f == math.Trunc(f) && f >= -(1<<63) && f < (1<<63)
}

// Tag returns the host-visible type of the value.
func (v Value) Tag() Tag {
	return v.tag
}

// IsNil reports whether the value is the guest nil.
func (v Value) IsNil() bool {
	return v.tag == TagNil
}

// AsBool decodes a bool-tagged value. Any other tag is a decode failure;
// there is no truthiness coercion.
func (v Value) AsBool() (bool, error) {
	if v.tag != TagBool {
		return false, errors.DecodeFailure(TagBool.String(), v.tag.String())
	}
	return bool(v.lv.(lua.LBool)), nil
}

// AsInt decodes an int-tagged value. A float-tagged value is a decode
// failure, never a truncation. Host-encoded values decode to the exact
// integer they were encoded from; guest-born values decode from the
// double, which is exact for every integral double in int64 range.
func (v Value) AsInt() (int64, error) {
	if v.tag != TagInt {
		return 0, errors.DecodeFailure(TagInt.String(), v.tag.String())
	}
	if v.exact {
		return v.ival, nil
	}
	return int64(v.lv.(lua.LNumber)), nil
}

// AsFloat decodes a float-tagged value. An int-tagged value is a decode
// failure, never a widening.
func (v Value) AsFloat() (float64, error) {
	if v.tag != TagFloat {
		return 0, errors.DecodeFailure(TagFloat.String(), v.tag.String())
	}
	return float64(v.lv.(lua.LNumber)), nil
}

// AsString decodes a string-tagged value. Numbers do not coerce.
func (v Value) AsString() (string, error) {
	if v.tag != TagString {
		return "", errors.DecodeFailure(TagString.String(), v.tag.String())
	}
	return string(v.lv.(lua.LString)), nil
}

// Entry is one key/value pair of a guest table.
type Entry struct {
	Key   Value
	Value Value
}

// Entries returns the table's pairs. Sequence entries come first in index
// order; the order of the remaining entries is unspecified, matching
// guest iteration semantics.
func (v Value) Entries() ([]Entry, error) {
	if v.tag != TagTable {
		return nil, errors.DecodeFailure(TagTable.String(), v.tag.String())
	}
	tbl := v.lv.(*lua.LTable)
	var entries []Entry
	tbl.ForEach(func(k, val lua.LValue) {
		entries = append(entries, Entry{
			Key:   wrap(v.sess, k),
			Value: wrap(v.sess, val),
		})
	})
	return entries, nil
}

// Interface converts the value into plain Go data: nil, bool, int64,
// float64, string, []any for sequence tables and map[any]any for the
// rest. Functions, refs and cyclic tables do not convert.
func (v Value) Interface() (any, error) {
	return v.toGo(make(map[*lua.LTable]bool))
}

func (v Value) toGo(seen map[*lua.LTable]bool) (any, error) {
	switch v.tag {
	case TagNil:
		return nil, nil
	case TagBool:
		return bool(v.lv.(lua.LBool)), nil
	case TagInt:
		if v.exact {
			return v.ival, nil
		}
		return int64(v.lv.(lua.LNumber)), nil
	case TagFloat:
		return float64(v.lv.(lua.LNumber)), nil
	case TagString:
		return string(v.lv.(lua.LString)), nil
	case TagTable:
		tbl := v.lv.(*lua.LTable)
		if seen[tbl] {
			return nil, errors.New(errors.PhaseDecode, errors.KindDecodeFailure).
				Detail("table contains a reference cycle").
				Build()
		}
		seen[tbl] = true
		defer delete(seen, tbl)
		return v.tableToGo(tbl, seen)
	default:
		return nil, errors.DecodeFailure("data value", v.tag.String())
	}
}

// tableToGo converts a table to []any when it is a pure sequence and to
// map[any]any otherwise.
func (v Value) tableToGo(tbl *lua.LTable, seen map[*lua.LTable]bool) (any, error) {
	n := tbl.Len()
	pure := true
	count := 0
	tbl.ForEach(func(k, _ lua.LValue) {
		count++
		num, ok := k.(lua.LNumber)
		if !ok || !integral(float64(num)) || num < 1 || int(num) > n {
			pure = false
		}
	})

	if pure && n > 0 && count == n {
		seq := make([]any, n)
		for i := 1; i <= n; i++ {
			gv, err := wrap(v.sess, tbl.RawGetInt(i)).toGo(seen)
			if err != nil {
				return nil, err
			}
			seq[i-1] = gv
		}
		return seq, nil
	}

	m := make(map[any]any, count)
	var convErr error
	tbl.ForEach(func(k, val lua.LValue) {
		if convErr != nil {
			return
		}
		key := wrap(v.sess, k)
		switch key.tag {
		case TagBool, TagInt, TagFloat, TagString:
		default:
			convErr = errors.DecodeFailure("primitive key", key.tag.String())
			return
		}
		gk, err := key.toGo(seen)
		if err != nil {
			convErr = err
			return
		}
		gv, err := wrap(v.sess, val).toGo(seen)
		if err != nil {
			convErr = err
			return
		}
		m[gk] = gv
	})
	if convErr != nil {
		return nil, convErr
	}
	return m, nil
}
