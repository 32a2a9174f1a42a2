// Package codec provides composable typed encoders and decoders over
// bridge values.
//
// A Codec couples both directions of one host type's guest mapping, so
// a single value describes how to move that type across the boundary:
//
//	ratings, err := codec.Table(codec.String, codec.Int).Decode(v)
//
// Codecs thread state handles exactly like the bridge operations they
// are built from.
package codec

import (
	"github.com/wippyai/lua-bridge/bridge"
)

// Codec couples the encode and decode directions for one host type.
type Codec[T any] struct {
	Encode func(*bridge.State, T) (bridge.Value, *bridge.State, error)
	Decode func(bridge.Value) (T, error)
}

// Pair is one entry of an associative table, in encounter order.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// Bool maps host bools to guest booleans.
var Bool = Codec[bool]{
	Encode: func(st *bridge.State, b bool) (bridge.Value, *bridge.State, error) {
		return st.EncodeBool(b)
	},
	Decode: func(v bridge.Value) (bool, error) {
		return v.AsBool()
	},
}

// Int maps host int64s to int-tagged guest numbers. Decoding a
// float-tagged value fails; there is no silent conversion.
var Int = Codec[int64]{
	Encode: func(st *bridge.State, i int64) (bridge.Value, *bridge.State, error) {
		return st.EncodeInt(i)
	},
	Decode: func(v bridge.Value) (int64, error) {
		return v.AsInt()
	},
}

// Float maps host float64s to float-tagged guest numbers. Decoding an
// int-tagged value fails; there is no silent conversion.
var Float = Codec[float64]{
	Encode: func(st *bridge.State, f float64) (bridge.Value, *bridge.State, error) {
		return st.EncodeFloat(f)
	},
	Decode: func(v bridge.Value) (float64, error) {
		return v.AsFloat()
	},
}

// String maps host strings to guest strings, bytes preserved.
var String = Codec[string]{
	Encode: func(st *bridge.State, s string) (bridge.Value, *bridge.State, error) {
		return st.EncodeString(s)
	},
	Decode: func(v bridge.Value) (string, error) {
		return v.AsString()
	},
}

// Raw passes bridge values through untouched, for heterogeneous tables
// whose entries are encoded individually. Its encode direction performs
// no guest mutation and returns the handle it was given.
var Raw = Codec[bridge.Value]{
	Encode: func(st *bridge.State, v bridge.Value) (bridge.Value, *bridge.State, error) {
		return v, st, nil
	},
	Decode: func(v bridge.Value) (bridge.Value, error) {
		return v, nil
	},
}

// Table builds a codec for associative tables from a key codec and a
// value codec. Encoding writes the pairs into a fresh guest table in
// order. Decoding walks every entry with the two codecs and fails
// atomically: one mismatched entry fails the whole decode, returning
// nothing. Sequence entries decode first in index order; the rest follow
// in unspecified order, matching guest iteration semantics.
func Table[K, V any](kc Codec[K], vc Codec[V]) Codec[[]Pair[K, V]] {
	return Codec[[]Pair[K, V]]{
		Encode: func(st *bridge.State, pairs []Pair[K, V]) (bridge.Value, *bridge.State, error) {
			tbl, st, err := st.NewTable()
			if err != nil {
				return bridge.Value{}, st, err
			}
			for _, p := range pairs {
				var kv, vv bridge.Value
				kv, st, err = kc.Encode(st, p.Key)
				if err != nil {
					return bridge.Value{}, st, err
				}
				vv, st, err = vc.Encode(st, p.Value)
				if err != nil {
					return bridge.Value{}, st, err
				}
				st, err = st.SetEntry(tbl, kv, vv)
				if err != nil {
					return bridge.Value{}, st, err
				}
			}
			return tbl, st, nil
		},
		Decode: func(v bridge.Value) ([]Pair[K, V], error) {
			entries, err := v.Entries()
			if err != nil {
				return nil, err
			}
			pairs := make([]Pair[K, V], 0, len(entries))
			for _, e := range entries {
				k, err := kc.Decode(e.Key)
				if err != nil {
					return nil, err
				}
				val, err := vc.Decode(e.Value)
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, Pair[K, V]{Key: k, Value: val})
			}
			return pairs, nil
		},
	}
}
