package codec

import (
	"testing"

	"github.com/wippyai/lua-bridge/bridge"
	"github.com/wippyai/lua-bridge/errors"
)

func mustClose(t *testing.T, st *bridge.State) {
	t.Helper()
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestPrimitiveRoundTrips(t *testing.T) {
	st := bridge.Init()

	b, st, err := Bool.Encode(st, true)
	if err != nil {
		t.Fatalf("encode bool: %v", err)
	}
	if v, err := Bool.Decode(b); err != nil || v != true {
		t.Fatalf("bool: %v (err %v)", v, err)
	}

	i, st, err := Int.Encode(st, -42)
	if err != nil {
		t.Fatalf("encode int: %v", err)
	}
	if v, err := Int.Decode(i); err != nil || v != -42 {
		t.Fatalf("int: %v (err %v)", v, err)
	}

	f, st, err := Float.Encode(st, 2.5)
	if err != nil {
		t.Fatalf("encode float: %v", err)
	}
	if v, err := Float.Decode(f); err != nil || v != 2.5 {
		t.Fatalf("float: %v (err %v)", v, err)
	}

	s, st, err := String.Encode(st, "héllo")
	if err != nil {
		t.Fatalf("encode string: %v", err)
	}
	if v, err := String.Decode(s); err != nil || v != "héllo" {
		t.Fatalf("string: %q (err %v)", v, err)
	}
	mustClose(t, st)
}

func TestNoSilentConversion(t *testing.T) {
	st := bridge.Init()

	i, st, err := Int.Encode(st, 2)
	if err != nil {
		t.Fatalf("encode int: %v", err)
	}
	if _, err := Float.Decode(i); !errors.IsKind(err, errors.KindDecodeFailure) {
		t.Fatalf("expected decode_failure widening int to float, got %v", err)
	}

	f, st, err := Float.Encode(st, 2.0)
	if err != nil {
		t.Fatalf("encode float: %v", err)
	}
	if _, err := Int.Decode(f); !errors.IsKind(err, errors.KindDecodeFailure) {
		t.Fatalf("expected decode_failure narrowing float to int, got %v", err)
	}
	mustClose(t, st)
}

func TestTableCodec(t *testing.T) {
	st := bridge.Init()

	ratings := Table(String, Int)
	in := []Pair[string, int64]{
		{Key: "alpha", Value: 3},
		{Key: "beta", Value: 5},
	}
	tbl, st, err := ratings.Encode(st, in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	// The encoded table is a plain guest table.
	st, err = st.Set(bridge.KeyPath{"ratings"}, tbl)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	results, st, err := st.Run(`return ratings.alpha + ratings.beta`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n, err := results[0].AsInt(); err != nil || n != 8 {
		t.Fatalf("expected 8, got %v (err %v)", n, err)
	}

	out, err := ratings.Decode(tbl)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(out))
	}
	byKey := make(map[string]int64, len(out))
	for _, p := range out {
		byKey[p.Key] = p.Value
	}
	if byKey["alpha"] != 3 || byKey["beta"] != 5 {
		t.Fatalf("expected the pairs back, got %v", byKey)
	}
	mustClose(t, st)
}

func TestTableDecodeFailsAtomically(t *testing.T) {
	st := bridge.Init()

	results, st, err := st.Run(`return {a = 1, b = "not a number"}`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	pairs, err := Table(String, Int).Decode(results[0])
	if !errors.IsKind(err, errors.KindDecodeFailure) {
		t.Fatalf("expected decode_failure, got %v", err)
	}
	if pairs != nil {
		t.Fatalf("a failed decode must return nothing, got %v", pairs)
	}
	mustClose(t, st)
}

func TestTableSequenceOrder(t *testing.T) {
	st := bridge.Init()

	results, st, err := st.Run(`return {"a", "b", "c"}`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	pairs, err := Table(Int, String).Decode(results[0])
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []Pair[int64, string]{{1, "a"}, {2, "b"}, {3, "c"}}
	for i, p := range want {
		if pairs[i] != p {
			t.Fatalf("pair %d: expected %v, got %v", i, p, pairs[i])
		}
	}
	mustClose(t, st)
}

func TestRawHeterogeneousTable(t *testing.T) {
	st := bridge.Init()

	one, st, err := Int.Encode(st, 1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	name, st, err := String.Encode(st, "mixed")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	mixed := Table(String, Raw)
	tbl, st, err := mixed.Encode(st, []Pair[string, bridge.Value]{
		{Key: "count", Value: one},
		{Key: "name", Value: name},
	})
	if err != nil {
		t.Fatalf("encode table: %v", err)
	}

	pairs, err := mixed.Decode(tbl)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	byKey := make(map[string]bridge.Value, len(pairs))
	for _, p := range pairs {
		byKey[p.Key] = p.Value
	}
	if n, err := byKey["count"].AsInt(); err != nil || n != 1 {
		t.Fatalf("count: %v (err %v)", n, err)
	}
	if s, err := byKey["name"].AsString(); err != nil || s != "mixed" {
		t.Fatalf("name: %q (err %v)", s, err)
	}
	mustClose(t, st)
}

func TestNestedTableCodec(t *testing.T) {
	st := bridge.Init()

	inner := Table(String, Int)
	outer := Table(String, inner)

	tbl, st, err := outer.Encode(st, []Pair[string, []Pair[string, int64]]{
		{Key: "limits", Value: []Pair[string, int64]{{Key: "max", Value: 10}}},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	st, err = st.Set(bridge.KeyPath{"cfg"}, tbl)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := st.Get(bridge.KeyPath{"cfg", "limits", "max"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if n, err := got.AsInt(); err != nil || n != 10 {
		t.Fatalf("expected 10, got %v (err %v)", n, err)
	}
	mustClose(t, st)
}
