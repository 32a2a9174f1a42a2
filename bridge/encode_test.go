package bridge

import (
	"math"
	"strings"
	"testing"

	"github.com/wippyai/lua-bridge/errors"
)

func TestBuildTableVisibleToGuest(t *testing.T) {
	st := Init()

	tbl, st, err := st.NewTable()
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	key, st, err := st.EncodeString("greeting")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	val, st, err := st.EncodeString("hello")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	st, err = st.SetEntry(tbl, key, val)
	if err != nil {
		t.Fatalf("set entry: %v", err)
	}

	idx, st, err := st.EncodeInt(1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	ten, st, err := st.EncodeInt(10)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	st, err = st.SetEntry(tbl, idx, ten)
	if err != nil {
		t.Fatalf("set entry: %v", err)
	}

	st, err = st.Set(KeyPath{"t"}, tbl)
	if err != nil {
		t.Fatalf("set: %v", err)
	}

	results, st, err := st.Run(`return t.greeting, t[1]`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if s, err := results[0].AsString(); err != nil || s != "hello" {
		t.Fatalf("expected hello, got %q (err %v)", s, err)
	}
	if n, err := results[1].AsInt(); err != nil || n != 10 {
		t.Fatalf("expected 10, got %v (err %v)", n, err)
	}
	mustClose(t, st)
}

func TestSetEntryRejections(t *testing.T) {
	st := Init()

	tbl, st, err := st.NewTable()
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	one, st, err := st.EncodeInt(1)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	nilKey, st, err := st.EncodeNil()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	nanKey, st, err := st.EncodeFloat(math.NaN())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	t.Run("non-table target", func(t *testing.T) {
		next, err := st.SetEntry(one, one, one)
		if !errors.IsKind(err, errors.KindDecodeFailure) {
			t.Fatalf("expected decode_failure, got %v", err)
		}
		st = next
	})

	t.Run("nil key", func(t *testing.T) {
		next, err := st.SetEntry(tbl, nilKey, one)
		if !errors.IsKind(err, errors.KindRuntime) {
			t.Fatalf("expected runtime error, got %v", err)
		}
		if !strings.Contains(err.Error(), "nil") {
			t.Fatalf("expected the message to name the nil key, got %v", err)
		}
		st = next
	})

	t.Run("nan key", func(t *testing.T) {
		next, err := st.SetEntry(tbl, nanKey, one)
		if !errors.IsKind(err, errors.KindRuntime) {
			t.Fatalf("expected runtime error, got %v", err)
		}
		if !strings.Contains(err.Error(), "NaN") {
			t.Fatalf("expected the message to name the NaN key, got %v", err)
		}
		st = next
	})

	mustClose(t, st)
}

func TestSetEntryNilValueRemoves(t *testing.T) {
	st := Init()

	tbl, st, err := st.NewTable()
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	key, st, err := st.EncodeString("x")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	val, st, err := st.EncodeInt(5)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	st, err = st.SetEntry(tbl, key, val)
	if err != nil {
		t.Fatalf("set entry: %v", err)
	}
	st, err = st.Set(KeyPath{"t"}, tbl)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := st.Get(KeyPath{"t", "x"}); err != nil {
		t.Fatalf("get before removal: %v", err)
	}

	nilVal, st, err := st.EncodeNil()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	st, err = st.SetEntry(tbl, key, nilVal)
	if err != nil {
		t.Fatalf("remove entry: %v", err)
	}

	if _, err := st.Get(KeyPath{"t", "x"}); !errors.IsKind(err, errors.KindUndefinedPath) {
		t.Fatalf("expected undefined_path after removal, got %v", err)
	}
	mustClose(t, st)
}

func TestEncodeIntExactRoundTrip(t *testing.T) {
	st := Init()

	// Values past 2^53 have no exact double; the handle must hand back
	// the original regardless.
	for _, want := range []int64{
		0,
		1<<53 + 1,
		-(1<<53 + 1),
		math.MaxInt64,
		math.MinInt64,
	} {
		v, next, err := st.EncodeInt(want)
		if err != nil {
			t.Fatalf("encode %d: %v", want, err)
		}
		st = next
		if v.Tag() != TagInt {
			t.Fatalf("tag = %v, want int", v.Tag())
		}
		got, err := v.AsInt()
		if err != nil {
			t.Fatalf("decode %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("round trip returned %d, want %d", got, want)
		}
		plain, err := v.Interface()
		if err != nil {
			t.Fatalf("interface %d: %v", want, err)
		}
		if plain.(int64) != want {
			t.Fatalf("interface returned %v, want %d", plain, want)
		}
	}
	mustClose(t, st)
}
