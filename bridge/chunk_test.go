package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wippyai/lua-bridge/errors"
)

func TestRunArithmetic(t *testing.T) {
	st := Init()

	results, st, err := st.Run(`return 1 + 2`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one result, got %d", len(results))
	}
	if results[0].Tag() != TagInt {
		t.Fatalf("expected an int result, got %v", results[0].Tag())
	}
	if n, err := results[0].AsInt(); err != nil || n != 3 {
		t.Fatalf("expected 3, got %v (err %v)", n, err)
	}
	mustClose(t, st)
}

func TestRunMultipleResultsInOrder(t *testing.T) {
	st := Init()

	results, st, err := st.Run(`return 1, "two", true`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if n, err := results[0].AsInt(); err != nil || n != 1 {
		t.Fatalf("first: %v (err %v)", n, err)
	}
	if s, err := results[1].AsString(); err != nil || s != "two" {
		t.Fatalf("second: %q (err %v)", s, err)
	}
	if b, err := results[2].AsBool(); err != nil || !b {
		t.Fatalf("third: %v (err %v)", b, err)
	}
	mustClose(t, st)
}

func TestRunSyntaxError(t *testing.T) {
	st := Init()

	_, st, err := st.Run(`return 1 * `)
	be, ok := err.(*errors.Error)
	if !ok || be.Kind != errors.KindSyntax {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if be.Line == 0 {
		t.Fatalf("expected a source line in the error, got %+v", be)
	}
	mustClose(t, st)
}

func TestRunRuntimeError(t *testing.T) {
	st := Init()

	_, st, err := st.Run(`error("boom")`)
	be, ok := err.(*errors.Error)
	if !ok || be.Kind != errors.KindRuntime {
		t.Fatalf("expected a runtime error, got %v", err)
	}
	if be.Traceback == "" {
		t.Fatal("expected a guest traceback")
	}
	mustClose(t, st)
}

func TestChunkReuse(t *testing.T) {
	st := Init()

	chunk, st, err := st.Load(`counter = (counter or 0) + 1 return counter`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Loading alone must not execute.
	if _, err := st.Get(KeyPath{"counter"}); !errors.IsKind(err, errors.KindUndefinedPath) {
		t.Fatalf("load must not execute the chunk, got %v", err)
	}

	for want := int64(1); want <= 3; want++ {
		var results []Value
		results, st, err = st.RunChunk(chunk)
		if err != nil {
			t.Fatalf("run %d: %v", want, err)
		}
		if n, err := results[0].AsInt(); err != nil || n != want {
			t.Fatalf("run %d: expected %d, got %v (err %v)", want, want, n, err)
		}
	}
	mustClose(t, st)
}

func TestChunkSeesStateAtRunTime(t *testing.T) {
	st := Init()

	chunk, st, err := st.Load(`return base * 2`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	for _, base := range []int64{3, 50} {
		v, next, err := st.EncodeInt(base)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		st = next
		st, err = st.Set(KeyPath{"base"}, v)
		if err != nil {
			t.Fatalf("set: %v", err)
		}
		var results []Value
		results, st, err = st.RunChunk(chunk)
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if n, err := results[0].AsInt(); err != nil || n != base*2 {
			t.Fatalf("expected %d, got %v (err %v)", base*2, n, err)
		}
	}
	mustClose(t, st)
}

func TestRunChunkNil(t *testing.T) {
	st := Init()

	_, st, err := st.RunChunk(nil)
	if !errors.IsKind(err, errors.KindDecodeFailure) {
		t.Fatalf("expected decode_failure for a nil chunk, got %v", err)
	}
	mustClose(t, st)
}

func TestChunkOutlivesItsSession(t *testing.T) {
	first := Init()
	chunk, first, err := first.Load(`return 21 * 2`)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	mustClose(t, first)

	// A chunk holds only the immutable prototype, so a fresh session can
	// run it.
	second := Init()
	results, second, err := second.RunChunk(chunk)
	if err != nil {
		t.Fatalf("run in a fresh session: %v", err)
	}
	if n, err := results[0].AsInt(); err != nil || n != 42 {
		t.Fatalf("expected 42, got %v (err %v)", n, err)
	}
	mustClose(t, second)
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answer.lua")
	if err := os.WriteFile(path, []byte("return 40 + 2"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	st := Init()
	results, st, err := st.RunFile(path)
	if err != nil {
		t.Fatalf("run file: %v", err)
	}
	if n, err := results[0].AsInt(); err != nil || n != 42 {
		t.Fatalf("expected 42, got %v (err %v)", n, err)
	}
	mustClose(t, st)
}

func TestRunFileMissing(t *testing.T) {
	st := Init()

	missing := filepath.Join(t.TempDir(), "absent.lua")
	_, st, err := st.RunFile(missing)
	be, ok := err.(*errors.Error)
	if !ok || be.Kind != errors.KindIO {
		t.Fatalf("expected an io error, got %v", err)
	}
	if be.File != missing {
		t.Fatalf("expected the error to carry the path, got %q", be.File)
	}
	mustClose(t, st)
}

func TestRunFileSyntaxErrorNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.lua")
	if err := os.WriteFile(path, []byte("return 1 * "), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	st := Init()
	_, st, err := st.RunFile(path)
	be, ok := err.(*errors.Error)
	if !ok || be.Kind != errors.KindSyntax {
		t.Fatalf("expected a syntax error, got %v", err)
	}
	if be.Source != path {
		t.Fatalf("expected the chunk name %q, got %q", path, be.Source)
	}
	mustClose(t, st)
}
