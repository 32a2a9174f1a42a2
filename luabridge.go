package luabridge

import (
	"github.com/wippyai/lua-bridge/bridge"
)

// Eval runs source in a fresh interpreter and returns the chunk's
// results as plain Go values. The interpreter is closed before Eval
// returns; use the bridge package directly to keep state across runs.
func Eval(source string) ([]any, error) {
	values, st, err := bridge.Init().Run(source)
	if err != nil {
		closeQuiet(st)
		return nil, err
	}
	return finish(st, values)
}

// EvalFile runs the script at path in a fresh interpreter and returns
// its results as plain Go values.
func EvalFile(path string) ([]any, error) {
	values, st, err := bridge.Init().RunFile(path)
	if err != nil {
		closeQuiet(st)
		return nil, err
	}
	return finish(st, values)
}

func finish(st *bridge.State, values []bridge.Value) ([]any, error) {
	out := make([]any, len(values))
	for i, v := range values {
		gv, err := v.Interface()
		if err != nil {
			closeQuiet(st)
			return nil, err
		}
		out[i] = gv
	}
	closeQuiet(st)
	return out, nil
}

func closeQuiet(st *bridge.State) {
	if st != nil {
		_ = st.Close()
	}
}
