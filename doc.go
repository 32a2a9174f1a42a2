// Package luabridge embeds a Lua interpreter behind an explicit
// state-threading API.
//
// This library enables host programs to create interpreter instances,
// exchange values with guest code, load and execute scripts, call guest
// functions and expose Go functions to the guest, with every mutation of
// the interpreter visible as a handle transition in the host program.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	luabridge/           Root package with the one-shot Eval facade
//	├── bridge/          State handles, values, paths, chunks, calls, exposure
//	├── codec/           Composable typed encoders/decoders over bridge values
//	├── engine/          Low-level gopher-lua integration and error classification
//	├── errors/          Structured error taxonomy for debugging and matching
//	├── hostlib/         Ready-made host modules: json, uuid, log
//	└── cmd/luarun/      Script runner with profiles and an interactive browser
//
// # Quick Start
//
// Run a script and call a guest function:
//
//	st := bridge.Init()
//	defer func() { _ = st.Close() }()
//
//	_, st, err := st.Run(`function greet(name) return "hello " .. name end`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	arg, st, _ := st.EncodeString("world")
//	results, st, err := st.CallByName(bridge.KeyPath{"greet"}, []bridge.Value{arg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	greeting, _ := results[0].AsString() // "hello world"
//
// Or, for one-shot evaluation:
//
//	results, err := luabridge.Eval("return 1 + 2")
//	fmt.Println(results) // [3]
//
// # State Threading
//
// Mutating operations consume the handle they are called on and return
// the single valid successor; stale handles are detected and rejected
// with stale_state. See the bridge package for the full discipline.
//
// # Error Taxonomy
//
// Every failure is classified: syntax errors carry a source position,
// runtime errors carry the guest message and traceback, path failures
// carry the offending keys, decode failures carry expected and observed
// tags, and file failures carry the path. Match kinds with errors.IsKind
// or errors.Is sentinels.
//
// # Thread Safety
//
// A lineage is synchronous and single-threaded by contract. Nothing in
// this library locks; callers that want cross-goroutine access serialize
// it themselves.
package luabridge
