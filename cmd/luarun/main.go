package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/lua-bridge/bridge"
	"github.com/wippyai/lua-bridge/engine"
)

func main() {
	var (
		expr        = flag.String("e", "", "Inline source to run")
		profilePath = flag.String("profile", "", "Path to TOML session profile")
		funcName    = flag.String("call", "", "Global function to call (dotted path)")
		funcArgs    = flag.String("args", "", "Arguments for -call (comma-separated)")
		list        = flag.Bool("list", false, "List callable globals and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose bridge logging")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		bridge.SetLogger(logger)
		engine.SetLogger(logger)
	}

	script := flag.Arg(0)
	if *expr == "" && script == "" && *funcName == "" && !*list && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: luarun [-profile p.toml] <script.lua>")
		fmt.Fprintln(os.Stderr, "       luarun -e 'return 1 + 2'")
		fmt.Fprintln(os.Stderr, "       luarun <script.lua> -call name -args 1,2")
		fmt.Fprintln(os.Stderr, "       luarun [script.lua] -list")
		fmt.Fprintln(os.Stderr, "       luarun [script.lua] -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(script, *profilePath, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*expr, script, *profilePath, *funcName, *funcArgs, *list, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(expr, script, profilePath, funcName, funcArgs string, listOnly bool, logger *zap.Logger) error {
	profile, err := loadProfile(profilePath)
	if err != nil {
		return err
	}

	st := bridge.InitWith(profile.options())
	defer func() {
		if st != nil {
			_ = st.Close()
		}
	}()

	st, err = profile.setup(st, logger)
	if err != nil {
		return err
	}

	if script != "" {
		var results []bridge.Value
		results, st, err = st.RunFile(script)
		if err != nil {
			return fmt.Errorf("run %s: %w", script, err)
		}
		printResults(results)
	}

	if expr != "" {
		var results []bridge.Value
		results, st, err = st.Run(expr)
		if err != nil {
			return err
		}
		printResults(results)
	}

	if listOnly {
		names, err := listCallables(st)
		if err != nil {
			return err
		}
		fmt.Println("Callable globals:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return nil
	}

	if funcName != "" {
		var args []bridge.Value
		args, st, err = parseArgs(st, funcArgs)
		if err != nil {
			return err
		}
		fmt.Printf("Calling %s(%s)...\n", funcName, funcArgs)
		var results []bridge.Value
		results, st, err = st.CallByName(bridge.KeyPath(strings.Split(funcName, ".")), args)
		if err != nil {
			return fmt.Errorf("call %s: %w", funcName, err)
		}
		printResults(results)
	}

	return nil
}

// listCallables enumerates guest functions reachable by a one or two key
// path, in sorted order.
func listCallables(st *bridge.State) ([]string, error) {
	root, err := st.Globals()
	if err != nil {
		return nil, err
	}
	entries, err := root.Entries()
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		key, err := e.Key.AsString()
		if err != nil {
			continue
		}
		switch e.Value.Tag() {
		case bridge.TagFunction:
			names = append(names, key)
		case bridge.TagTable:
			if key == "_G" {
				continue
			}
			inner, err := e.Value.Entries()
			if err != nil {
				continue
			}
			for _, ie := range inner {
				ikey, err := ie.Key.AsString()
				if err != nil || ie.Value.Tag() != bridge.TagFunction {
					continue
				}
				names = append(names, key+"."+ikey)
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

// parseArgs converts comma-separated CLI arguments into guest values.
// Literals parse in order: nil, bool, integer, float; anything else
// passes through as a string, with surrounding quotes stripped.
func parseArgs(st *bridge.State, raw string) ([]bridge.Value, *bridge.State, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, st, nil
	}
	parts := strings.Split(raw, ",")
	args := make([]bridge.Value, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		var (
			v   bridge.Value
			err error
		)
		switch {
		case text == "nil":
			v, st, err = st.EncodeNil()
		case text == "true" || text == "false":
			v, st, err = st.EncodeBool(text == "true")
		default:
			if i, convErr := strconv.ParseInt(text, 10, 64); convErr == nil {
				v, st, err = st.EncodeInt(i)
			} else if f, convErr := strconv.ParseFloat(text, 64); convErr == nil {
				v, st, err = st.EncodeFloat(f)
			} else {
				v, st, err = st.EncodeString(strings.Trim(text, `"`))
			}
		}
		if err != nil {
			return nil, st, err
		}
		args = append(args, v)
	}
	return args, st, nil
}

func printResults(results []bridge.Value) {
	if len(results) == 0 {
		return
	}
	parts := make([]string, len(results))
	for i, v := range results {
		parts[i] = formatValue(v)
	}
	fmt.Printf("Result: %s\n", strings.Join(parts, ", "))
}

func formatValue(v bridge.Value) string {
	switch v.Tag() {
	case bridge.TagFunction:
		return "<function>"
	case bridge.TagRef:
		return "<ref>"
	}
	plain, err := v.Interface()
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	if plain == nil {
		return "nil"
	}
	return fmt.Sprintf("%v", plain)
}
