// Package ppadl provides in-process audit hook registration and dispatch
// for managed-language runtimes embedded in a Go process. Call sites inside
// the host runtime raise named events for sensitive operations (dynamic
// compilation, module resolution, native-library loads, attribute mutation,
// executable file opens) and registered observers see every event in a
// defined order: process-wide hooks first, then the raising context's
// hooks, each in insertion order. Any observer may veto the operation by
// returning an error.
//
// Registration is a one-way ratchet. There is no removal API, so code that
// has already executed cannot suppress watchers installed by more
// privileged code that ran earlier.
//
// Usage:
//
//	eng, err := ppadl.NewEngine(ppadl.WithRecorder("/var/log/runtime/trail.jsonl"))
//	if err != nil {
//	    return err
//	}
//	_ = eng.AddGlobalHook(func(name string, args []any, _ any) error {
//	    if name == "library.load" {
//	        return fmt.Errorf("native libraries are not allowed here")
//	    }
//	    return nil
//	}, nil)
//
//	rt := eng.NewContext()
//	defer rt.Close()
//	if err := rt.Audit("code.compile", src, "<stdin>"); err != nil {
//	    return err // a hook vetoed the compilation
//	}
//
// File opens whose content will be executed go through the separate
// verified-open path: a single override slot, set at most once per context,
// with a raw binary open as the default.
package ppadl
