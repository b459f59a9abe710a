// Copyright © 2024 The schym authors

package lisp

// Profiler observes function calls made by the evaluator.  Implementations
// live in lisp/x/profiler.
type Profiler interface {
	// IsEnabled reports whether calls are being observed.
	IsEnabled() bool
	// Enable starts observing calls.
	Enable() error
	// Start is called before a function is applied.  name is the name the
	// function was called by, or "anonymous".  The returned function is
	// called when the call returns.
	Start(name string, fun *LVal) func()
	// Complete flushes anything the profiler has buffered.
	Complete() error
}
