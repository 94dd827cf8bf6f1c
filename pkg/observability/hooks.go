// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout runs and constraint solves.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the layout packages
// never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLayoutHooks(&myLayoutHooks{})
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Layout().OnLayoutStart(ctx, runID, nodes, links)
//	// ... tick until converged ...
//	observability.Layout().OnLayoutEnd(ctx, runID, ticks, stress, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout runs. runID identifies one
// start-to-end run of a layout.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, runID string, nodes, links int)
	OnTick(ctx context.Context, runID string, tick int, alpha, stress float64)
	OnLayoutEnd(ctx context.Context, runID string, ticks int, stress float64, duration time.Duration, err error)
}

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from the separation constraint solver.
type SolverHooks interface {
	// OnSolve records one completed Solve call. err is non-nil when the
	// constraints could not all be satisfied.
	OnSolve(variables, constraints int, cost float64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int, int)                         {}
func (NoopLayoutHooks) OnTick(context.Context, string, int, float64, float64)                   {}
func (NoopLayoutHooks) OnLayoutEnd(context.Context, string, int, float64, time.Duration, error) {}

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSolve(int, int, float64, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	solverHooks SolverHooks = NoopSolverHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any layout runs.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetSolverHooks registers custom solver hooks.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	solverHooks = NoopSolverHooks{}
}
