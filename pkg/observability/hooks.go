// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about traversals, pass execution and rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTraversalHooks(&myTraversalHooks{})
//	    observability.SetPassHooks(&myPassHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pass().OnPassStart(ctx, "constfold")
//	// ... run the pass ...
//	observability.Pass().OnPassComplete(ctx, "constfold", diagnostics, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Traversal Hooks
// =============================================================================

// TraversalHooks receives events from the visitor engine.
type TraversalHooks interface {
	// OnApplyStart is called when a visitor starts a root-to-root traversal.
	OnApplyStart(ctx context.Context, visitor, variant string)
	// OnApplyComplete is called when the traversal returns. visited counts
	// the nodes whose pre-step ran.
	OnApplyComplete(ctx context.Context, visitor, variant string, visited int, duration time.Duration)

	// OnLoop records a re-entry into a node that is still being visited.
	// benign is true for back-edges inside a graph region.
	OnLoop(ctx context.Context, visitor, node string, benign bool)
	// OnJoin records an arrival at a join point; pending is the number of
	// predecessors still outstanding after this arrival.
	OnJoin(ctx context.Context, visitor, node string, pending int)
}

// =============================================================================
// Pass Hooks
// =============================================================================

// PassHooks receives events from the pass runner.
type PassHooks interface {
	OnPassStart(ctx context.Context, pass string)
	OnPassComplete(ctx context.Context, pass string, diagnostics int, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from tree rendering.
type RenderHooks interface {
	OnRenderStart(ctx context.Context, format string, nodeCount int)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTraversalHooks is a no-op implementation of TraversalHooks.
type NoopTraversalHooks struct{}

func (NoopTraversalHooks) OnApplyStart(context.Context, string, string) {}
func (NoopTraversalHooks) OnApplyComplete(context.Context, string, string, int, time.Duration) {
}
func (NoopTraversalHooks) OnLoop(context.Context, string, string, bool) {}
func (NoopTraversalHooks) OnJoin(context.Context, string, string, int)  {}

// NoopPassHooks is a no-op implementation of PassHooks.
type NoopPassHooks struct{}

func (NoopPassHooks) OnPassStart(context.Context, string)                               {}
func (NoopPassHooks) OnPassComplete(context.Context, string, int, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string, int)                     {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	traversalHooks TraversalHooks = NoopTraversalHooks{}
	passHooks      PassHooks      = NoopPassHooks{}
	renderHooks    RenderHooks    = NoopRenderHooks{}
	hooksMu        sync.RWMutex
)

// SetTraversalHooks registers custom traversal hooks.
// This should be called once at application startup before any traversal.
func SetTraversalHooks(h TraversalHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traversalHooks = h
	}
}

// SetPassHooks registers custom pass hooks.
// This should be called once at application startup before any pass runs.
func SetPassHooks(h PassHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		passHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Traversal returns the registered traversal hooks.
func Traversal() TraversalHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traversalHooks
}

// Pass returns the registered pass hooks.
func Pass() PassHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return passHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	traversalHooks = NoopTraversalHooks{}
	passHooks = NoopPassHooks{}
	renderHooks = NoopRenderHooks{}
}
