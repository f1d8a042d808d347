//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewContextReturnsReadyRuntime(t *testing.T) {
	installFakeEngine(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	rt, err := NewContext(ctx)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	defer rt.Close()

	// Already initialized; Ready must not block.
	if err := rt.Ready(ctx); err != nil {
		t.Fatalf("Ready failed: %v", err)
	}
}

func TestNewContextReleasesSlotOnTimeout(t *testing.T) {
	f := installFakeEngine(t)
	f.autoInit = false

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := NewContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}

	// The aborted construction must not hold the process slot.
	f.autoInit = true
	rt, err := New()
	if err != nil {
		t.Fatalf("New after aborted NewContext: %v", err)
	}
	_ = rt.Close()
}

func TestCreateWebViewContextLoaded(t *testing.T) {
	installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	wv, err := rt.CreateWebViewContext(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("CreateWebViewContext failed: %v", err)
	}
	wv.Close()
}

func TestCreateWebViewContextLoadError(t *testing.T) {
	f := installFakeEngine(t)
	f.loadState = StateLoadError
	rt := mustRuntime(t)
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := rt.CreateWebViewContext(ctx, "https://bad.invalid"); !errors.Is(err, ErrFailedToCreateWebView) {
		t.Fatalf("got %v, want ErrFailedToCreateWebView", err)
	}

	// The failed view was torn down; the runtime can close.
	if f.closedViews != 1 {
		t.Fatalf("closedViews = %d, want 1", f.closedViews)
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
}

func TestCreateWebViewContextResolvesOnLateState(t *testing.T) {
	f := installFakeEngine(t)
	f.autoState = false
	rt := mustRuntime(t)
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Deliver the terminal state from another goroutine while the
	// caller is parked, the way the engine loop would.
	go func() {
		for {
			f.mu.Lock()
			var ctxHandle uintptr
			for _, fv := range f.views {
				ctxHandle = fv.handler.Context
			}
			f.mu.Unlock()
			if ctxHandle != 0 {
				dispatchState(ctxHandle, int32(StateBeforeLoad))
				dispatchState(ctxHandle, int32(StateLoaded))
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	wv, err := rt.CreateWebViewContext(ctx, "https://example.com")
	if err != nil {
		t.Fatalf("CreateWebViewContext failed: %v", err)
	}
	wv.Close()
}

func TestCreateWebViewContextCancellation(t *testing.T) {
	f := installFakeEngine(t)
	f.autoState = false
	rt := mustRuntime(t)
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := rt.CreateWebViewContext(ctx, "https://example.com"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
	if f.closedViews != 1 {
		t.Fatalf("abandoned view not closed, closedViews = %d", f.closedViews)
	}
}
