//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"context"
)

// NewContext initializes the engine like New and additionally waits
// until it is ready to create webviews, or ctx is done. If the wait
// fails the runtime is torn down and the process slot released, so a
// later New can succeed.
//
// Do not call this from the goroutine that is supposed to drive the
// message loop in LoopPump mode; readiness is delivered by loop work.
func NewContext(ctx context.Context, opts ...RuntimeOption) (*Runtime, error) {
	rt, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := rt.Ready(ctx); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return rt, nil
}

// CreateWebViewContext creates a browser like CreateWebView and waits
// for the initial load to settle. It returns once the page reached
// StateLoaded, or fails with ErrFailedToCreateWebView if the first
// terminal state is StateLoadError, closing the webview.
//
// The same loop caveat as NewContext applies: the waiting goroutine
// must not be the one the engine needs to make progress.
func (r *Runtime) CreateWebViewContext(ctx context.Context, url string, opts ...WebViewOption) (*WebView, error) {
	wv, err := r.CreateWebView(url, opts...)
	if err != nil {
		return nil, err
	}

	state, ok, err := wv.created.Wait(ctx)
	if err != nil {
		wv.Close()
		return nil, err
	}
	if !ok || state != StateLoaded {
		wv.Close()
		return nil, ErrFailedToCreateWebView
	}
	return wv, nil
}
