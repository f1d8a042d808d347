//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/cstr"
	"github.com/wevgo/wevgo/internal/handles"
	"github.com/wevgo/wevgo/wew"
)

// Callback pointers handed to the engine. Created once, lazily; they are
// plain purego trampolines and do not require the engine library. Tests
// bypass them and call the dispatch functions directly.
var (
	callbackOnce sync.Once

	cbContextInitialized uintptr
	cbSchedulePumpWork   uintptr

	cbStateChange      uintptr
	cbTitleChange      uintptr
	cbURLChange        uintptr
	cbMessage          uintptr
	cbFullscreenChange uintptr
	cbPaint            uintptr
	cbIMERect          uintptr

	cbResourceRequest uintptr
	cbPostedTask      uintptr
)

func ensureEngineCallbacks() {
	callbackOnce.Do(func() {
		cbContextInitialized = purego.NewCallback(dispatchContextInitialized)
		cbSchedulePumpWork = purego.NewCallback(dispatchSchedulePumpWork)

		cbStateChange = purego.NewCallback(dispatchState)
		cbTitleChange = purego.NewCallback(dispatchTitle)
		cbURLChange = purego.NewCallback(dispatchURL)
		cbMessage = purego.NewCallback(dispatchMessage)
		cbFullscreenChange = purego.NewCallback(dispatchFullscreen)
		cbPaint = purego.NewCallback(dispatchPaint)
		cbIMERect = purego.NewCallback(dispatchIMERect)

		cbResourceRequest = purego.NewCallback(dispatchResourceRequest)
		cbPostedTask = purego.NewCallback(dispatchPostedTask)
	})
}

// guard is the panic barrier for every engine-to-Go entry. A panic must
// never unwind into engine stack frames; it is logged and swallowed here.
func guard(callback string) {
	if r := recover(); r != nil {
		Logger().Error("recovered panic in engine callback",
			zap.String("callback", callback),
			zap.Any("value", r),
			zap.Stack("stack"))
	}
}

func lookupRuntime(ctx uintptr) (*Runtime, bool) {
	rt, ok := handles.Lookup(ctx).(*Runtime)
	return rt, ok
}

func lookupWebView(ctx uintptr) (*WebView, bool) {
	wv, ok := handles.Lookup(ctx).(*WebView)
	return wv, ok
}

func dispatchContextInitialized(ctx uintptr) {
	defer guard("context_initialized")
	if rt, ok := lookupRuntime(ctx); ok {
		rt.contextInitialized()
	}
}

func dispatchSchedulePumpWork(ctx uintptr, delayMS int64) {
	defer guard("schedule_message_pump_work")
	if rt, ok := lookupRuntime(ctx); ok {
		rt.schedulePumpWork(delayMS)
	}
}

func dispatchState(ctx uintptr, state int32) {
	defer guard("state_change")
	if wv, ok := lookupWebView(ctx); ok {
		wv.stateChanged(wew.State(state))
	}
}

func dispatchTitle(ctx uintptr, title *byte) {
	defer guard("title_change")
	if wv, ok := lookupWebView(ctx); ok {
		wv.titleChanged(cstr.GoString(title))
	}
}

func dispatchURL(ctx uintptr, url *byte) {
	defer guard("url_change")
	if wv, ok := lookupWebView(ctx); ok {
		wv.urlChanged(cstr.GoString(url))
	}
}

func dispatchMessage(ctx uintptr, payload *byte) {
	defer guard("message")
	if wv, ok := lookupWebView(ctx); ok {
		wv.messageReceived(cstr.GoString(payload))
	}
}

func dispatchFullscreen(ctx uintptr, fullscreen int32) {
	defer guard("fullscreen_change")
	if wv, ok := lookupWebView(ctx); ok {
		wv.fullscreenChanged(fullscreen != 0)
	}
}

func dispatchPaint(ctx uintptr, buf unsafe.Pointer, width, height int32) {
	defer guard("paint")
	if wv, ok := lookupWebView(ctx); ok {
		wv.painted(buf, width, height)
	}
}

func dispatchIMERect(ctx uintptr, x, y, width, height int32) {
	defer guard("ime_rect")
	if wv, ok := lookupWebView(ctx); ok {
		wv.imeRectChanged(Rect{X: x, Y: y, Width: width, Height: height})
	}
}

// dispatchResourceRequest answers a scheme or network request intercepted
// by the engine. Returns 1 when the Go side produced a response.
func dispatchResourceRequest(ctx uintptr, req *wew.ResourceRequest, resp *wew.ResourceResponse) int32 {
	defer guard("resource_request")
	wv, ok := lookupWebView(ctx)
	if !ok || req == nil || resp == nil {
		return 0
	}
	if wv.answerResourceRequest(req, resp) {
		return 1
	}
	return 0
}

// dispatchPostedTask runs a task scheduled with Runtime.PostTask on the
// engine's UI thread. The handle is single-shot.
func dispatchPostedTask(ctx uintptr) {
	defer guard("posted_task")
	fn, ok := handles.Lookup(ctx).(func())
	if !ok {
		return
	}
	handles.Unregister(ctx)
	fn()
}
