//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/wevgo/wevgo/wew"
)

// fakeEngine stands in for the native library so lifecycle, dispatch,
// and marshalling logic can be tested in-process. It records every call
// and drives the engine-to-Go path by invoking the dispatch functions
// directly, the way the real trampolines would.
type fakeEngine struct {
	mu sync.Mutex

	failCreateRuntime  bool
	failExecuteRuntime bool
	failCreateWebView  bool
	rejectTasks        bool

	// autoInit fires context-initialized during ExecuteRuntime.
	// autoState fires loadState on every created webview.
	autoInit  bool
	autoState bool
	loadState State

	subprocessCode int32
	exitCode       int32

	rtMarker   byte
	rtSettings wew.RuntimeSettings
	rtHandler  wew.RuntimeHandler
	rtArgc     int32
	rtClosed   int

	loopQuit sync.Once
	loopCh   chan struct{}
	runs     int
	quits    int
	polls    int

	tasks []uintptr

	views       map[unsafe.Pointer]*fakeView
	closedViews int
}

type click struct {
	x, y      int32
	modifiers uint32
	button    MouseButton
	pressed   bool
}

type wheel struct {
	x, y, dx, dy int32
}

type fakeView struct {
	url      string
	settings wew.WebViewSettings
	handler  wew.WebViewHandler

	reqHandler *wew.ResourceRequestHandler

	windowHandle unsafe.Pointer

	clicks   []click
	moves    []Position
	wheels   []wheel
	keys     []wew.KeyEvent
	touches  []wew.TouchEvent
	sent     []string
	resizes  []Position
	devtools []bool
	ime      []string
}

func installFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()

	f := &fakeEngine{
		autoInit:       true,
		autoState:      true,
		loadState:      StateLoaded,
		subprocessCode: -1,
		loopCh:         make(chan struct{}),
		views:          make(map[unsafe.Pointer]*fakeView),
	}

	savedLoad := nativeLoad
	savedExecuteSubprocess := nativeExecuteSubprocess
	savedGetExitCode := nativeGetExitCode
	savedRun := nativeRunMessageLoop
	savedQuit := nativeQuitMessageLoop
	savedPoll := nativePollMessageLoop
	savedPostTask := nativePostTask
	savedCreateRuntime := nativeCreateRuntime
	savedExecuteRuntime := nativeExecuteRuntime
	savedCloseRuntime := nativeCloseRuntime
	savedCreateWebView := nativeCreateWebView
	savedCloseWebView := nativeCloseWebView
	savedMouseClick := nativeMouseClick
	savedMouseMove := nativeMouseMove
	savedMouseWheel := nativeMouseWheel
	savedKeyboard := nativeKeyboard
	savedTouch := nativeTouch
	savedIMECommit := nativeIMECommit
	savedIMESetComposition := nativeIMESetComposition
	savedSendMessage := nativeSendMessage
	savedSetDevToolsState := nativeSetDevToolsState
	savedResize := nativeResize
	savedGetWindowHandle := nativeGetWindowHandle
	savedSetRequestHandler := nativeSetRequestHandler

	t.Cleanup(func() {
		nativeLoad = savedLoad
		nativeExecuteSubprocess = savedExecuteSubprocess
		nativeGetExitCode = savedGetExitCode
		nativeRunMessageLoop = savedRun
		nativeQuitMessageLoop = savedQuit
		nativePollMessageLoop = savedPoll
		nativePostTask = savedPostTask
		nativeCreateRuntime = savedCreateRuntime
		nativeExecuteRuntime = savedExecuteRuntime
		nativeCloseRuntime = savedCloseRuntime
		nativeCreateWebView = savedCreateWebView
		nativeCloseWebView = savedCloseWebView
		nativeMouseClick = savedMouseClick
		nativeMouseMove = savedMouseMove
		nativeMouseWheel = savedMouseWheel
		nativeKeyboard = savedKeyboard
		nativeTouch = savedTouch
		nativeIMECommit = savedIMECommit
		nativeIMESetComposition = savedIMESetComposition
		nativeSendMessage = savedSendMessage
		nativeSetDevToolsState = savedSetDevToolsState
		nativeResize = savedResize
		nativeGetWindowHandle = savedGetWindowHandle
		nativeSetRequestHandler = savedSetRequestHandler
		runtimeLive.Store(false)
	})

	nativeLoad = func() error { return nil }

	nativeExecuteSubprocess = func(argc int32, argv **byte) int32 {
		return f.subprocessCode
	}
	nativeGetExitCode = func() int32 {
		return f.exitCode
	}

	nativeRunMessageLoop = func() {
		f.mu.Lock()
		f.runs++
		f.mu.Unlock()
		<-f.loopCh
	}
	nativeQuitMessageLoop = func() {
		f.mu.Lock()
		f.quits++
		f.mu.Unlock()
		f.loopQuit.Do(func() { close(f.loopCh) })
	}
	nativePollMessageLoop = func() {
		f.mu.Lock()
		f.polls++
		f.mu.Unlock()
	}
	nativePostTask = func(fn uintptr, ctx uintptr) bool {
		if f.rejectTasks {
			return false
		}
		f.mu.Lock()
		f.tasks = append(f.tasks, ctx)
		f.mu.Unlock()
		dispatchPostedTask(ctx)
		return true
	}

	nativeCreateRuntime = func(settings *wew.RuntimeSettings, handler *wew.RuntimeHandler) unsafe.Pointer {
		if f.failCreateRuntime {
			return nil
		}
		f.mu.Lock()
		f.rtSettings = *settings
		f.rtHandler = *handler
		f.mu.Unlock()
		return unsafe.Pointer(&f.rtMarker)
	}
	nativeExecuteRuntime = func(rt unsafe.Pointer, argc int32, argv **byte) int32 {
		if f.failExecuteRuntime {
			return -1
		}
		f.mu.Lock()
		f.rtArgc = argc
		ctx := f.rtHandler.Context
		auto := f.autoInit
		f.mu.Unlock()
		if auto {
			dispatchContextInitialized(ctx)
		}
		return 0
	}
	nativeCloseRuntime = func(rt unsafe.Pointer) {
		f.mu.Lock()
		f.rtClosed++
		f.mu.Unlock()
	}

	nativeCreateWebView = func(rt unsafe.Pointer, url string, settings *wew.WebViewSettings, handler *wew.WebViewHandler) unsafe.Pointer {
		if f.failCreateWebView {
			return nil
		}
		fv := &fakeView{url: url, settings: *settings, handler: *handler}
		ptr := unsafe.Pointer(fv)
		f.mu.Lock()
		f.views[ptr] = fv
		auto := f.autoState
		state := f.loadState
		f.mu.Unlock()
		if auto {
			dispatchState(handler.Context, int32(state))
		}
		return ptr
	}
	nativeCloseWebView = func(wv unsafe.Pointer) {
		f.mu.Lock()
		delete(f.views, wv)
		f.closedViews++
		f.mu.Unlock()
	}

	nativeMouseClick = func(wv unsafe.Pointer, x, y int32, modifiers uint32, button MouseButton, pressed bool) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.clicks = append(fv.clicks, click{x, y, modifiers, button, pressed})
		f.mu.Unlock()
	}
	nativeMouseMove = func(wv unsafe.Pointer, x, y int32, modifiers uint32) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.moves = append(fv.moves, Position{x, y})
		f.mu.Unlock()
	}
	nativeMouseWheel = func(wv unsafe.Pointer, x, y, dx, dy int32) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.wheels = append(fv.wheels, wheel{x, y, dx, dy})
		f.mu.Unlock()
	}
	nativeKeyboard = func(wv unsafe.Pointer, event *wew.KeyEvent) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.keys = append(fv.keys, *event)
		f.mu.Unlock()
	}
	nativeTouch = func(wv unsafe.Pointer, event *wew.TouchEvent) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.touches = append(fv.touches, *event)
		f.mu.Unlock()
	}

	nativeIMECommit = func(wv unsafe.Pointer, text string) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.ime = append(fv.ime, text)
		f.mu.Unlock()
	}
	nativeIMESetComposition = func(wv unsafe.Pointer, text string, cursorX, cursorY int32) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.ime = append(fv.ime, text)
		f.mu.Unlock()
	}

	nativeSendMessage = func(wv unsafe.Pointer, payload string) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.sent = append(fv.sent, payload)
		f.mu.Unlock()
	}
	nativeSetDevToolsState = func(wv unsafe.Pointer, open bool) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.devtools = append(fv.devtools, open)
		f.mu.Unlock()
	}
	nativeResize = func(wv unsafe.Pointer, width, height int32) {
		fv := f.view(wv)
		f.mu.Lock()
		fv.resizes = append(fv.resizes, Position{width, height})
		f.mu.Unlock()
	}
	nativeGetWindowHandle = func(wv unsafe.Pointer) unsafe.Pointer {
		fv := f.view(wv)
		f.mu.Lock()
		defer f.mu.Unlock()
		return fv.windowHandle
	}

	nativeSetRequestHandler = func(wv unsafe.Pointer, handler *wew.ResourceRequestHandler) {
		fv := f.view(wv)
		f.mu.Lock()
		if handler == nil {
			fv.reqHandler = nil
		} else {
			cp := *handler
			fv.reqHandler = &cp
		}
		f.mu.Unlock()
	}

	return f
}

func (f *fakeEngine) view(ptr unsafe.Pointer) *fakeView {
	f.mu.Lock()
	defer f.mu.Unlock()
	fv, ok := f.views[ptr]
	if !ok {
		panic("fake engine: unknown webview pointer")
	}
	return fv
}

// singleView returns the only live fake view.
func (f *fakeEngine) singleView(t *testing.T) *fakeView {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.views) != 1 {
		t.Fatalf("expected exactly one live webview, have %d", len(f.views))
	}
	for _, fv := range f.views {
		return fv
	}
	return nil
}

func (f *fakeEngine) sentMessages(fv *fakeView) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(fv.sent))
	copy(out, fv.sent)
	return out
}

func mustRuntime(t *testing.T, opts ...RuntimeOption) *Runtime {
	t.Helper()
	rt, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close() })
	return rt
}
