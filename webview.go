//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/handles"
	"github.com/wevgo/wevgo/internal/waitbox"
	"github.com/wevgo/wevgo/wew"
)

// WebView is a single browser instance owned by a Runtime. Create it
// with Runtime.CreateWebView and release it with Close.
//
// Methods are safe to call from any goroutine. The engine delivers
// handler callbacks on its own threads.
type WebView struct {
	mu     sync.Mutex
	ptr    wew.WebView
	handle uintptr
	rt     *Runtime
	closed bool

	// Last observed cursor position. Click and wheel events that carry
	// no position of their own are dispatched here.
	mouseMu sync.Mutex
	mouseX  int32
	mouseY  int32

	created *waitbox.Box[State]
	br      *bridge

	opts   WebViewOptions
	filter RequestFilter

	// Response buffers handed to the engine by the request filter, held
	// until the next request so the engine can finish copying them.
	pinned [][]byte
}

// WebViewOptions configures a browser instance. The zero value is not
// usable; Runtime.CreateWebView applies these defaults first: 800x600,
// scale factor 1.0, 30 frames per second windowless, font size 12,
// JavaScript and local storage enabled, clipboard access disabled.
type WebViewOptions struct {
	// ParentWindow embeds the browser in an existing native window.
	// Zero creates a windowless browser. Windowless browsers require
	// the runtime to be created with WithWindowlessRendering.
	ParentWindow uintptr

	Width  int32
	Height int32

	// FrameRate caps windowless paint callbacks, in frames per second.
	FrameRate int

	DeviceScaleFactor float32

	DefaultFontSize      int
	DefaultFixedFontSize int

	// BackgroundColor is ARGB. Zero keeps the engine default.
	BackgroundColor uint32

	JavaScript      bool
	LocalStorage    bool
	ClipboardAccess bool

	// DevTools opens the developer tools window after creation.
	DevTools bool

	// Transparent enables alpha in windowless paint buffers.
	Transparent bool

	// OnStateChange observes page lifecycle transitions.
	OnStateChange func(wv *WebView, state State)

	// OnTitleChange observes document title updates.
	OnTitleChange func(wv *WebView, title string)

	// OnURLChange observes address changes.
	OnURLChange func(wv *WebView, url string)

	// OnMessage receives string payloads posted by the page.
	OnMessage func(wv *WebView, payload string)

	// OnFullscreenChange observes fullscreen transitions.
	OnFullscreenChange func(wv *WebView, fullscreen bool)

	// OnPaint receives windowless frames. The buffer is BGRA, owned by
	// the engine, and valid only for the duration of the call.
	OnPaint func(wv *WebView, buf []byte, width, height int32)

	// OnIMERect observes the composition caret rectangle in windowless
	// mode, for positioning a host IME window.
	OnIMERect func(wv *WebView, rect Rect)

	// RequestFilter intercepts resource requests from the moment the
	// browser exists, so it can serve the initial page. See
	// SetRequestFilter.
	RequestFilter RequestFilter
}

// WebViewOption is a functional option for configuring a webview.
type WebViewOption func(*WebViewOptions)

// WithParentWindow embeds the browser in a native window.
func WithParentWindow(handle uintptr) WebViewOption {
	return func(o *WebViewOptions) {
		o.ParentWindow = handle
	}
}

// WithSize sets the view dimensions.
func WithSize(width, height int32) WebViewOption {
	return func(o *WebViewOptions) {
		o.Width = width
		o.Height = height
	}
}

// WithFrameRate caps windowless rendering, in frames per second.
func WithFrameRate(fps int) WebViewOption {
	return func(o *WebViewOptions) {
		o.FrameRate = fps
	}
}

// WithDeviceScaleFactor sets the view scale factor.
func WithDeviceScaleFactor(scale float32) WebViewOption {
	return func(o *WebViewOptions) {
		o.DeviceScaleFactor = scale
	}
}

// WithFontSizes sets the default and fixed font sizes.
func WithFontSizes(def, fixed int) WebViewOption {
	return func(o *WebViewOptions) {
		o.DefaultFontSize = def
		o.DefaultFixedFontSize = fixed
	}
}

// WithBackgroundColor sets the ARGB background color.
func WithBackgroundColor(argb uint32) WebViewOption {
	return func(o *WebViewOptions) {
		o.BackgroundColor = argb
	}
}

// WithJavaScript enables or disables script execution.
func WithJavaScript(enabled bool) WebViewOption {
	return func(o *WebViewOptions) {
		o.JavaScript = enabled
	}
}

// WithLocalStorage enables or disables DOM local storage.
func WithLocalStorage(enabled bool) WebViewOption {
	return func(o *WebViewOptions) {
		o.LocalStorage = enabled
	}
}

// WithClipboardAccess lets page scripts use the clipboard.
func WithClipboardAccess(enabled bool) WebViewOption {
	return func(o *WebViewOptions) {
		o.ClipboardAccess = enabled
	}
}

// WithDevTools opens the developer tools window after creation.
func WithDevTools() WebViewOption {
	return func(o *WebViewOptions) {
		o.DevTools = true
	}
}

// WithTransparentBackground enables alpha in windowless frames.
func WithTransparentBackground() WebViewOption {
	return func(o *WebViewOptions) {
		o.Transparent = true
	}
}

// WithStateHandler observes page lifecycle transitions.
func WithStateHandler(fn func(wv *WebView, state State)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnStateChange = fn
	}
}

// WithTitleHandler observes document title updates.
func WithTitleHandler(fn func(wv *WebView, title string)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnTitleChange = fn
	}
}

// WithURLHandler observes address changes.
func WithURLHandler(fn func(wv *WebView, url string)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnURLChange = fn
	}
}

// WithMessageHandler receives payloads posted by the page.
func WithMessageHandler(fn func(wv *WebView, payload string)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnMessage = fn
	}
}

// WithFullscreenHandler observes fullscreen transitions.
func WithFullscreenHandler(fn func(wv *WebView, fullscreen bool)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnFullscreenChange = fn
	}
}

// WithPaintHandler receives windowless frames.
func WithPaintHandler(fn func(wv *WebView, buf []byte, width, height int32)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnPaint = fn
	}
}

// WithIMERectHandler observes the composition caret rectangle.
func WithIMERectHandler(fn func(wv *WebView, rect Rect)) WebViewOption {
	return func(o *WebViewOptions) {
		o.OnIMERect = fn
	}
}

// WithRequestFilter installs a resource request filter before the first
// load, so it can answer the initial page request.
func WithRequestFilter(filter RequestFilter) WebViewOption {
	return func(o *WebViewOptions) {
		o.RequestFilter = filter
	}
}

func defaultWebViewOptions() WebViewOptions {
	return WebViewOptions{
		Width:                800,
		Height:               600,
		FrameRate:            30,
		DeviceScaleFactor:    1.0,
		DefaultFontSize:      12,
		DefaultFixedFontSize: 12,
		JavaScript:           true,
		LocalStorage:         true,
	}
}

// CreateWebView asks the engine to open a browser on url. The engine
// must have finished initialization first; use Ready or the
// OnContextInitialized callback to sequence this.
//
// Creation is asynchronous: the returned WebView is usable for input
// and navigation immediately, but the page has not loaded yet. Use
// WithStateHandler or CreateWebViewContext to observe the outcome.
func (r *Runtime) CreateWebView(url string, opts ...WebViewOption) (*WebView, error) {
	options := defaultWebViewOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ptr, err := r.nativePtr()
	if err != nil {
		return nil, err
	}
	if err := r.addWebView(); err != nil {
		return nil, err
	}

	wv := &WebView{
		rt:      r,
		opts:    options,
		created: waitbox.New[State](),
		br:      newBridge(),
	}
	wv.handle = handles.Register(wv)

	ensureEngineCallbacks()
	settings := options.settings()
	handler := &wew.WebViewHandler{
		Context:            wv.handle,
		OnStateChange:      cbStateChange,
		OnTitleChange:      cbTitleChange,
		OnURLChange:        cbURLChange,
		OnMessage:          cbMessage,
		OnFullscreenChange: cbFullscreenChange,
		OnPaint:            cbPaint,
		OnIMERect:          cbIMERect,
	}

	raw := nativeCreateWebView(ptr, url, settings, handler)
	if raw == nil {
		handles.Unregister(wv.handle)
		r.removeWebView()
		return nil, ErrFailedToCreateWebView
	}
	wv.ptr = raw

	if options.RequestFilter != nil {
		wv.filter = options.RequestFilter
		nativeSetRequestHandler(raw, &wew.ResourceRequestHandler{
			Context:   wv.handle,
			OnRequest: cbResourceRequest,
		})
	}
	if options.DevTools {
		nativeSetDevToolsState(raw, true)
	}

	Logger().Debug("webview created",
		zap.String("url", url),
		zap.Bool("windowless", options.ParentWindow == 0))
	return wv, nil
}

func (o *WebViewOptions) settings() *wew.WebViewSettings {
	s := &wew.WebViewSettings{
		ParentWindowHandle:   o.ParentWindow,
		Width:                o.Width,
		Height:               o.Height,
		FrameRate:            int32(o.FrameRate),
		DefaultFontSize:      int32(o.DefaultFontSize),
		DefaultFixedFontSize: int32(o.DefaultFixedFontSize),
		DeviceScaleFactor:    o.DeviceScaleFactor,
		BackgroundColor:      o.BackgroundColor,
	}
	if o.JavaScript {
		s.JavaScript = 1
	}
	if o.LocalStorage {
		s.LocalStorage = 1
	}
	if o.ClipboardAccess {
		s.ClipboardAccess = 1
	}
	if o.ParentWindow == 0 {
		s.WindowlessRendering = 1
	}
	if o.DevTools {
		s.DevTools = 1
	}
	if o.Transparent {
		s.Transparent = 1
	}
	return s
}

// Close destroys the browser. Safe to call multiple times. Handler
// callbacks stop being delivered once Close returns.
func (wv *WebView) Close() {
	wv.mu.Lock()
	if wv.closed {
		wv.mu.Unlock()
		return
	}
	wv.closed = true
	ptr := wv.ptr
	wv.ptr = nil
	wv.mu.Unlock()

	// Unregister first so late engine callbacks find nothing.
	handles.Unregister(wv.handle)
	wv.created.Drop()
	wv.dropBridge()
	if ptr != nil {
		nativeCloseWebView(ptr)
	}
	wv.rt.removeWebView()
}

func (wv *WebView) nativePtr() (wew.WebView, error) {
	wv.mu.Lock()
	defer wv.mu.Unlock()
	if wv.closed {
		return nil, ErrWebViewClosed
	}
	return wv.ptr, nil
}

// MouseMove injects cursor movement and records the position for later
// positionless clicks and wheel events.
func (wv *WebView) MouseMove(x, y int32, modifiers uint32) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	wv.mouseMu.Lock()
	wv.mouseX, wv.mouseY = x, y
	wv.mouseMu.Unlock()
	nativeMouseMove(ptr, x, y, modifiers)
	return nil
}

// MouseClick injects a button press or release. With a nil position the
// event fires at the last recorded cursor position; with a position it
// fires there and the recorded position is updated.
func (wv *WebView) MouseClick(button MouseButton, pressed bool, at *Position, modifiers uint32) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	wv.mouseMu.Lock()
	if at != nil {
		wv.mouseX, wv.mouseY = at.X, at.Y
	}
	x, y := wv.mouseX, wv.mouseY
	wv.mouseMu.Unlock()
	nativeMouseClick(ptr, x, y, modifiers, button, pressed)
	return nil
}

// MouseWheel injects a scroll event at the last recorded cursor
// position.
func (wv *WebView) MouseWheel(deltaX, deltaY int32) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	wv.mouseMu.Lock()
	x, y := wv.mouseX, wv.mouseY
	wv.mouseMu.Unlock()
	nativeMouseWheel(ptr, x, y, deltaX, deltaY)
	return nil
}

// SendKeyEvent injects a keyboard event.
func (wv *WebView) SendKeyEvent(event KeyEvent) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	native := event.native()
	nativeKeyboard(ptr, &native)
	return nil
}

// SendTouchEvent injects a touch contact update.
func (wv *WebView) SendTouchEvent(event TouchEvent) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeTouch(ptr, &event)
	return nil
}

// IMECommit commits composed text to the focused editable element.
func (wv *WebView) IMECommit(text string) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeIMECommit(ptr, text)
	return nil
}

// IMESetComposition updates the in-progress composition string with the
// caret at cursorX, cursorY.
func (wv *WebView) IMESetComposition(text string, cursorX, cursorY int32) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeIMESetComposition(ptr, text, cursorX, cursorY)
	return nil
}

// SendMessage delivers a string payload to the page's message listener.
func (wv *WebView) SendMessage(payload string) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeSendMessage(ptr, payload)
	return nil
}

// SetDevToolsState opens or closes the developer tools window.
func (wv *WebView) SetDevToolsState(open bool) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeSetDevToolsState(ptr, open)
	return nil
}

// Resize notifies the engine that the view dimensions changed.
func (wv *WebView) Resize(width, height int32) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}
	nativeResize(ptr, width, height)
	return nil
}

// WindowHandle returns the native window handle backing the browser.
// Panics for windowless browsers, which have no window.
func (wv *WebView) WindowHandle() WindowHandle {
	ptr, err := wv.nativePtr()
	if err != nil {
		panic(err)
	}
	h := nativeGetWindowHandle(ptr)
	if h == nil {
		panic("wevgo: webview has no native window")
	}
	return h
}

// Engine callback entry points. All run on engine threads behind the
// panic barrier in callbacks.go.

func (wv *WebView) stateChanged(state State) {
	// Only terminal load states settle creation; BeforeLoad does not.
	if state == StateLoaded || state == StateLoadError {
		wv.created.Resolve(state)
	}
	if wv.opts.OnStateChange != nil {
		wv.opts.OnStateChange(wv, state)
	}
}

func (wv *WebView) titleChanged(title string) {
	if wv.opts.OnTitleChange != nil {
		wv.opts.OnTitleChange(wv, title)
	}
}

func (wv *WebView) urlChanged(url string) {
	if wv.opts.OnURLChange != nil {
		wv.opts.OnURLChange(wv, url)
	}
}

func (wv *WebView) messageReceived(payload string) {
	if wv.bridgeDeliver(payload) {
		return
	}
	if wv.opts.OnMessage != nil {
		wv.opts.OnMessage(wv, payload)
	}
}

func (wv *WebView) fullscreenChanged(fullscreen bool) {
	if wv.opts.OnFullscreenChange != nil {
		wv.opts.OnFullscreenChange(wv, fullscreen)
	}
}

func (wv *WebView) painted(buf unsafe.Pointer, width, height int32) {
	if wv.opts.OnPaint == nil || buf == nil || width <= 0 || height <= 0 {
		return
	}
	frame := unsafe.Slice((*byte)(buf), int(width)*int(height)*4)
	wv.opts.OnPaint(wv, frame, width, height)
}

func (wv *WebView) imeRectChanged(rect Rect) {
	if wv.opts.OnIMERect != nil {
		wv.opts.OnIMERect(wv, rect)
	}
}
