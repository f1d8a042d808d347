//go:build !ios && !android && (amd64 || arm64)

package wew

import "unsafe"

// Runtime is an opaque engine runtime pointer.
type Runtime = unsafe.Pointer

// WebView is an opaque engine webview pointer.
type WebView = unsafe.Pointer

// WindowHandle is a native window handle (HWND, NSView*, X11 Window).
type WindowHandle = unsafe.Pointer

// State identifies a webview lifecycle transition reported by the engine.
type State int32

const (
	StateBeforeLoad   State = 1
	StateLoaded       State = 2
	StateLoadError    State = 3
	StateRequestClose State = 4
	StateClose        State = 5
)

// MouseButton identifies a mouse button in engine coordinates.
type MouseButton int32

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonMiddle MouseButton = 1
	MouseButtonRight  MouseButton = 2
)

// KeyEventType identifies the kind of keyboard event.
type KeyEventType int32

const (
	KeyEventRawKeyDown KeyEventType = 0
	KeyEventKeyDown    KeyEventType = 1
	KeyEventKeyUp      KeyEventType = 2
	KeyEventChar       KeyEventType = 3
)

// TouchEventType identifies the phase of a touch contact.
type TouchEventType int32

const (
	TouchReleased  TouchEventType = 0
	TouchPressed   TouchEventType = 1
	TouchMoved     TouchEventType = 2
	TouchCancelled TouchEventType = 3
)

// PointerType identifies the device that produced a touch event.
type PointerType int32

const (
	PointerTypeTouch   PointerType = 0
	PointerTypeMouse   PointerType = 1
	PointerTypePen     PointerType = 2
	PointerTypeEraser  PointerType = 3
	PointerTypeUnknown PointerType = 4
)

// LogSeverity controls the engine's own log output.
type LogSeverity int32

const (
	LogSeverityDefault LogSeverity = 0
	LogSeverityVerbose LogSeverity = 1
	LogSeverityInfo    LogSeverity = 2
	LogSeverityWarning LogSeverity = 3
	LogSeverityError   LogSeverity = 4
	LogSeverityFatal   LogSeverity = 5
	LogSeverityDisable LogSeverity = 99
)

// RuntimeSettings mirrors wew_runtime_settings_t. String fields are
// NUL-terminated C strings owned by the caller for the duration of the
// create_runtime call; the engine copies what it keeps.
type RuntimeSettings struct {
	CachePath             *byte
	RootCachePath         *byte
	BrowserSubprocessPath *byte
	Locale                *byte
	UserAgent             *byte
	MainBundlePath        *byte
	LogSeverity           int32
	RemoteDebuggingPort   int32
	WindowlessRendering   int32
	ExternalMessagePump   int32
	MultiThreadedLoop     int32
	NoSandbox             int32
}

// RuntimeHandler mirrors wew_runtime_handler_t. Callback fields are
// purego.NewCallback pointers; Context is an opaque value passed back as
// the first argument of every callback.
type RuntimeHandler struct {
	Context                   uintptr
	OnContextInitialized      uintptr // void (*)(uintptr_t ctx)
	OnScheduleMessagePumpWork uintptr // void (*)(uintptr_t ctx, int64_t delay_ms)
}

// WebViewSettings mirrors wew_webview_settings_t.
type WebViewSettings struct {
	ParentWindowHandle   uintptr
	Width                int32
	Height               int32
	FrameRate            int32
	DefaultFontSize      int32
	DefaultFixedFontSize int32
	DeviceScaleFactor    float32
	BackgroundColor      uint32
	JavaScript           int32
	LocalStorage         int32
	ClipboardAccess      int32
	WindowlessRendering  int32
	DevTools             int32
	Transparent          int32
}

// WebViewHandler mirrors wew_webview_handler_t. String arguments passed to
// callbacks are valid only for the duration of the call.
type WebViewHandler struct {
	Context            uintptr
	OnStateChange      uintptr // void (*)(uintptr_t ctx, int32_t state)
	OnTitleChange      uintptr // void (*)(uintptr_t ctx, const char *title)
	OnURLChange        uintptr // void (*)(uintptr_t ctx, const char *url)
	OnMessage          uintptr // void (*)(uintptr_t ctx, const char *payload)
	OnFullscreenChange uintptr // void (*)(uintptr_t ctx, int32_t fullscreen)
	OnPaint            uintptr // void (*)(uintptr_t ctx, const void *buf, int32_t w, int32_t h)
	OnIMERect          uintptr // void (*)(uintptr_t ctx, int32_t x, int32_t y, int32_t w, int32_t h)
}

// KeyEvent mirrors wew_key_event_t.
type KeyEvent struct {
	Type                KeyEventType
	Modifiers           uint32
	WindowsKeyCode      int32
	NativeKeyCode       int32
	IsSystemKey         int32
	Character           uint16
	UnmodifiedCharacter uint16
	FocusOnEditableText int32
}

// TouchEvent mirrors wew_touch_event_t.
type TouchEvent struct {
	ID            int32
	X             float32
	Y             float32
	RadiusX       float32
	RadiusY       float32
	RotationAngle float32
	Pressure      float32
	Type          TouchEventType
	Modifiers     uint32
	PointerType   PointerType
}

// ResourceRequest mirrors wew_resource_request_t. Filled by the engine
// before the request callback fires; string fields are valid only for the
// duration of the callback.
type ResourceRequest struct {
	URL      *byte
	Method   *byte
	Referrer *byte
}

// ResourceResponse mirrors wew_resource_response_t. Filled by the Go
// callback; MimeType and Body may point into Go memory but the caller
// must keep that memory alive until the engine has copied it, which can
// happen shortly after the callback returns.
type ResourceResponse struct {
	MimeType *byte
	Body     unsafe.Pointer
	BodyLen  uint64
	Status   int32
	reserved int32
}

// ResourceRequestHandler mirrors wew_resource_request_handler_t.
type ResourceRequestHandler struct {
	Context   uintptr
	OnRequest uintptr // int32_t (*)(uintptr_t ctx, const wew_resource_request_t *, wew_resource_response_t *)
}
