//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/cstr"
	"github.com/wevgo/wevgo/internal/handles"
	"github.com/wevgo/wevgo/internal/waitbox"
	"github.com/wevgo/wevgo/wew"
)

// ErrWebViewsOpen indicates Close was called while webviews are alive.
var ErrWebViewsOpen = errors.New("wevgo: close all webviews before closing the runtime")

// runtimeLive enforces the engine's one-runtime-per-process rule. Set
// before engine initialization and cleared on Close, and on every failed
// construction so a failure does not poison the process.
var runtimeLive atomic.Bool

// Runtime owns an initialized engine instance. A process can hold at
// most one at a time; create it with New and release it with Close.
type Runtime struct {
	mu     sync.Mutex
	ptr    wew.Runtime
	handle uintptr
	mode   LoopMode
	closed bool

	webviews int

	initialized *waitbox.Box[struct{}]
	loopDone    chan struct{}

	onContextInitialized func()
	onPumpWork           func(delay time.Duration)

	// Backing storage for C strings handed to the engine during
	// initialization. Held so the GC cannot collect them mid-call.
	owned [][]byte
}

// RuntimeOptions configures engine initialization.
type RuntimeOptions struct {
	// CachePath is the per-profile cache directory. Empty means
	// incognito mode.
	CachePath string

	// RootCachePath is the parent of all cache directories.
	RootCachePath string

	// SubprocessPath points at a dedicated helper executable for engine
	// subprocesses. Empty means the current executable is re-invoked,
	// which requires calling ExecuteSubprocess at the top of main.
	SubprocessPath string

	// Locale for engine UI strings, e.g. "en-US".
	Locale string

	// UserAgent overrides the engine default.
	UserAgent string

	// MainBundlePath is the .app bundle path on macOS.
	MainBundlePath string

	// LogSeverity controls the engine's own log file output.
	LogSeverity LogSeverity

	// RemoteDebuggingPort exposes the DevTools protocol when non-zero.
	RemoteDebuggingPort int

	// WindowlessRendering enables off-screen rendering for webviews
	// created without a parent window.
	WindowlessRendering bool

	// NoSandbox disables the engine sandbox.
	NoSandbox bool

	// LoopMode selects the message loop strategy. The default is
	// LoopBlocking.
	LoopMode LoopMode

	// Args is the process command line handed to the engine. Defaults
	// to os.Args.
	Args []string

	// OnContextInitialized runs on the engine UI thread once the engine
	// is ready to create webviews.
	OnContextInitialized func()

	// OnSchedulePumpWork is required in LoopPump mode. The engine calls
	// it, possibly from any thread, when PollMessageLoop should run
	// after the given delay.
	OnSchedulePumpWork func(delay time.Duration)
}

// RuntimeOption is a functional option for configuring a runtime.
type RuntimeOption func(*RuntimeOptions)

// WithCachePath sets the per-profile cache directory.
func WithCachePath(path string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.CachePath = path
	}
}

// WithRootCachePath sets the parent directory of all cache directories.
func WithRootCachePath(path string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.RootCachePath = path
	}
}

// WithSubprocessPath points engine subprocesses at a helper executable.
func WithSubprocessPath(path string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.SubprocessPath = path
	}
}

// WithLocale sets the engine UI locale.
func WithLocale(locale string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.Locale = locale
	}
}

// WithUserAgent overrides the default user agent.
func WithUserAgent(ua string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.UserAgent = ua
	}
}

// WithMainBundlePath sets the macOS app bundle path.
func WithMainBundlePath(path string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.MainBundlePath = path
	}
}

// WithLogSeverity sets the engine's own log verbosity.
func WithLogSeverity(severity LogSeverity) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.LogSeverity = severity
	}
}

// WithRemoteDebuggingPort exposes the DevTools protocol on the port.
func WithRemoteDebuggingPort(port int) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.RemoteDebuggingPort = port
	}
}

// WithWindowlessRendering enables off-screen rendering support.
func WithWindowlessRendering() RuntimeOption {
	return func(o *RuntimeOptions) {
		o.WindowlessRendering = true
	}
}

// WithNoSandbox disables the engine sandbox.
func WithNoSandbox() RuntimeOption {
	return func(o *RuntimeOptions) {
		o.NoSandbox = true
	}
}

// WithLoopMode selects the message loop strategy.
func WithLoopMode(mode LoopMode) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.LoopMode = mode
	}
}

// WithArgs overrides the command line handed to the engine.
func WithArgs(args []string) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.Args = args
	}
}

// WithContextInitializedHandler registers a callback for engine readiness.
func WithContextInitializedHandler(fn func()) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.OnContextInitialized = fn
	}
}

// WithPumpScheduler registers the LoopPump work scheduler.
func WithPumpScheduler(fn func(delay time.Duration)) RuntimeOption {
	return func(o *RuntimeOptions) {
		o.OnSchedulePumpWork = fn
	}
}

// New initializes the engine and returns the process Runtime.
//
// Engine initialization is asynchronous: New returns as soon as the
// native side accepts the configuration. Use Ready, the
// OnContextInitialized callback, or NewContext to wait until webviews
// can be created.
//
// In LoopBlocking and LoopPump modes New must be called from the thread
// that will drive the loop; on macOS that is the main thread. In
// LoopThreaded mode the binding creates and pins a loop thread itself.
func New(opts ...RuntimeOption) (*Runtime, error) {
	options := RuntimeOptions{
		Args: os.Args,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if err := nativeLoad(); err != nil {
		return nil, err
	}

	mode := effectiveLoopMode(options.LoopMode)
	if mode == LoopPump && options.OnSchedulePumpWork == nil {
		return nil, errors.New("wevgo: pump mode requires WithPumpScheduler")
	}

	if !runtimeLive.CompareAndSwap(false, true) {
		return nil, ErrRuntimeAlreadyExists
	}

	rt := &Runtime{
		mode:                 mode,
		initialized:          waitbox.New[struct{}](),
		loopDone:             make(chan struct{}),
		onContextInitialized: options.OnContextInitialized,
		onPumpWork:           options.OnSchedulePumpWork,
	}
	rt.handle = handles.Register(rt)

	if err := rt.start(&options); err != nil {
		handles.Unregister(rt.handle)
		runtimeLive.Store(false)
		return nil, err
	}
	return rt, nil
}

// start performs native initialization, on the caller's thread or on a
// dedicated pinned thread in LoopThreaded mode.
func (r *Runtime) start(options *RuntimeOptions) error {
	settings, err := r.buildSettings(options)
	if err != nil {
		return err
	}
	args, err := cstr.NewArgs(options.Args)
	if err != nil {
		return fmt.Errorf("command line: %w", err)
	}

	ensureEngineCallbacks()
	handler := &wew.RuntimeHandler{
		Context:                   r.handle,
		OnContextInitialized:      cbContextInitialized,
		OnScheduleMessagePumpWork: cbSchedulePumpWork,
	}

	if r.mode != LoopThreaded {
		err := r.initNative(settings, handler, args)
		close(r.loopDone)
		return err
	}

	// The engine requires initialization and the loop on the same
	// thread, so both happen on one locked goroutine.
	errCh := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		err := r.initNative(settings, handler, args)
		errCh <- err
		if err != nil {
			close(r.loopDone)
			return
		}
		nativeRunMessageLoop()
		close(r.loopDone)
	}()
	return <-errCh
}

func (r *Runtime) initNative(settings *wew.RuntimeSettings, handler *wew.RuntimeHandler, args *cstr.Args) error {
	ptr := nativeCreateRuntime(settings, handler)
	if ptr == nil {
		return ErrFailedToCreateRuntime
	}
	if rc := nativeExecuteRuntime(ptr, int32(args.Len()), args.Pointer()); rc < 0 {
		nativeCloseRuntime(ptr)
		return fmt.Errorf("%w: engine returned %d", ErrFailedToCreateRuntime, rc)
	}
	runtime.KeepAlive(settings)
	runtime.KeepAlive(args)

	r.mu.Lock()
	r.ptr = ptr
	r.mu.Unlock()

	Logger().Info("engine runtime initialized",
		zap.Stringer("loop_mode", r.mode))
	return nil
}

func (r *Runtime) buildSettings(options *RuntimeOptions) (*wew.RuntimeSettings, error) {
	settings := &wew.RuntimeSettings{
		LogSeverity:         int32(options.LogSeverity),
		RemoteDebuggingPort: int32(options.RemoteDebuggingPort),
	}
	if options.WindowlessRendering {
		settings.WindowlessRendering = 1
	}
	if r.mode == LoopPump {
		settings.ExternalMessagePump = 1
	}
	if r.mode == LoopThreaded {
		settings.MultiThreadedLoop = 1
	}
	if options.NoSandbox {
		settings.NoSandbox = 1
	}

	for _, field := range []struct {
		dst **byte
		val string
	}{
		{&settings.CachePath, options.CachePath},
		{&settings.RootCachePath, options.RootCachePath},
		{&settings.BrowserSubprocessPath, options.SubprocessPath},
		{&settings.Locale, options.Locale},
		{&settings.UserAgent, options.UserAgent},
		{&settings.MainBundlePath, options.MainBundlePath},
	} {
		buf, ptr, err := cstr.Opt(field.val)
		if err != nil {
			return nil, err
		}
		if buf != nil {
			r.owned = append(r.owned, buf)
		}
		*field.dst = ptr
	}
	return settings, nil
}

// Ready blocks until the engine has finished asynchronous initialization
// and webviews can be created, or ctx is done. Returns ErrRuntimeClosed
// if the runtime was closed before initialization completed.
func (r *Runtime) Ready(ctx context.Context) error {
	_, ok, err := r.initialized.Wait(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRuntimeClosed
	}
	return nil
}

// PostTask schedules fn on the engine's browser UI thread.
func (r *Runtime) PostTask(fn func()) error {
	if fn == nil {
		return nil
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrRuntimeClosed
	}
	r.mu.Unlock()

	h := handles.Register(fn)
	if !nativePostTask(cbPostedTask, h) {
		handles.Unregister(h)
		return errors.New("wevgo: engine rejected posted task")
	}
	return nil
}

// ExitCode returns the exit code the engine recorded for this process.
// Pass it to os.Exit after Close when the engine requested termination.
func (r *Runtime) ExitCode() int {
	return int(nativeGetExitCode())
}

// Close shuts the engine down and releases the process runtime slot.
// All webviews must be closed first; Close fails with ErrWebViewsOpen
// otherwise. Safe to call multiple times.
func (r *Runtime) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	if r.webviews > 0 {
		n := r.webviews
		r.mu.Unlock()
		Logger().Error("runtime close refused", zap.Int("open_webviews", n))
		return ErrWebViewsOpen
	}
	r.closed = true
	ptr := r.ptr
	r.ptr = nil
	mode := r.mode
	r.mu.Unlock()

	// Stop the loop before tearing the engine down. In blocking mode
	// the application's RunMessageLoop call returns as a result.
	if mode == LoopBlocking || mode == LoopThreaded {
		nativeQuitMessageLoop()
	}
	if mode == LoopThreaded {
		<-r.loopDone
	}

	if ptr != nil {
		nativeCloseRuntime(ptr)
	}
	r.initialized.Drop()
	handles.Unregister(r.handle)
	runtimeLive.Store(false)

	Logger().Info("engine runtime closed")
	return nil
}

// contextInitialized runs on the engine UI thread.
func (r *Runtime) contextInitialized() {
	r.initialized.Resolve(struct{}{})
	if r.onContextInitialized != nil {
		r.onContextInitialized()
	}
}

// schedulePumpWork runs on an arbitrary engine thread.
func (r *Runtime) schedulePumpWork(delayMS int64) {
	if r.onPumpWork != nil {
		r.onPumpWork(time.Duration(delayMS) * time.Millisecond)
	}
}

func (r *Runtime) addWebView() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRuntimeClosed
	}
	r.webviews++
	return nil
}

func (r *Runtime) removeWebView() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.webviews > 0 {
		r.webviews--
	}
}

func (r *Runtime) nativePtr() (wew.Runtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRuntimeClosed
	}
	return r.ptr, nil
}
