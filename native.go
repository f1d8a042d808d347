//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"github.com/wevgo/wevgo/wew"
)

// Engine entry points used by the high-level API. Declared as variables
// so tests can substitute an in-process fake engine.
var (
	nativeLoad = wew.Load

	nativeExecuteSubprocess = wew.ExecuteSubprocess
	nativeGetExitCode       = wew.GetExitCode

	nativeRunMessageLoop  = wew.RunMessageLoop
	nativeQuitMessageLoop = wew.QuitMessageLoop
	nativePollMessageLoop = wew.PollMessageLoop
	nativePostTask        = wew.PostTask

	nativeCreateRuntime  = wew.CreateRuntime
	nativeExecuteRuntime = wew.ExecuteRuntime
	nativeCloseRuntime   = wew.CloseRuntime

	nativeCreateWebView = wew.CreateWebView
	nativeCloseWebView  = wew.CloseWebView

	nativeMouseClick = wew.MouseClick
	nativeMouseMove  = wew.MouseMove
	nativeMouseWheel = wew.MouseWheel
	nativeKeyboard   = wew.Keyboard
	nativeTouch      = wew.Touch

	nativeIMECommit         = wew.IMECommit
	nativeIMESetComposition = wew.IMESetComposition

	nativeSendMessage      = wew.SendMessage
	nativeSetDevToolsState = wew.SetDevToolsState
	nativeResize           = wew.Resize
	nativeGetWindowHandle  = wew.GetWindowHandle

	nativeSetRequestHandler = wew.SetRequestHandler
)
