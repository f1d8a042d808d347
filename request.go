//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"runtime"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/cstr"
	"github.com/wevgo/wevgo/wew"
)

// Request describes a resource request intercepted from a webview.
type Request struct {
	URL      string
	Method   string
	Referrer string
}

// Response answers an intercepted request. A zero Status means 200 and
// an empty MimeType means "text/html". Body may be nil.
type Response struct {
	Status   int
	MimeType string
	Body     []byte
}

// RequestFilter decides whether to answer an intercepted request. It
// runs on an engine IO thread and must not block. Returning nil lets
// the engine load the resource normally.
//
// This is how custom schemes are served: register the scheme host page
// as the webview URL and answer its requests here.
type RequestFilter func(wv *WebView, req Request) *Response

// SetRequestFilter installs filter on the webview. Pass nil to remove
// it and restore default loading.
func (wv *WebView) SetRequestFilter(filter RequestFilter) error {
	ptr, err := wv.nativePtr()
	if err != nil {
		return err
	}

	wv.mu.Lock()
	wv.filter = filter
	wv.mu.Unlock()

	if filter == nil {
		nativeSetRequestHandler(ptr, nil)
		return nil
	}
	ensureEngineCallbacks()
	nativeSetRequestHandler(ptr, &wew.ResourceRequestHandler{
		Context:   wv.handle,
		OnRequest: cbResourceRequest,
	})
	return nil
}

// answerResourceRequest runs on an engine IO thread. The engine copies
// the response buffers shortly after the callback returns; they are
// pinned on the webview to cover that window.
func (wv *WebView) answerResourceRequest(req *wew.ResourceRequest, resp *wew.ResourceResponse) bool {
	wv.mu.Lock()
	filter := wv.filter
	wv.mu.Unlock()
	if filter == nil {
		return false
	}

	out := filter(wv, Request{
		URL:      cstr.GoString(req.URL),
		Method:   cstr.GoString(req.Method),
		Referrer: cstr.GoString(req.Referrer),
	})
	if out == nil {
		return false
	}

	status := out.Status
	if status == 0 {
		status = 200
	}
	mime := out.MimeType
	if mime == "" {
		mime = "text/html"
	}
	mimeBuf, mimePtr, err := cstr.New(mime)
	if err != nil {
		Logger().Error("request filter produced an invalid mime type",
			zap.String("mime_type", mime), zap.Error(err))
		return false
	}

	resp.Status = int32(status)
	resp.MimeType = mimePtr
	if len(out.Body) > 0 {
		resp.Body = unsafe.Pointer(&out.Body[0])
		resp.BodyLen = uint64(len(out.Body))
	}

	// The engine reads the response buffers right after the callback
	// returns. Pin them on the webview until the next request so the GC
	// cannot reclaim them in that window.
	wv.mu.Lock()
	wv.pinned = [][]byte{mimeBuf, out.Body}
	wv.mu.Unlock()
	runtime.KeepAlive(out)
	return true
}
