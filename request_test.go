//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"testing"
	"unsafe"

	"github.com/wevgo/wevgo/internal/cstr"
	"github.com/wevgo/wevgo/wew"
)

func fakeResourceRequest(t *testing.T, url, method, referrer string) *wew.ResourceRequest {
	t.Helper()
	_, urlPtr := cstr.Bytes(url)
	_, methodPtr := cstr.Bytes(method)
	req := &wew.ResourceRequest{URL: urlPtr, Method: methodPtr}
	if referrer != "" {
		_, refPtr := cstr.Bytes(referrer)
		req.Referrer = refPtr
	}
	return req
}

func TestRequestFilterAnswers(t *testing.T) {
	f := installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	wv, err := rt.CreateWebView("app://index.html")
	if err != nil {
		t.Fatalf("CreateWebView failed: %v", err)
	}
	defer wv.Close()

	var seen Request
	err = wv.SetRequestFilter(func(_ *WebView, req Request) *Response {
		seen = req
		return &Response{Body: []byte("<html>hi</html>")}
	})
	if err != nil {
		t.Fatalf("SetRequestFilter failed: %v", err)
	}

	fv := f.singleView(t)
	if fv.reqHandler == nil || fv.reqHandler.Context != fv.handler.Context {
		t.Fatal("request handler was not installed on the engine")
	}

	req := fakeResourceRequest(t, "app://index.html", "GET", "app://")
	var resp wew.ResourceResponse
	if got := dispatchResourceRequest(fv.reqHandler.Context, req, &resp); got != 1 {
		t.Fatalf("dispatch returned %d, want 1", got)
	}

	if seen.URL != "app://index.html" || seen.Method != "GET" || seen.Referrer != "app://" {
		t.Fatalf("request = %+v", seen)
	}
	if resp.Status != 200 {
		t.Errorf("default status = %d, want 200", resp.Status)
	}
	if got := cstr.GoString(resp.MimeType); got != "text/html" {
		t.Errorf("default mime = %q, want text/html", got)
	}
	if resp.BodyLen != uint64(len("<html>hi</html>")) {
		t.Errorf("body length = %d", resp.BodyLen)
	}
	body := unsafe.Slice((*byte)(resp.Body), resp.BodyLen)
	if string(body) != "<html>hi</html>" {
		t.Errorf("body = %q", body)
	}
}

func TestRequestFilterExplicitFields(t *testing.T) {
	f := installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	wv, err := rt.CreateWebView("app://index.html")
	if err != nil {
		t.Fatalf("CreateWebView failed: %v", err)
	}
	defer wv.Close()

	_ = wv.SetRequestFilter(func(*WebView, Request) *Response {
		return &Response{Status: 404, MimeType: "application/json", Body: []byte(`{}`)}
	})

	fv := f.singleView(t)
	var resp wew.ResourceResponse
	dispatchResourceRequest(fv.reqHandler.Context, fakeResourceRequest(t, "app://missing", "GET", ""), &resp)

	if resp.Status != 404 {
		t.Errorf("status = %d, want 404", resp.Status)
	}
	if got := cstr.GoString(resp.MimeType); got != "application/json" {
		t.Errorf("mime = %q", got)
	}
}

func TestRequestFilterPassThrough(t *testing.T) {
	f := installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	wv, err := rt.CreateWebView("https://example.com")
	if err != nil {
		t.Fatalf("CreateWebView failed: %v", err)
	}
	defer wv.Close()

	_ = wv.SetRequestFilter(func(*WebView, Request) *Response {
		return nil // let the engine load it
	})

	fv := f.singleView(t)
	var resp wew.ResourceResponse
	if got := dispatchResourceRequest(fv.reqHandler.Context, fakeResourceRequest(t, "https://example.com/x", "GET", ""), &resp); got != 0 {
		t.Fatalf("dispatch returned %d, want 0 for pass-through", got)
	}
}

func TestRequestFilterOptionInstalledAtCreation(t *testing.T) {
	f := installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	wv, err := rt.CreateWebView("app://index.html",
		WithRequestFilter(func(*WebView, Request) *Response {
			return &Response{Body: []byte("ok")}
		}))
	if err != nil {
		t.Fatalf("CreateWebView failed: %v", err)
	}
	defer wv.Close()

	fv := f.singleView(t)
	if fv.reqHandler == nil {
		t.Fatal("filter option must install the handler during creation")
	}
	var resp wew.ResourceResponse
	if got := dispatchResourceRequest(fv.reqHandler.Context, fakeResourceRequest(t, "app://index.html", "GET", ""), &resp); got != 1 {
		t.Fatalf("dispatch returned %d, want 1", got)
	}
}

func TestRequestFilterRemoval(t *testing.T) {
	f := installFakeEngine(t)
	rt := mustRuntime(t)
	defer rt.Close()

	wv, err := rt.CreateWebView("https://example.com")
	if err != nil {
		t.Fatalf("CreateWebView failed: %v", err)
	}
	defer wv.Close()

	_ = wv.SetRequestFilter(func(*WebView, Request) *Response { return &Response{} })
	_ = wv.SetRequestFilter(nil)

	fv := f.singleView(t)
	if fv.reqHandler != nil {
		t.Fatal("request handler still installed after removal")
	}

	// A straggling engine call after removal is a pass-through.
	var resp wew.ResourceResponse
	if got := dispatchResourceRequest(fv.handler.Context, fakeResourceRequest(t, "https://example.com", "GET", ""), &resp); got != 0 {
		t.Fatalf("dispatch returned %d, want 0 after removal", got)
	}
}
