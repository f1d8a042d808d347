//go:build !ios && !android && (amd64 || arm64)

package wevgo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wevgo/wevgo/internal/waitbox"
)

// DefaultBridgeTimeout bounds bridge calls whose context carries no
// deadline of its own.
const DefaultBridgeTimeout = 10 * time.Second

// BridgeHandler answers a named call from the page. It runs off the
// engine threads; the returned value is JSON-encoded as the result.
type BridgeHandler func(params json.RawMessage) (any, error)

// bridgeEnvelope is the wire format shared with the page script. Calls
// and answers are correlated by ID.
type bridgeEnvelope struct {
	Kind   string          `json:"type"`
	ID     uint64          `json:"id"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

const (
	bridgeKindRequest  = "request"
	bridgeKindResponse = "response"
)

type bridge struct {
	mu       sync.Mutex
	nextID   uint64
	pending  map[uint64]*waitbox.Box[bridgeEnvelope]
	handlers map[string]BridgeHandler
}

func newBridge() *bridge {
	return &bridge{
		pending:  make(map[uint64]*waitbox.Box[bridgeEnvelope]),
		handlers: make(map[string]BridgeHandler),
	}
}

// CallBridge invokes a function exposed by the page script and decodes
// its answer into result, which may be nil when no answer payload is
// expected. params must be JSON-encodable. Without a deadline on ctx
// the call is bounded by DefaultBridgeTimeout.
func (wv *WebView) CallBridge(ctx context.Context, method string, params, result any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeSerde, err)
	}

	br := wv.br
	br.mu.Lock()
	br.nextID++
	id := br.nextID
	box := waitbox.New[bridgeEnvelope]()
	br.pending[id] = box
	br.mu.Unlock()

	defer func() {
		br.mu.Lock()
		delete(br.pending, id)
		br.mu.Unlock()
	}()

	payload, err := json.Marshal(bridgeEnvelope{
		Kind:   bridgeKindRequest,
		ID:     id,
		Method: method,
		Params: raw,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBridgeSerde, err)
	}
	if err := wv.SendMessage(string(payload)); err != nil {
		return err
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultBridgeTimeout)
		defer cancel()
	}

	answer, ok, err := box.Wait(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrBridgeTimeout
		}
		return err
	}
	if !ok {
		return ErrWebViewClosed
	}
	if answer.Error != "" {
		return fmt.Errorf("%w: %s", ErrBridgeCall, answer.Error)
	}
	if result != nil && len(answer.Result) > 0 {
		if err := json.Unmarshal(answer.Result, result); err != nil {
			return fmt.Errorf("%w: %v", ErrBridgeSerde, err)
		}
	}
	return nil
}

// HandleBridge exposes fn to the page under the given method name.
// Passing nil removes the handler.
func (wv *WebView) HandleBridge(method string, fn BridgeHandler) {
	br := wv.br
	br.mu.Lock()
	defer br.mu.Unlock()
	if fn == nil {
		delete(br.handlers, method)
		return
	}
	br.handlers[method] = fn
}

// bridgeDeliver routes an incoming page message through the bridge.
// Reports whether the payload was a bridge envelope; anything else goes
// to the plain message handler.
func (wv *WebView) bridgeDeliver(payload string) bool {
	var env bridgeEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil || env.ID == 0 {
		return false
	}

	switch env.Kind {
	case bridgeKindResponse:
		br := wv.br
		br.mu.Lock()
		box := br.pending[env.ID]
		br.mu.Unlock()
		if box == nil {
			Logger().Debug("bridge answer with no caller", zap.Uint64("id", env.ID))
			return true
		}
		box.Resolve(env)
		return true

	case bridgeKindRequest:
		br := wv.br
		br.mu.Lock()
		fn := br.handlers[env.Method]
		br.mu.Unlock()

		// Answer off the engine thread; handlers may take their time
		// or call back into the webview.
		go wv.answerBridge(env, fn)
		return true

	default:
		return false
	}
}

func (wv *WebView) answerBridge(env bridgeEnvelope, fn BridgeHandler) {
	answer := bridgeEnvelope{Kind: bridgeKindResponse, ID: env.ID}

	if fn == nil {
		answer.Error = "unknown method: " + env.Method
	} else if result, err := fn(env.Params); err != nil {
		answer.Error = err.Error()
	} else if result != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			answer.Error = "result not serializable: " + err.Error()
		} else {
			answer.Result = raw
		}
	}

	payload, err := json.Marshal(answer)
	if err != nil {
		Logger().Error("bridge answer not serializable", zap.Error(err))
		return
	}
	if err := wv.SendMessage(string(payload)); err != nil {
		Logger().Debug("bridge answer dropped", zap.Error(err))
	}
}

// dropBridge fails every in-flight call, for Close.
func (wv *WebView) dropBridge() {
	br := wv.br
	br.mu.Lock()
	pending := br.pending
	br.pending = make(map[uint64]*waitbox.Box[bridgeEnvelope])
	br.mu.Unlock()
	for _, box := range pending {
		box.Drop()
	}
}
