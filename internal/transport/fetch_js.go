//go:build js && wasm

package transport

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fetchGetter is the browser backend, built on the host's fetch
// capability via syscall/js. Requests are subject to the page's CORS
// policy; the timeout is enforced on the Go side since fetch has no
// native deadline.
type fetchGetter struct {
	timeout time.Duration
}

// New returns the Getter for this platform.
func New(timeout time.Duration) Getter {
	return &fetchGetter{timeout: timeout}
}

func (g *fetchGetter) GetJSON(ctx context.Context, url string, v any) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := await(ctx, js.Global().Call("fetch", url))
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	status := resp.Get("status").Int()
	if status < 200 || status > 299 {
		return &Error{Kind: KindStatus, Status: status}
	}

	body, err := await(ctx, resp.Call("text"))
	if err != nil {
		return &Error{Kind: KindNetwork, Err: err}
	}

	if err := json.UnmarshalFromString(body.String(), v); err != nil {
		return &Error{Kind: KindDecode, Err: err}
	}
	return nil
}

// await blocks until the promise settles or the context ends. A
// rejected promise or an expired context surfaces as an error; the
// settled value is discarded in the latter case.
func await(ctx context.Context, promise js.Value) (js.Value, error) {
	type settled struct {
		value js.Value
		err   error
	}
	done := make(chan settled, 1)

	var onResolve, onReject js.Func
	release := func() {
		onResolve.Release()
		onReject.Release()
	}

	onResolve = js.FuncOf(func(_ js.Value, args []js.Value) any {
		var v js.Value
		if len(args) > 0 {
			v = args[0]
		}
		done <- settled{value: v}
		return nil
	})
	onReject = js.FuncOf(func(_ js.Value, args []js.Value) any {
		msg := "promise rejected"
		if len(args) > 0 {
			msg = jsErrorMessage(args[0])
		}
		done <- settled{err: errors.New(msg)}
		return nil
	})
	promise.Call("then", onResolve, onReject)

	select {
	case s := <-done:
		release()
		return s.value, s.err
	case <-ctx.Done():
		// The handlers release themselves once the promise settles.
		go func() {
			<-done
			release()
		}()
		return js.Value{}, ctx.Err()
	}
}

func jsErrorMessage(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return fmt.Sprintf("promise rejected: %s", v.Type())
}
