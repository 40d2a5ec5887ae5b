package runtime

import (
	"context"
	"sync"

	"github.com/drblury/mqlog/internal/runtime/record"
)

type publishCall struct {
	destination string
	payload     []byte
}

// recordingPublisher records every Publish call and fails with err when set.
type recordingPublisher struct {
	mu    sync.Mutex
	calls []publishCall
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, destination string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.calls = append(p.calls, publishCall{destination: destination, payload: append([]byte(nil), payload...)})
	return nil
}

func (p *recordingPublisher) published() []publishCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishCall(nil), p.calls...)
}

type capturedError struct {
	rec *record.Record
	err *EmitError
}

// errorRecorder is an ErrorHandler collecting every reported failure.
type errorRecorder struct {
	mu     sync.Mutex
	errors []capturedError
}

func (r *errorRecorder) handle(rec *record.Record, err *EmitError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, capturedError{rec: rec, err: err})
}

func (r *errorRecorder) captured() []capturedError {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedError(nil), r.errors...)
}

// newTestHandler returns a handler publishing to "app-logs" through a
// recording publisher.
func newTestHandler(opts ...HandlerOption) (*Handler, *recordingPublisher, *errorRecorder) {
	pub := &recordingPublisher{}
	errs := &errorRecorder{}
	opts = append([]HandlerOption{WithErrorHandler(errs.handle)}, opts...)
	return NewHandler(NewChannel("app-logs", pub), opts...), pub, errs
}
