package runtime

import (
	"context"
	"fmt"
	goruntime "runtime"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/drblury/mqlog/internal/runtime/logmessage"
	"github.com/drblury/mqlog/internal/runtime/record"
)

// ExtraValueAtEndKey holds the trailing value of an odd-length argument list.
const ExtraValueAtEndKey = "EXTRA_VALUE_AT_END"

const hclogPackage = "github.com/hashicorp/go-hclog."

// HCLogSinkOptions configures an HCLogSink.
type HCLogSinkOptions struct {
	// Level is the minimum level forwarded. Defaults to hclog.Info.
	Level hclog.Level
	// LevelMapper converts hclog levels to record levels. Defaults to HCLogLevel.
	LevelMapper func(hclog.Level) int
}

// HCLogSink is an hclog.SinkAdapter that forwards every accepted line to a
// Handler. Register it on an hclog.InterceptLogger with RegisterSink.
type HCLogSink struct {
	handler *Handler
	opts    HCLogSinkOptions
}

var _ hclog.SinkAdapter = (*HCLogSink)(nil)

// NewHCLogSink returns a sink emitting through h.
func NewHCLogSink(h *Handler, opts *HCLogSinkOptions) *HCLogSink {
	if h == nil {
		h = NewHandler(nil)
	}
	s := &HCLogSink{handler: h}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.Level == hclog.NoLevel {
		s.opts.Level = hclog.Info
	}
	if s.opts.LevelMapper == nil {
		s.opts.LevelMapper = HCLogLevel
	}
	return s
}

// HCLogLevel maps an hclog level to the log level enum.
func HCLogLevel(level hclog.Level) int {
	switch level {
	case hclog.Trace, hclog.Debug:
		return int(logmessage.LevelDebug)
	case hclog.Warn:
		return int(logmessage.LevelWarning)
	case hclog.Error:
		return int(logmessage.LevelError)
	default:
		return int(logmessage.LevelInfo)
	}
}

// Accept implements hclog.SinkAdapter.
func (s *HCLogSink) Accept(name string, level hclog.Level, msg string, args ...interface{}) {
	if level == hclog.Off || level < s.opts.Level {
		return
	}
	if name == "" {
		name = DefaultLoggerName
	}

	rec := record.New(name, s.opts.LevelMapper(level), msg)
	rec.Extra = pairs(args)
	rec.Func, rec.Line = hclogCaller()

	s.handler.Emit(context.Background(), rec)
}

// pairs turns hclog key/value arguments into a metadata map.
func pairs(args []interface{}) map[string]any {
	extra := make(map[string]any, len(args)/2+1)
	if len(args)%2 != 0 {
		extra[ExtraValueAtEndKey] = args[len(args)-1]
		args = args[:len(args)-1]
	}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		extra[key] = args[i+1]
	}
	return extra
}

// hclogCaller returns the first frame outside hclog and the sink.
func hclogCaller() (string, int) {
	pcs := make([]uintptr, 32)
	n := goruntime.Callers(3, pcs)
	frames := goruntime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasPrefix(frame.Function, hclogPackage) && !strings.Contains(frame.Function, "(*HCLogSink)") {
			return shortFuncName(frame.Function), frame.Line
		}
		if !more {
			return "", 0
		}
	}
}
