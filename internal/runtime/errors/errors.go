package errors

import sterrors "errors"

var (
	ErrPublisherRequired   = sterrors.New("mqlog: publisher is required")
	ErrTopicRequired       = sterrors.New("mqlog: destination is required")
	ErrChannelRequired     = sterrors.New("mqlog: channel is required")
	ErrChannelNameRequired = sterrors.New("mqlog: you must specify a {\"channel\": \"name\"} parameter when no configured channel is passed")
	ErrConfigRequired      = sterrors.New("mqlog: configuration is required")
	ErrRecordRequired      = sterrors.New("mqlog: log record is required")
	ErrInvalidUTF8Payload  = sterrors.New("mqlog: payload is not valid UTF-8")
	ErrSubscriberRequired  = sterrors.New("mqlog: subscriber is required")
	ErrHandlerRequired     = sterrors.New("mqlog: handler is required")
	ErrPayloadTooLarge     = sterrors.New("mqlog: payload exceeds the transport message size limit")
)

// ConfigValidationError reports a configuration that could not be turned into
// a working channel.
type ConfigValidationError struct {
	Err error
}

func (e ConfigValidationError) Error() string {
	return "mqlog: invalid configuration: " + e.Err.Error()
}

func (e ConfigValidationError) Unwrap() error {
	return e.Err
}

// NewConfigValidationError wraps err, returning nil when err is nil.
func NewConfigValidationError(err error) error {
	if err == nil {
		return nil
	}
	return ConfigValidationError{Err: err}
}
