package mqlog

import (
	runtimepkg "github.com/drblury/mqlog/internal/runtime"
	configpkg "github.com/drblury/mqlog/internal/runtime/config"
	errspkg "github.com/drblury/mqlog/internal/runtime/errors"
	jsoncodec "github.com/drblury/mqlog/internal/runtime/jsoncodec"
	loggingpkg "github.com/drblury/mqlog/internal/runtime/logging"
	logmessagepkg "github.com/drblury/mqlog/internal/runtime/logmessage"
	metadatapkg "github.com/drblury/mqlog/internal/runtime/metadata"
	recordpkg "github.com/drblury/mqlog/internal/runtime/record"
	serializerpkg "github.com/drblury/mqlog/internal/runtime/serializer"
	transportpkg "github.com/drblury/mqlog/internal/runtime/transport"
	newtransport "github.com/drblury/mqlog/transport"
)

type (
	Config           = configpkg.Config
	TransportFactory = transportpkg.Factory

	Handler       = runtimepkg.Handler
	HandlerOption = runtimepkg.HandlerOption
	ErrorHandler  = runtimepkg.ErrorHandler
	EmitError     = runtimepkg.EmitError
	Stage         = runtimepkg.Stage

	Channel                  = runtimepkg.Channel
	Publisher                = runtimepkg.Publisher
	PublisherFunc            = runtimepkg.PublisherFunc
	WatermillPublisher       = runtimepkg.WatermillPublisher
	WatermillPublisherOption = runtimepkg.WatermillPublisherOption

	SlogHandler        = runtimepkg.SlogHandler
	SlogHandlerOptions = runtimepkg.SlogHandlerOptions
	HCLogSink          = runtimepkg.HCLogSink
	HCLogSinkOptions   = runtimepkg.HCLogSinkOptions

	HandlerMetrics = runtimepkg.HandlerMetrics

	ReceivedLog = runtimepkg.ReceivedLog
	WireLog     = runtimepkg.WireLog
	TailFunc    = runtimepkg.TailFunc

	Record       = recordpkg.Record
	LogMessage   = logmessagepkg.LogMessage
	Level        = logmessagepkg.Level
	Serializable = serializerpkg.Serializable
	Field        = serializerpkg.Field

	Metadata = metadatapkg.Metadata

	LogFields     = loggingpkg.LogFields
	ServiceLogger = loggingpkg.ServiceLogger

	ConfigValidationError = errspkg.ConfigValidationError

	TransportBuilder      = newtransport.Builder
	TransportConfig       = newtransport.Config
	TransportRegistry     = newtransport.Registry
	TransportCapabilities = newtransport.Capabilities
	Transport             = newtransport.Transport
)

const (
	LevelCritical = logmessagepkg.LevelCritical
	LevelError    = logmessagepkg.LevelError
	LevelWarning  = logmessagepkg.LevelWarning
	LevelInfo     = logmessagepkg.LevelInfo
	LevelDebug    = logmessagepkg.LevelDebug

	StagePrepare   = runtimepkg.StagePrepare
	StageResolve   = runtimepkg.StageResolve
	StageNormalize = runtimepkg.StageNormalize
	StageSend      = runtimepkg.StageSend

	// Metadata keys understood on raw records.
	KeyLogType    = recordpkg.KeyLogType
	KeyType       = recordpkg.KeyType
	KeyObjectName = recordpkg.KeyObjectName
	KeyObjectID   = recordpkg.KeyObjectID
	KeyStatusCode = recordpkg.KeyStatusCode
	KeyDatetime   = recordpkg.KeyDatetime
)

var (
	NewHandler           = runtimepkg.NewHandler
	NewHandlerFromParams = runtimepkg.NewHandlerFromParams
	WithErrorHandler     = runtimepkg.WithErrorHandler
	WithLogger           = runtimepkg.WithLogger
	WithMetrics          = runtimepkg.WithMetrics
	WithTransportFactory = runtimepkg.WithTransportFactory
	DefaultErrorHandler  = runtimepkg.DefaultErrorHandler
	WriteErrorTo         = runtimepkg.WriteErrorTo
	NewHandlerMetrics    = runtimepkg.NewHandlerMetrics

	NewChannel            = runtimepkg.NewChannel
	EncodeMessage         = runtimepkg.Encode
	NewWatermillPublisher = runtimepkg.NewWatermillPublisher
	NewWatermillMessage   = runtimepkg.NewWatermillMessage
	WithMaxMessageSize    = runtimepkg.WithMaxMessageSize
	WithTracer            = runtimepkg.WithTracer

	NewSlogHandler = runtimepkg.NewSlogHandler
	SlogLevel      = runtimepkg.SlogLevel
	NewHCLogSink   = runtimepkg.NewHCLogSink
	HCLogLevel     = runtimepkg.HCLogLevel

	Tail      = runtimepkg.Tail
	DecodeLog = runtimepkg.DecodeLog

	NewRecord           = recordpkg.New
	NewLogMessage       = logmessagepkg.New
	LogMessageFromAttrs = logmessagepkg.FromAttributes
	FormatTime          = logmessagepkg.FormatTime
	WithLogType         = logmessagepkg.WithLogType
	WithObjectName      = logmessagepkg.WithObjectName
	WithObjectID        = logmessagepkg.WithObjectID
	WithLevel           = logmessagepkg.WithLevel
	WithStatusCode      = logmessagepkg.WithStatusCode
	WithTimestamp       = logmessagepkg.WithTimestamp
	ToMap               = serializerpkg.ToMap

	ConfigFromParams = configpkg.FromParams
	ConfigFromEnv    = configpkg.FromEnv
	ValidateConfig   = configpkg.ValidateConfig

	DefaultTransportFactory  = transportpkg.DefaultFactory
	RegistryTransportFactory = transportpkg.RegistryFactory

	// Import individual transports via: _ "github.com/drblury/mqlog/transport/kafka"
	DefaultTransportRegistry = newtransport.DefaultRegistry
	RegisterTransport        = newtransport.Register
	BuildTransport           = newtransport.Build
	GetCapabilities          = newtransport.GetCapabilities

	Marshal       = jsoncodec.Marshal
	MarshalIndent = jsoncodec.MarshalIndent
	Unmarshal     = jsoncodec.Unmarshal

	ErrPublisherRequired   = errspkg.ErrPublisherRequired
	ErrSubscriberRequired  = errspkg.ErrSubscriberRequired
	ErrHandlerRequired     = errspkg.ErrHandlerRequired
	ErrTopicRequired       = errspkg.ErrTopicRequired
	ErrChannelRequired     = errspkg.ErrChannelRequired
	ErrChannelNameRequired = errspkg.ErrChannelNameRequired
	ErrConfigRequired      = errspkg.ErrConfigRequired
	ErrRecordRequired      = errspkg.ErrRecordRequired
	ErrInvalidUTF8Payload  = errspkg.ErrInvalidUTF8Payload
	ErrPayloadTooLarge     = errspkg.ErrPayloadTooLarge
	ErrUnknownTransport    = newtransport.ErrUnknownTransport

	NewSlogServiceLogger      = loggingpkg.NewSlogServiceLogger
	NewWatermillServiceLogger = loggingpkg.NewWatermillServiceLogger
	NewHCLogServiceLogger     = loggingpkg.NewHCLogServiceLogger
	NewWatermillAdapter       = loggingpkg.NewWatermillAdapter

	NewMetadata = metadatapkg.New
)

// Metadata keys set on every published log message.
const (
	MetadataKeyContentType = metadatapkg.KeyContentType
	MetadataKeyEventSchema = metadatapkg.KeyEventSchema
	MetadataKeyDestination = metadatapkg.KeyDestination
	MetadataKeyTraceID     = metadatapkg.KeyTraceID
	MetadataKeySpanID      = metadatapkg.KeySpanID
)
