// Package mqlog forwards log records to a publish/subscribe destination as
// JSON messages. A Handler renders each record, resolves its fields from
// caller-supplied metadata (log_type, object_name, object_id, status_code,
// datetime) and publishes
//
//	{"log": {"logType": ..., "objectName": ..., "objectId": ..., "level": ...,
//	         "statusCode": ..., "timestamp": ..., "msg": ...}}
//
// through a Channel. Logging never fails because of mqlog: every delivery
// error is reported once to the handler's ErrorHandler and the record is
// dropped.
//
// Records come from log/slog through NewSlogHandler or from go-hclog through
// an HCLogSink registered on an InterceptLogger. Levels use a fixed enum in
// which lower values are more severe: critical 0, error 10, warning 20,
// info 30, debug 100.
//
// # Transports
//
// NewHandlerFromParams builds the channel from a params map naming the
// destination and the transport:
//   - channel: in-memory Go channels (default)
//   - kafka: Kafka topics
//   - rabbitmq: AMQP durable queues
//   - aws: SNS topics, read back through SQS
//   - nats: NATS core subjects
//   - http: POST to a base URL
//   - io: JSON lines appended to a file
//
// Custom transports register a builder with RegisterTransport and can be
// selected by name. Tail reads published log messages back from any
// transport that builds a subscriber.
//
// Publishing is synchronous on the logging goroutine. A slow or hung
// transport slows or hangs the logging call.
package mqlog
