/*
Package runtime turns raw log records into JSON messages on a publish/subscribe
destination.

# Pipeline

A Handler processes every record on the caller's goroutine:

  - prepare: the template is rendered with its arguments and the arguments and
    attached error are dropped.
  - resolve: a logmessage.LogMessage is built from the record's metadata
    (log_type, type, object_name, object_id, status_code, datetime) with the
    record's origin, level and creation time as fallbacks.
  - normalize: the message is serialized, the rendered text is added under
    "msg" and the result is wrapped under "log".
  - send: the Channel encodes the mapping and publishes it once.

Failures never reach the logging call site. They are wrapped in an EmitError
naming the failed stage and handed to the ErrorHandler exactly once.

# Sources

SlogHandler plugs a Handler into log/slog and HCLogSink into an
hclog.InterceptLogger. Both map their levels onto the logmessage.Level enum.

# Transports

Publishers come from the transport registry (channel, nats, kafka, rabbitmq,
http, io and aws). NewHandlerFromParams decodes a params map into a
config.Config, builds the configured transport and wraps its Watermill
publisher in a WatermillPublisher. Tail reads published messages back.
*/
package runtime
