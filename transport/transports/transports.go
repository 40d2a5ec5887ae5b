// Package transports imports all built-in transports for auto-registration.
// Import this package to have all transports registered with the default registry.
package transports

import (
	_ "github.com/drblury/mqlog/transport/aws"
	_ "github.com/drblury/mqlog/transport/channel"
	_ "github.com/drblury/mqlog/transport/http"
	_ "github.com/drblury/mqlog/transport/io"
	_ "github.com/drblury/mqlog/transport/kafka"
	_ "github.com/drblury/mqlog/transport/nats"
	_ "github.com/drblury/mqlog/transport/rabbitmq"
)
