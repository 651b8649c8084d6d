package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/lineage-audit/emitter/internal/config"
)

// Transport kinds selectable via OPENLINEAGE_TRANSPORT.
const (
	KindHTTP    = "http"
	KindKafka   = "kafka"
	KindConsole = "console"
)

const (
	// defaultBaseURL matches the Marquez default this project ships against.
	defaultBaseURL = "http://localhost:5002"

	defaultKafkaTopic = "openlineage.events"
)

// ErrUnknownKind indicates OPENLINEAGE_TRANSPORT named an unrecognized transport.
var ErrUnknownKind = errors.New("unknown transport kind")

// Config holds transport selection and settings, loaded from environment
// variables. It is a flat configuration object: only the recognized keys
// below affect transport behavior.
type Config struct {
	Kind  string
	HTTP  HTTPConfig
	Kafka KafkaConfig

	// MaxEventsPerSecond > 0 wraps the selected transport in a Throttled
	// pacing decorator. Zero disables throttling.
	MaxEventsPerSecond float64
	Burst              int
}

// LoadConfig loads transport configuration from environment variables with
// defaults matching the docker-compose development stack.
//
// Recognized keys:
//   - OPENLINEAGE_TRANSPORT: http (default) | kafka | console
//   - OPENLINEAGE_URL: backend base URL (default http://localhost:5002)
//   - OPENLINEAGE_ENDPOINT: ingestion path (default /api/v1/lineage)
//   - OPENLINEAGE_API_KEY: bearer token, empty disables auth
//   - OPENLINEAGE_TIMEOUT: per-request timeout (default 10s)
//   - KAFKA_BROKERS: comma-separated bootstrap brokers
//   - KAFKA_TOPIC: target topic (default openlineage.events)
//   - KAFKA_REQUIRED_ACKS: none | one | all (default one; none is fire-and-forget)
//   - EMITTER_MAX_EVENTS_PER_SECOND: pacing rate, 0 disables (default 0)
//   - EMITTER_BURST: pacing burst capacity (default 1)
func LoadConfig() *Config {
	return &Config{
		Kind: strings.ToLower(config.GetEnvStr("OPENLINEAGE_TRANSPORT", KindHTTP)),
		HTTP: HTTPConfig{
			BaseURL:  config.GetEnvStr("OPENLINEAGE_URL", defaultBaseURL),
			Endpoint: config.GetEnvStr("OPENLINEAGE_ENDPOINT", DefaultEndpoint),
			APIKey:   config.GetEnvStr("OPENLINEAGE_API_KEY", ""),
			Timeout:  config.GetEnvDuration("OPENLINEAGE_TIMEOUT", DefaultTimeout),
		},
		Kafka: KafkaConfig{
			Brokers:      config.ParseCommaSeparatedList(config.GetEnvStr("KAFKA_BROKERS", "")),
			Topic:        config.GetEnvStr("KAFKA_TOPIC", defaultKafkaTopic),
			RequiredAcks: parseRequiredAcks(config.GetEnvStr("KAFKA_REQUIRED_ACKS", "one")),
		},
		MaxEventsPerSecond: config.GetEnvFloat("EMITTER_MAX_EVENTS_PER_SECOND", 0),
		Burst:              config.GetEnvInt("EMITTER_BURST", 1),
	}
}

// New builds the configured transport.
//
// The console transport writes to os.Stdout. When MaxEventsPerSecond is
// positive the transport is wrapped in a Throttled decorator.
func New(cfg *Config) (Transport, error) {
	var (
		t   Transport
		err error
	)

	switch cfg.Kind {
	case KindHTTP:
		t, err = NewHTTP(&cfg.HTTP)
	case KindKafka:
		t, err = NewKafka(&cfg.Kafka)
	case KindConsole:
		t = NewConsole(os.Stdout)
	default:
		return nil, fmt.Errorf("%w: %q (valid: http, kafka, console)", ErrUnknownKind, cfg.Kind)
	}

	if err != nil {
		return nil, err
	}

	if cfg.MaxEventsPerSecond > 0 {
		t = NewThrottled(t, cfg.MaxEventsPerSecond, cfg.Burst)
	}

	return t, nil
}

// Close closes t if it holds connections. Decorators built by New forward
// Close to the transport they wrap.
func Close(t Transport) error {
	if closer, ok := t.(io.Closer); ok {
		return closer.Close() //nolint:wrapcheck
	}

	return nil
}

// parseRequiredAcks maps the env value to kafka-go's RequiredAcks.
// Unrecognized values fall back to RequireOne.
func parseRequiredAcks(value string) kafka.RequiredAcks {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return kafka.RequireNone
	case "all":
		return kafka.RequireAll
	default:
		return kafka.RequireOne
	}
}
