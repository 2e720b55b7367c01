package pubsub

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/solwatch/solwatch-go/pkg/transport"
)

// Config configures a Client.
type Config struct {
	// Endpoint is the ws:// or wss:// URL of the node's pub/sub port.
	Endpoint string `yaml:"endpoint"`

	// ConnectTimeout bounds the WebSocket handshake.
	ConnectTimeout Duration `yaml:"connect_timeout"`

	// MaxMessageSize is the maximum inbound frame size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`

	// ProtocolLogPath enables CBOR protocol capture when non-empty.
	ProtocolLogPath string `yaml:"protocol_log_path"`
}

// DefaultConfig returns a config with transport defaults filled in.
// Endpoint must still be set by the caller.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout: Duration(transport.DefaultConnectTimeout),
		MaxMessageSize: transport.DefaultMaxMessageSize,
	}
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint must not be empty")
	}
	return nil
}

// LoadConfig reads a yaml config file. Missing fields keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Duration wraps time.Duration so yaml configs can say "30s" or "1m".
type Duration time.Duration

// UnmarshalYAML parses a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML renders the duration in time.Duration string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
