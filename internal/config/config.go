package config

import (
	"fmt"
	"strings"
)

// Config holds all options for one lssensors invocation.
type Config struct {
	// Discovery
	TypeFilter string // optional sensor type, narrows the enumeration scope
	Host       string // optional remote bus address; empty means local system bus

	// Watch mode
	WatchNames []string // ordered sensor names to watch; empty means one-shot
	Interval   int      // polling interval in whole seconds

	// Telemetry export
	MQTTUrl string // optional MQTT broker URL

	// Application
	Verbose bool
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Interval: DefaultWatchInterval,
	}
}

// Validate checks the configuration before any bus interaction. Violations
// are fatal and reported with a usage message by the caller.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("polling interval must be a positive number of seconds, got %d", c.Interval)
	}

	for _, r := range c.TypeFilter {
		if !isTypeRune(r) {
			return fmt.Errorf("invalid sensor type %q: only letters, digits and '_' are allowed", c.TypeFilter)
		}
	}

	for _, name := range c.WatchNames {
		if name == "" {
			return fmt.Errorf("empty sensor name in watch list")
		}
	}

	if c.MQTTUrl != "" {
		if !strings.HasPrefix(c.MQTTUrl, "ws://") &&
			!strings.HasPrefix(c.MQTTUrl, "wss://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtt://") &&
			!strings.HasPrefix(c.MQTTUrl, "mqtts://") {
			return fmt.Errorf("MQTT URL must use supported protocol (ws://, wss://, mqtt://, or mqtts://)")
		}
	}

	return nil
}

// RootScope returns the object path the enumeration is rooted at. The type
// filter, when set, narrows the scope by one path segment.
func (c *Config) RootScope() string {
	if c.TypeFilter == "" {
		return SensorsPath
	}
	return SensorsPath + "/" + c.TypeFilter
}

// Watching reports whether watch mode was requested.
func (c *Config) Watching() bool { return len(c.WatchNames) > 0 }

// HasMQTT reports whether telemetry export is configured.
func (c *Config) HasMQTT() bool { return c.MQTTUrl != "" }

func isTypeRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	}
	return false
}
