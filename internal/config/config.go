package config

import (
	"fmt"
	"strings"
	"time"
)

// MonitorMode selects how the monitor inventory is built.
type MonitorMode string

const (
	// MonitorModeEnumerate reports every physical display.
	MonitorModeEnumerate MonitorMode = "enumerate"
	// MonitorModeVirtual reports the primary display, or the whole virtual
	// screen as a single entry once more than one display is attached.
	MonitorModeVirtual MonitorMode = "virtual"
)

// Config is the effective backdrop configuration.
type Config struct {
	Locator  LocatorConfig  `yaml:"locator"`
	Monitors MonitorsConfig `yaml:"monitors"`
	Logging  LoggingConfig  `yaml:"logging"`
	IPC      IPCConfig      `yaml:"ipc"`
}

// LocatorConfig tunes the search for the shell's background host window.
type LocatorConfig struct {
	// TriggerTimeoutMs bounds the message that asks the shell to create the host.
	TriggerTimeoutMs int `yaml:"trigger_timeout_ms"`
	// SettleDelayMs is waited once before the first lookup.
	SettleDelayMs int `yaml:"settle_delay_ms"`
	// PollIntervalMs is the pause between lookups.
	PollIntervalMs int `yaml:"poll_interval_ms"`
	// MaxWaitMs caps the total time spent polling for the host.
	MaxWaitMs int `yaml:"max_wait_ms"`
}

type MonitorsConfig struct {
	Mode MonitorMode `yaml:"mode"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
	// File receives log output; empty means stderr.
	File string `yaml:"file"`
}

type IPCConfig struct {
	// SocketPath overrides the daemon socket location.
	SocketPath string `yaml:"socket_path"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Locator: LocatorConfig{
			TriggerTimeoutMs: 1000,
			SettleDelayMs:    0,
			PollIntervalMs:   25,
			MaxWaitMs:        1000,
		},
		Monitors: MonitorsConfig{
			Mode: MonitorModeEnumerate,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func (l LocatorConfig) TriggerTimeout() time.Duration {
	return time.Duration(l.TriggerTimeoutMs) * time.Millisecond
}

func (l LocatorConfig) SettleDelay() time.Duration {
	return time.Duration(l.SettleDelayMs) * time.Millisecond
}

func (l LocatorConfig) PollInterval() time.Duration {
	return time.Duration(l.PollIntervalMs) * time.Millisecond
}

func (l LocatorConfig) MaxWait() time.Duration {
	return time.Duration(l.MaxWaitMs) * time.Millisecond
}

// maxLocatorWaitMs caps settle_delay_ms + max_wait_ms.
const maxLocatorWaitMs = 10000

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if c.Locator.TriggerTimeoutMs <= 0 {
		return &ValidationError{Path: "locator.trigger_timeout_ms", Err: fmt.Errorf("trigger_timeout_ms must be > 0")}
	}
	if c.Locator.SettleDelayMs < 0 {
		return &ValidationError{Path: "locator.settle_delay_ms", Err: fmt.Errorf("settle_delay_ms must be >= 0")}
	}
	if c.Locator.PollIntervalMs <= 0 {
		return &ValidationError{Path: "locator.poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}
	if c.Locator.MaxWaitMs < 0 {
		return &ValidationError{Path: "locator.max_wait_ms", Err: fmt.Errorf("max_wait_ms must be >= 0")}
	}
	if c.Locator.SettleDelayMs > maxLocatorWaitMs || c.Locator.MaxWaitMs > maxLocatorWaitMs-c.Locator.SettleDelayMs {
		return &ValidationError{Path: "locator.max_wait_ms", Err: fmt.Errorf("settle_delay_ms + max_wait_ms must not exceed 10000")}
	}

	switch c.Monitors.Mode {
	case MonitorModeEnumerate, MonitorModeVirtual:
	default:
		return &ValidationError{Path: "monitors.mode", Err: fmt.Errorf("mode must be one of: enumerate, virtual")}
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}

	return nil
}
