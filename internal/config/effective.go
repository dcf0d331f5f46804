package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw overrides on top of DefaultConfig and
// validates the result.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Locator != nil {
		cfg.Locator.TriggerTimeoutMs = derefInt(raw.Locator.TriggerTimeoutMs, cfg.Locator.TriggerTimeoutMs)
		cfg.Locator.SettleDelayMs = derefInt(raw.Locator.SettleDelayMs, cfg.Locator.SettleDelayMs)
		cfg.Locator.PollIntervalMs = derefInt(raw.Locator.PollIntervalMs, cfg.Locator.PollIntervalMs)
		cfg.Locator.MaxWaitMs = derefInt(raw.Locator.MaxWaitMs, cfg.Locator.MaxWaitMs)
	}
	if raw.Monitors != nil && raw.Monitors.Mode != nil {
		cfg.Monitors.Mode = MonitorMode(strings.ToLower(strings.TrimSpace(string(*raw.Monitors.Mode))))
	}
	if raw.Logging != nil {
		if raw.Logging.Level != nil {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*raw.Logging.Level))
		}
		if raw.Logging.Development != nil {
			cfg.Logging.Development = *raw.Logging.Development
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = strings.TrimSpace(*raw.Logging.File)
		}
	}
	if raw.IPC != nil && raw.IPC.SocketPath != nil {
		cfg.IPC.SocketPath = strings.TrimSpace(*raw.IPC.SocketPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
