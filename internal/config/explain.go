package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths:
//
//	locator.trigger_timeout_ms
//	locator.settle_delay_ms
//	locator.poll_interval_ms
//	locator.max_wait_ms
//	monitors.mode
//	logging.level
//	logging.development
//	logging.file
//	ipc.socket_path
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	section, key, ok := strings.Cut(path, ".")
	if !ok || strings.Contains(key, ".") {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch section {
	case "locator":
		switch key {
		case "trigger_timeout_ms":
			return cfg.Locator.TriggerTimeoutMs, nil
		case "settle_delay_ms":
			return cfg.Locator.SettleDelayMs, nil
		case "poll_interval_ms":
			return cfg.Locator.PollIntervalMs, nil
		case "max_wait_ms":
			return cfg.Locator.MaxWaitMs, nil
		}
	case "monitors":
		if key == "mode" {
			return string(cfg.Monitors.Mode), nil
		}
	case "logging":
		switch key {
		case "level":
			return cfg.Logging.Level, nil
		case "development":
			return cfg.Logging.Development, nil
		case "file":
			return cfg.Logging.File, nil
		}
	case "ipc":
		if key == "socket_path" {
			return cfg.IPC.SocketPath, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
