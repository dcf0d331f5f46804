package config

// RawLocatorConfig mirrors LocatorConfig with optional fields so a file only
// overrides what it sets.
type RawLocatorConfig struct {
	TriggerTimeoutMs *int `yaml:"trigger_timeout_ms"`
	SettleDelayMs    *int `yaml:"settle_delay_ms"`
	PollIntervalMs   *int `yaml:"poll_interval_ms"`
	MaxWaitMs        *int `yaml:"max_wait_ms"`
}

type RawMonitorsConfig struct {
	Mode *MonitorMode `yaml:"mode"`
}

type RawLoggingConfig struct {
	Level       *string `yaml:"level"`
	Development *bool   `yaml:"development"`
	File        *string `yaml:"file"`
}

type RawIPCConfig struct {
	SocketPath *string `yaml:"socket_path"`
}

type RawConfig struct {
	Locator  *RawLocatorConfig  `yaml:"locator"`
	Monitors *RawMonitorsConfig `yaml:"monitors"`
	Logging  *RawLoggingConfig  `yaml:"logging"`
	IPC      *RawIPCConfig      `yaml:"ipc"`
}
