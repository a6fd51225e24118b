package config

// SchemaVersion is the config document version this engine writes and accepts.
const SchemaVersion = "v1.0.0"

// DefaultRecursionLimit caps how many times one job may run within a single flush.
const DefaultRecursionLimit = 100

// Config holds the runtime settings. The zero value is not useful; start from Default.
type Config struct {
	SchemaVersion string `yaml:"schemaVersion"`

	Log         LogConfig         `yaml:"log"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Tracing     TracingConfig     `yaml:"tracing"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SchedulerConfig struct {
	// RecursionLimit bounds the number of runs of a single job per flush.
	RecursionLimit int `yaml:"recursionLimit"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
}

type DiagnosticsConfig struct {
	// ReadonlyWarnings logs writes rejected by read-only wrappers.
	ReadonlyWarnings bool `yaml:"readonlyWarnings"`
}

// Default returns the settings used when no document is loaded.
func Default() Config {
	return Config{
		SchemaVersion: SchemaVersion,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Scheduler: SchedulerConfig{
			RecursionLimit: DefaultRecursionLimit,
		},
		Metrics:     MetricsConfig{Enabled: true},
		Tracing:     TracingConfig{Enabled: true},
		Diagnostics: DiagnosticsConfig{ReadonlyWarnings: true},
	}
}
