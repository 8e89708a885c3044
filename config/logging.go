package config

import "go.uber.org/zap/zapcore"

// LogEncoder defines a log encoder kind.
type LogEncoder = string

const (
	defaultLoggingLevel = zapcore.WarnLevel
	// ConsoleLogEncoder represents logging with plain text.
	ConsoleLogEncoder LogEncoder = "console"
	// JSONLogEncoder represents logging with JSON.
	JSONLogEncoder LogEncoder = "json"
)

// LoggerConfig holds the logging level for each module.
type LoggerConfig struct {
	Encoder             LogEncoder `mapstructure:"log-encoder"`
	AppLoggerLevel      string     `mapstructure:"app"`
	TimeSyncLoggerLevel string     `mapstructure:"timesync"`
	ReplicaLoggerLevel  string     `mapstructure:"replica"`
	SessionLoggerLevel  string     `mapstructure:"session"`
	MetricsLoggerLevel  string     `mapstructure:"metrics"`
}

func defaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder:             ConsoleLogEncoder,
		AppLoggerLevel:      zapcore.InfoLevel.String(),
		TimeSyncLoggerLevel: defaultLoggingLevel.String(),
		ReplicaLoggerLevel:  defaultLoggingLevel.String(),
		SessionLoggerLevel:  defaultLoggingLevel.String(),
		MetricsLoggerLevel:  defaultLoggingLevel.String(),
	}
}
