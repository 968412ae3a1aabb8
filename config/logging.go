package config

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogEncoder defines a log encoder kind.
type LogEncoder = string

const (
	defaultLoggingLevel = zapcore.InfoLevel
	// ConsoleLogEncoder represents logging with plain text.
	ConsoleLogEncoder LogEncoder = "console"
	// JSONLogEncoder represents logging with JSON.
	JSONLogEncoder LogEncoder = "json"
)

// LoggerConfig holds the logging level and encoding.
type LoggerConfig struct {
	Level   zapcore.Level `mapstructure:"level"`
	Encoder LogEncoder    `mapstructure:"encoder"`
}

func defaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Level:   defaultLoggingLevel,
		Encoder: ConsoleLogEncoder,
	}
}

// BuildLogger returns a logger writing to stderr with the configured level
// and encoder.
func BuildLogger(cfg LoggerConfig) (*zap.Logger, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.Encoder {
	case ConsoleLogEncoder, "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	case JSONLogEncoder:
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log encoder %q", cfg.Encoder)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(cfg.Level))
	return zap.New(core), nil
}
