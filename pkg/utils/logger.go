package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger writes to stdout and to a rotated <app>.log under LogPath.
// Debug switches to console encoding at debug level.
func InitLogger(app AppConfig) (*zap.Logger, error) {
	if app.LogPath != "" {
		if err := os.MkdirAll(app.LogPath, 0o755); err != nil {
			return nil, err
		}
	}

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if app.Debug {
		level.SetLevel(zap.DebugLevel)
	}

	encoder := newEncoder(app.Debug)
	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(app.LogPath, logFileName(app.Name)),
		MaxSize:    10, // MB
		MaxBackups: 7,
		MaxAge:     28, // days
		Compress:   true,
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, file, level),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("app", app.Name)),
	), nil
}

func newEncoder(debug bool) zapcore.Encoder {
	if debug {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewConsoleEncoder(cfg)
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(cfg)
}

func logFileName(app string) string {
	if app == "" {
		app = "media-review"
	}
	return app + ".log"
}
