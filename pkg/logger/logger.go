// Package logger wraps go.uber.org/zap behind the narrow interface
// every package in this module logs through (see internal/pipeline's
// own Logger interface for the subset the core engine needs).
package logger

import (
	"os"

	"github.com/sridhargunnam/framefeatures/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface the control plane and cmd/ binaries
// use. Core engine packages declare their own narrower interface
// (internal/pipeline.Logger) so they stay independent of this
// package's concrete wiring.
type Logger interface {
	InitLogger()
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
}

type apiLogger struct {
	cfg   *config.Config
	sugar *zap.SugaredLogger
}

// NewApiLogger constructs a Logger from cfg.Logger. Callers must call
// InitLogger before using it, mirroring the teacher's two-step
// construction.
func NewApiLogger(cfg *config.Config) *apiLogger {
	return &apiLogger{cfg: cfg}
}

var loggerLevelMap = map[string]zapcore.Level{
	"debug":  zapcore.DebugLevel,
	"info":   zapcore.InfoLevel,
	"warn":   zapcore.WarnLevel,
	"error":  zapcore.ErrorLevel,
	"fatal":  zapcore.FatalLevel,
}

func (l *apiLogger) getLoggerLevel() zapcore.Level {
	level, ok := loggerLevelMap[l.cfg.Logger.Level]
	if !ok {
		return zapcore.InfoLevel
	}
	return level
}

func (l *apiLogger) InitLogger() {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if l.cfg.Logger.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), zap.NewAtomicLevelAt(l.getLoggerLevel()))

	var opts []zap.Option
	if !l.cfg.Logger.DisableCaller {
		opts = append(opts, zap.AddCaller())
	}
	if !l.cfg.Logger.DisableStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	l.sugar = zap.New(core, opts...).Sugar()
}

func (l *apiLogger) Debug(args ...interface{})                    { l.sugar.Debug(args...) }
func (l *apiLogger) Debugf(template string, args ...interface{})  { l.sugar.Debugf(template, args...) }
func (l *apiLogger) Info(args ...interface{})                     { l.sugar.Info(args...) }
func (l *apiLogger) Infof(template string, args ...interface{})   { l.sugar.Infof(template, args...) }
func (l *apiLogger) Warn(args ...interface{})                     { l.sugar.Warn(args...) }
func (l *apiLogger) Warnf(template string, args ...interface{})   { l.sugar.Warnf(template, args...) }
func (l *apiLogger) Error(args ...interface{})                    { l.sugar.Error(args...) }
func (l *apiLogger) Errorf(template string, args ...interface{})  { l.sugar.Errorf(template, args...) }
func (l *apiLogger) Fatal(args ...interface{})                    { l.sugar.Fatal(args...) }
func (l *apiLogger) Fatalf(template string, args ...interface{})  { l.sugar.Fatalf(template, args...) }
