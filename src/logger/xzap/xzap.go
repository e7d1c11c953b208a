package xzap

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConf 日志配置
type LogConf struct {
	Level   string `toml:"level" mapstructure:"level" json:"level"`
	Format  string `toml:"format" mapstructure:"format" json:"format"` // json 或 console
	Service string `toml:"service" mapstructure:"service" json:"service"`
}

type ctxKey struct{}

// CtxRequestID 请求id在context中的key
var CtxRequestID = ctxKey{}

var (
	global *zap.Logger
	once   sync.Once
)

// SetUp 初始化全局日志
func SetUp(c LogConf) (*zap.Logger, error) {
	var err error
	once.Do(func() {
		level := zapcore.InfoLevel
		if c.Level != "" {
			err = level.UnmarshalText([]byte(c.Level))
			if err != nil {
				return
			}
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if c.Format == "console" {
			enc = zapcore.NewConsoleEncoder(encCfg)
		} else {
			enc = zapcore.NewJSONEncoder(encCfg)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), level)
		global = zap.New(core, zap.AddCaller())
		if c.Service != "" {
			global = global.With(zap.String("service", c.Service))
		}
	})
	if err != nil {
		return nil, err
	}
	return global, nil
}

// WithRequestID 把请求id写入context
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, reqID)
}

// Logger 包装zap.Logger，附带context信息
type Logger struct {
	l *zap.Logger
}

// WithContext 获取带请求id的logger
func WithContext(ctx context.Context) *Logger {
	l := global
	if l == nil {
		l = zap.NewNop()
	}
	if ctx != nil {
		if reqID, ok := ctx.Value(CtxRequestID).(string); ok && reqID != "" {
			l = l.With(zap.String("request_id", reqID))
		}
	}
	return &Logger{l: l}
}

func (x *Logger) Info(msg string, fields ...zap.Field) {
	x.l.Info(msg, fields...)
}

func (x *Logger) Warn(msg string, fields ...zap.Field) {
	x.l.Warn(msg, fields...)
}

func (x *Logger) Error(msg string, fields ...zap.Field) {
	x.l.Error(msg, fields...)
}

func (x *Logger) Infof(format string, args ...interface{}) {
	x.l.Sugar().Infof(format, args...)
}

func (x *Logger) Errorf(format string, args ...interface{}) {
	x.l.Sugar().Errorf(format, args...)
}
