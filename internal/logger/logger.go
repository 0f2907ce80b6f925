package logger

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *zap.Logger

// requestIDs 随请求上下文传递的关联 ID
type requestIDs struct {
	requestID string
	traceID   string
}

type idsKey struct{}

// Init 按配置构建全局 Logger，未知级别按 info 处理
func Init(level, format, outputPath string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	out, err := openSink(outputPath)
	if err != nil {
		return err
	}

	core := zapcore.NewCore(newEncoder(format), out, lvl)
	globalLogger = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("service", "rsp-users-service"))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	if format == "json" {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func openSink(path string) (zapcore.WriteSyncer, error) {
	switch path {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("打开日志文件失败: %w", err)
	}
	return zapcore.AddSync(f), nil
}

// Get 返回全局 Logger；未初始化时为 Nop
func Get() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Set 替换全局 Logger，测试用
func Set(l *zap.Logger) {
	globalLogger = l
}

func idsFrom(ctx context.Context) requestIDs {
	if ctx == nil {
		return requestIDs{}
	}
	ids, _ := ctx.Value(idsKey{}).(requestIDs)
	return ids
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	ids := idsFrom(ctx)
	ids.requestID = requestID
	return context.WithValue(ctx, idsKey{}, ids)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	ids := idsFrom(ctx)
	ids.traceID = traceID
	return context.WithValue(ctx, idsKey{}, ids)
}

func GetRequestID(ctx context.Context) string { return idsFrom(ctx).requestID }

func GetTraceID(ctx context.Context) string { return idsFrom(ctx).traceID }

// WithContext 附带 request_id / trace_id 的 Logger
func WithContext(ctx context.Context) *zap.Logger {
	l := Get()
	ids := idsFrom(ctx)
	if ids.requestID != "" {
		l = l.With(zap.String("request_id", ids.requestID))
	}
	if ids.traceID != "" {
		l = l.With(zap.String("trace_id", ids.traceID))
	}
	return l
}

func Info(msg string, fields ...zap.Field)  { Get().Info(msg, fields...) }
func Error(msg string, fields ...zap.Field) { Get().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { Get().Fatal(msg, fields...) }

// Sync 刷新缓冲区
func Sync() error {
	if globalLogger == nil {
		return nil
	}
	return globalLogger.Sync()
}
