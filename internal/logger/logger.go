package logger

import (
	"net"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "2006/01/02 15:04:05"

// до вызова Init логи никуда не пишутся, это удобно в тестах
var Logger = zap.NewNop()

// Init: development - цветной консольный вывод, иначе JSON
func Init(development bool) error {
	built, err := newConfig(development).Build()
	if err != nil {
		return err
	}
	Logger = built
	return nil
}

func newConfig(development bool) zap.Config {
	if !development {
		config := zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
		return config
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(timeLayout)
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return config
}

func Sync() {
	_ = Logger.Sync()
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// HttpRequest добавляет к записи метод, путь и адрес клиента
func HttpRequest(lvl zapcore.Level, r *http.Request, msg string, fields ...zap.Field) {
	if ce := Logger.Check(lvl, msg); ce != nil {
		ce.Write(append(requestFields(r), fields...)...)
	}
}

func requestFields(r *http.Request) []zap.Field {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("client_ip", ip),
	}
}

func Error(msg string, err error, fields ...zap.Field) {
	Logger.Error(msg, withCause(err, fields)...)
}

func Fatal(msg string, err error, fields ...zap.Field) {
	Logger.Fatal(msg, withCause(err, fields)...)
}

func withCause(err error, fields []zap.Field) []zap.Field {
	if err == nil {
		return fields
	}
	return append(fields, zap.Error(err))
}
