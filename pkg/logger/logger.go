package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the sugared logger handed to the HTTP layer. Key-value pairs go
// through the ...w methods (Infow, Errorw); internal services use *zap.Logger
// directly.
type Logger struct {
	*zap.SugaredLogger
}

func New() *Logger {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(err)
	}

	return &Logger{
		SugaredLogger: logger.Sugar(),
	}
}

func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With("request_id", requestID),
	}
}

// WithUser annotates log entries with the phone number of the user the
// current operation belongs to.
func (l *Logger) WithUser(phone string) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With("user_phone", phone),
	}
}
