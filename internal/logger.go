package internal

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"payparts/services"
)

const (
	levelDebug = "debug"
	levelInfo  = "info"
	levelWarn  = "warning"
	levelError = "error"

	databaseWriteTimeout = 5 * time.Second
)

// LogMessage is a log record as it is stored in the database.
type LogMessage struct {
	Time     time.Time `json:"time" bson:"time"`
	Level    string    `json:"level" bson:"level"`
	Category string    `json:"category" bson:"category"`
	Text     string    `json:"text" bson:"text"`
	Error    string    `json:"error,omitempty" bson:"error,omitempty"`
}

func (m *LogMessage) DataType() string {
	return "log"
}

// Logger writes to zap and, when a database is set, copies every
// non-debug record to it.
type Logger struct {
	zap      *zap.Logger
	category string
	debug    bool
	database services.Database
}

// NewLogger creates a logger for a category; database may be nil.
func NewLogger(category string, debug bool, database services.Database) *Logger {
	conf := zap.NewProductionConfig()
	conf.Encoding = "console"
	conf.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	conf.DisableStacktrace = true
	if debug {
		conf.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := conf.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return newLogger(logger, category, debug, database)
}

func newLogger(logger *zap.Logger, category string, debug bool, database services.Database) *Logger {
	return &Logger{
		zap:      logger.Named(category),
		category: category,
		debug:    debug,
		database: database,
	}
}

func (l *Logger) Debug(text string) {
	l.zap.Debug(text)
}

func (l *Logger) Info(text string) {
	l.zap.Info(text)
	l.write(levelInfo, text, nil)
}

func (l *Logger) Warn(text string) {
	l.zap.Warn(text)
	l.write(levelWarn, text, nil)
}

func (l *Logger) Error(text string, err error) {
	l.zap.Error(text, zap.Error(err))
	l.write(levelError, text, err)
}

// Sync flushes buffered zap output.
func (l *Logger) Sync() {
	_ = l.zap.Sync()
}

func (l *Logger) write(level, text string, err error) {
	if l.database == nil {
		return
	}
	message := &LogMessage{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Text:     text,
	}
	if err != nil {
		message.Error = err.Error()
	}
	ctx, cancel := context.WithTimeout(context.Background(), databaseWriteTimeout)
	defer cancel()
	if e := l.database.WriteLogMessage(ctx, message); e != nil {
		l.zap.Warn("write log message", zap.Error(e))
	}
}
