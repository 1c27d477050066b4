package logger

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents different logging levels
type LogLevel int

const (
	// DEBUG level for detailed debugging information
	DEBUG LogLevel = iota
	// INFO level for general operational information
	INFO
	// WARN level for warning messages
	WARN
	// ERROR level for error messages
	ERROR
	// FATAL level for fatal errors that require immediate attention
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var zapLevels = map[LogLevel]zapcore.Level{
	DEBUG: zapcore.DebugLevel,
	INFO:  zapcore.InfoLevel,
	WARN:  zapcore.WarnLevel,
	ERROR: zapcore.ErrorLevel,
	FATAL: zapcore.FatalLevel,
}

// String returns the upper-case level name
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel converts a textual level ("debug", "INFO", ...) to a LogLevel.
// Unknown values fall back to INFO.
func ParseLevel(level string) LogLevel {
	for l, name := range levelNames {
		if strings.EqualFold(name, level) {
			return l
		}
	}
	if strings.EqualFold(level, "warning") {
		return WARN
	}
	return INFO
}

// Logger is a component-scoped leveled logger backed by zap
type Logger struct {
	sugar     *zap.SugaredLogger
	level     zap.AtomicLevel
	component string
}

var (
	defaultLogger *Logger
	once          sync.Once
	development   bool
)

// SetDevelopment switches the default logger to console encoding. It only
// has an effect before the first InitLogger call.
func SetDevelopment(dev bool) {
	development = dev
}

// InitLogger initializes the default logger
func InitLogger(level LogLevel, component string) {
	once.Do(func() {
		atom := zap.NewAtomicLevelAt(zapLevels[level])

		var encoder zapcore.Encoder
		if development {
			encCfg := zap.NewDevelopmentEncoderConfig()
			encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
			encoder = zapcore.NewConsoleEncoder(encCfg)
		} else {
			encCfg := zap.NewProductionEncoderConfig()
			encCfg.TimeKey = "timestamp"
			encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
			encoder = zapcore.NewJSONEncoder(encCfg)
		}

		core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), atom)
		defaultLogger = New(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)), atom, component)
	})
}

// New wraps an existing zap logger. The atomic level must be the one the
// logger's core is filtering on for SetLevel to take effect.
func New(z *zap.Logger, level zap.AtomicLevel, component string) *Logger {
	return &Logger{
		sugar:     z.Named(component).Sugar(),
		level:     level,
		component: component,
	}
}

// GetLogger returns the default logger instance
func GetLogger() *Logger {
	if defaultLogger == nil {
		InitLogger(INFO, "default")
	}
	return defaultLogger
}

// WithComponent creates a new logger with the specified component name
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		sugar:     l.sugar.Desugar().Named(component).Sugar(),
		level:     l.level,
		component: component,
	}
}

// WithError attaches err as a structured field
func (l *Logger) WithError(err error) *Logger {
	return l.With(zap.Error(err))
}

// With attaches structured fields to every subsequent entry
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		sugar:     l.sugar.Desugar().With(fields...).Sugar(),
		level:     l.level,
		component: l.component,
	}
}

// Component returns the logger's component name
func (l *Logger) Component() string {
	return l.component
}

// SetLevel sets the logging level
func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(zapLevels[level])
}

// Zap exposes the underlying zap logger
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// Debug logs debug level messages
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info logs info level messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn logs warning level messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error logs error level messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatal logs fatal level messages and exits
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}
