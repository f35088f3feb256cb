package interfaces

// BasicLogger базовый интерфейс, совместимый со стандартным log.Logger.
type BasicLogger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// LevelLogger интерфейс для логирования с уровнями.
type LevelLogger interface {
	Info(args ...interface{})
	Error(args ...interface{})
	Debug(args ...interface{})
	Warn(args ...interface{})
	Fatal(args ...interface{})
}

// FormattedLevelLogger форматированные версии методов LevelLogger.
type FormattedLevelLogger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
}

// StackTraceLogger логирование ошибок со стектрейсом.
type StackTraceLogger interface {
	ErrorWithStack(err error, msg string)
	ErrorWithStackf(err error, format string, args ...interface{})
}

// ContextLogger логирование с дополнительными полями контекста.
type ContextLogger interface {
	WithFields(fields map[string]interface{}) Logger
}

// Logger объединяет все интерфейсы логирования.
type Logger interface {
	BasicLogger
	LevelLogger
	FormattedLevelLogger
	StackTraceLogger
	ContextLogger
}
