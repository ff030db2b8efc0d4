// Package logger writes diagnostic output to a rotated file, with an
// optional stderr echo. Terminal output stays clean for the report itself.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirName  = ".devday/logs"
	logFileName = "devday.log"
	maxSizeMB   = 1
	maxAgeDays  = 14
	maxBackups  = 10
)

// Level is the minimum severity a message needs to be written.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled messages to a file and optionally stderr.
type Logger struct {
	file       io.WriteCloser
	logger     *log.Logger
	logPath    string
	level      Level
	mu         sync.Mutex
	alsoStderr bool
}

var (
	instance *Logger
	once     sync.Once
)

// Init creates the log directory and rotated log file.
func Init() error {
	var err error
	once.Do(func() {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			err = fmt.Errorf("finding home directory: %w", homeErr)
			return
		}

		logDir := filepath.Join(home, logDirName)
		if mkdirErr := os.MkdirAll(logDir, 0o755); mkdirErr != nil {
			err = fmt.Errorf("creating log directory: %w", mkdirErr)
			return
		}

		logPath := filepath.Join(logDir, logFileName)
		rotator := &lumberjack.Logger{
			Filename:   logPath,
			MaxSize:    maxSizeMB,
			MaxAge:     maxAgeDays,
			MaxBackups: maxBackups,
			Compress:   true,
			LocalTime:  true,
		}

		instance = &Logger{
			file:    rotator,
			logger:  log.New(rotator, "", 0),
			logPath: logPath,
			level:   INFO,
		}
	})
	return err
}

// Get returns the logger, initializing it if needed. When the log file
// cannot be created it degrades to stderr only.
func Get() *Logger {
	if instance == nil {
		if err := Init(); err != nil {
			instance = &Logger{
				logger:     log.New(os.Stderr, "", 0),
				level:      INFO,
				alsoStderr: true,
			}
		}
	}
	return instance
}

// Close closes the underlying log file.
func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

// SetLevel sets the minimum level.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetAlsoStderr echoes messages to stderr in addition to the file.
func (l *Logger) SetAlsoStderr(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.alsoStderr = enabled
}

// LogPath returns the log file path.
func (l *Logger) LogPath() string {
	return l.logPath
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %s: %s\n", timestamp, level, fmt.Sprintf(format, args...))

	if l.logger != nil {
		l.logger.Print(line)
	}
	if l.alsoStderr {
		fmt.Fprint(os.Stderr, line)
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }

// Info logs an info message.
func (l *Logger) Info(format string, args ...interface{}) { l.log(INFO, format, args...) }

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...interface{}) { l.log(WARN, format, args...) }

// Error logs an error.
func (l *Logger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }

// Package-level convenience functions on the shared instance.

func Debug(format string, args ...interface{}) { Get().Debug(format, args...) }
func Info(format string, args ...interface{})  { Get().Info(format, args...) }
func Warn(format string, args ...interface{})  { Get().Warn(format, args...) }
func Error(format string, args ...interface{}) { Get().Error(format, args...) }
