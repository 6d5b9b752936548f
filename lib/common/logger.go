// Package common provides the logger factory shared by the CLI and the catalog clients.
package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// LoggerNames lists the loggers used by this module.
var LoggerNames = []string{"cli", "catalog", "catalog/curse", "catalog/github", "selfupdate"}

// levelTags are the labels written in front of every line.
var levelTags = map[logger.LogLevel]string{
	logger.DEBUG:   "DEBUG",
	logger.INFO:    "INFO",
	logger.WARNING: "WARN",
	logger.ERROR:   "ERROR",
}

// lineLogger writes "LEVEL | name | message" lines. The level can be changed
// while other goroutines log.
type lineLogger struct {
	mu     sync.Mutex
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *lineLogger) SetLevel(level logger.LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *lineLogger) Debugf(format string, args ...interface{}) {
	l.logf(logger.DEBUG, format, args...)
}

func (l *lineLogger) Infof(format string, args ...interface{}) {
	l.logf(logger.INFO, format, args...)
}

func (l *lineLogger) Warningf(format string, args ...interface{}) {
	l.logf(logger.WARNING, format, args...)
}

func (l *lineLogger) Errorf(format string, args ...interface{}) {
	l.logf(logger.ERROR, format, args...)
}

// Panicf always panics, whatever the level.
func (l *lineLogger) Panicf(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}

func (l *lineLogger) logf(level logger.LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	enabled := l.level >= level
	l.mu.Unlock()
	if !enabled {
		return
	}
	l.logger.Printf("%-5s | %-15s | %s", levelTags[level], l.name, fmt.Sprintf(format, args...))
}

// output is where loggers created by CreateLogger write to.
var output io.Writer = os.Stderr

// CreateLogger implements logger.Factory. Log lines go to stderr so they never
// mix with command output.
func CreateLogger(pkgName string) logger.ILogger {
	return &lineLogger{
		name:   pkgName,
		level:  logger.WARNING,
		logger: log.New(output, "", log.Ldate|log.Ltime),
	}
}

// ParseLogLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// InitLoggers installs CreateLogger as the logger factory and sets the level of every logger.
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}

	logger.SetLoggerFactory(CreateLogger)
	for _, name := range LoggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
