// Package logging provides a small component-scoped, leveled, colorized
// logger used across the search loop instead of bare log.Printf calls.
package logging

import (
	"fmt"
	"log"
	"sync"

	"github.com/fatih/color"
)

// LogLevel identifies a logging severity.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

func (l LogLevel) String() string {
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

// ComponentLoggerConfig configures a ComponentLogger.
type ComponentLoggerConfig struct {
	ComponentName string
	Color         color.Attribute
	EnabledLevels []LogLevel // nil means all levels enabled
}

// ComponentLogger prefixes every line with "[Component]" and optionally
// colorizes it, gating output by the levels it was configured with.
type ComponentLogger struct {
	component string
	color     *color.Color
	enabled   map[LogLevel]bool
	mu        sync.Mutex
}

// NewComponentLogger builds a ComponentLogger from cfg. With no
// EnabledLevels given, every level is enabled.
func NewComponentLogger(cfg ComponentLoggerConfig) *ComponentLogger {
	enabled := map[LogLevel]bool{DEBUG: true, INFO: true, WARN: true, ERROR: true}
	if len(cfg.EnabledLevels) > 0 {
		enabled = make(map[LogLevel]bool, len(cfg.EnabledLevels))
		for _, lvl := range cfg.EnabledLevels {
			enabled[lvl] = true
		}
	}

	var c *color.Color
	if cfg.Color != 0 {
		c = color.New(cfg.Color)
	}

	return &ComponentLogger{
		component: cfg.ComponentName,
		color:     c,
		enabled:   enabled,
	}
}

func (l *ComponentLogger) log(level LogLevel, format string, args ...interface{}) {
	if !l.enabled[level] {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := "[" + l.component + "] "
	msg := prefix + fmt.Sprintf(format, args...)
	if l.color != nil {
		msg = l.color.Sprint(msg)
	}
	log.Print(msg)
}

// Debug logs at DEBUG level.
func (l *ComponentLogger) Debug(format string, args ...interface{}) { l.log(DEBUG, format, args...) }

// Info logs at INFO level.
func (l *ComponentLogger) Info(format string, args ...interface{}) { l.log(INFO, format, args...) }

// Warn logs at WARN level.
func (l *ComponentLogger) Warn(format string, args ...interface{}) { l.log(WARN, format, args...) }

// Error logs at ERROR level.
func (l *ComponentLogger) Error(format string, args ...interface{}) { l.log(ERROR, format, args...) }
