package logging

import "github.com/fatih/color"

// Package-level loggers for the long-lived components of the search loop.
// Each gets its own instance (rather than one shared logger) so a future
// operator can raise the verbosity of, say, the fitness evaluator alone.
var (
	GALogger       = NewComponentLogger(ComponentLoggerConfig{ComponentName: "GA", Color: color.FgMagenta})
	FitnessLogger  = NewComponentLogger(ComponentLoggerConfig{ComponentName: "FITNESS", Color: color.FgCyan})
	SamplerLogger  = NewComponentLogger(ComponentLoggerConfig{ComponentName: "SAMPLER", Color: color.FgYellow})
	TransformLogger = NewComponentLogger(ComponentLoggerConfig{ComponentName: "TRANSFORM", Color: color.FgBlue})
	FrontendLogger = NewComponentLogger(ComponentLoggerConfig{ComponentName: "CLI", Color: color.FgGreen})
)

// LoggerFactory resolves a ComponentLogger by name, falling back to a
// freshly constructed one for unrecognized components.
type LoggerFactory struct{}

// GetLogger returns the well-known logger for component, or a new
// all-levels logger scoped to that name if it is not one of the pre-defined
// components.
func (f *LoggerFactory) GetLogger(component string) *ComponentLogger {
	switch component {
	case "GA":
		return GALogger
	case "FITNESS":
		return FitnessLogger
	case "SAMPLER":
		return SamplerLogger
	case "TRANSFORM":
		return TransformLogger
	case "CLI":
		return FrontendLogger
	default:
		return NewComponentLogger(ComponentLoggerConfig{ComponentName: component})
	}
}

// LogInfo is a convenience wrapper for ad-hoc logging from code that does
// not hold a ComponentLogger reference.
func LogInfo(component, format string, args ...interface{}) {
	(&LoggerFactory{}).GetLogger(component).Info(format, args...)
}

// LogError is the ERROR-level counterpart of LogInfo.
func LogError(component, format string, args ...interface{}) {
	(&LoggerFactory{}).GetLogger(component).Error(format, args...)
}
