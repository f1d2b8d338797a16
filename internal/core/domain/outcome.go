package domain

// Outcome describes how a single file was handled by the worker.
type Outcome string

const (
	// OutcomeCached indicates the output came from the cache without transforming.
	OutcomeCached Outcome = "cached"
	// OutcomeTransformed indicates the transformer ran and the cache was updated.
	OutcomeTransformed Outcome = "transformed"
	// OutcomeFailed indicates the file could not be read.
	OutcomeFailed Outcome = "failed"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
