package log

import (
	"log/slog"
	"os"
)

// SetupLogger installs the package's JSON handler as the process-wide slog
// default. Records go to standard error so fit results piped to standard
// output stay clean, and errors logged under ErrAttrKey carry the stack
// trace recorded by cockroachdb/errors.
//
// This is meant for applications that want fitgo's diagnostics in structured
// form; the library itself never changes the process default.
func SetupLogger(level Level) {
	opts := slog.HandlerOptions{
		AddSource: true,
		Level:     slog.Level(level),
	}
	handler := slog.NewJSONHandler(os.Stderr, &opts)
	slog.SetDefault(slog.New(NewStacktraceHandler(handler)))
}

// ParseLevel converts a level name such as "debug" or "warn" to a Level.
// Unknown names map to LevelInfo.
func ParseLevel(name string) Level {
	switch name {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

const (
	// ErrAttrKey is the attribute key the stacktrace handler watches for.
	ErrAttrKey = "error"

	// StacktraceAttrKey is the attribute key the extracted trace is stored under.
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error for structured logging under ErrAttrKey.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
