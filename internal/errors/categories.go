package errors

import (
	"log/slog"
	"sort"
)

// ErrorCategory groups errors by the part of a run they come from. Each
// category maps to one process exit code.
type ErrorCategory string

const (
	// CategoryConfig covers configuration files and flags.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// CategoryModel covers unreadable or malformed model files.
	CategoryModel  ErrorCategory = "model"
	CategorySource ErrorCategory = "source"

	// CategoryFileSystem and CategoryGenerate abort site generation.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGenerate   ErrorCategory = "generate"

	CategoryInternal ErrorCategory = "internal"
)

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryModel:      9,
	CategoryInternal:   10,
	CategoryFileSystem: 11,
	CategoryGenerate:   11,
}

// ExitCode is the process exit code for errors of category c. Unknown
// categories exit with 1.
func (c ErrorCategory) ExitCode() int {
	if code, ok := exitCodes[c]; ok {
		return code
	}
	return 1
}

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Fails the current operation
	SeverityWarning ErrorSeverity = "warning" // Recovered locally
)

func (s ErrorSeverity) level() slog.Level {
	if s == SeverityWarning {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	s, ok := c[key].(string)
	return s, ok
}

// attrs renders the context as log attributes in key order.
func (c ErrorContext) attrs() []slog.Attr {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, c[k]))
	}
	return out
}
