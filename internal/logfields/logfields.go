package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyLocation   = "location"
	KeyLine       = "line"
	KeyColumn     = "column"
	KeyPath       = "path"
	KeyPage       = "page"
	KeyStatus     = "status"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyCount      = "count"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Location(l string) slog.Attr     { return slog.String(KeyLocation, l) }
func Line(n int) slog.Attr            { return slog.Int(KeyLine, n) }
func Column(n int) slog.Attr          { return slog.Int(KeyColumn, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
