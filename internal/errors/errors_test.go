package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithPath("modelsite.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if !err.IsFatal() {
			t.Errorf("expected fatal severity, got %s", err.Severity())
		}
		if err.Path() != "modelsite.yaml" {
			t.Errorf("expected path modelsite.yaml, got %q", err.Path())
		}
		if err.Error() != "config: invalid configuration" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Wrapping keeps the cause", func(t *testing.T) {
		cause := stderrors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "cannot write page").Build()
		if !stderrors.Is(err, cause) {
			t.Error("expected errors.Is to find cause")
		}
		if err.Error() != "filesystem: cannot write page: permission denied" {
			t.Errorf("unexpected message %q", err.Error())
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("load: %w", ModelError("bad yaml").Build())
		if !HasCategory(err, CategoryModel) {
			t.Error("expected model category through fmt wrapping")
		}
		if GetCategory(stderrors.New("plain")) != CategoryInternal {
			t.Error("plain errors should be internal")
		}
	})

	t.Run("Source errors are warnings", func(t *testing.T) {
		if SourceError("x").Build().Severity() != SeverityWarning {
			t.Error("expected warning severity")
		}
	})

	t.Run("Builder reuse does not share context", func(t *testing.T) {
		b := ConfigError("x").WithContext("field", "site")
		first := b.Build()
		b.WithContext("field", "models")
		if v, _ := first.Context().GetString("field"); v != "site" {
			t.Errorf("built error changed with builder: %q", v)
		}
	})
}

func TestCategoryExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     int
	}{
		{CategoryValidation, 2},
		{CategoryConfig, 7},
		{CategoryModel, 9},
		{CategoryInternal, 10},
		{CategoryFileSystem, 11},
		{CategoryGenerate, 11},
		{CategorySource, 1},
		{ErrorCategory("unknown"), 1},
	}
	for _, tt := range tests {
		if got := tt.category.ExitCode(); got != tt.want {
			t.Errorf("%s.ExitCode() = %d, want %d", tt.category, got, tt.want)
		}
	}
}

func TestCLIErrorAdapter(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", stderrors.New("x"), 1},
		{"validation", ValidationError("x").Build(), 2},
		{"config", ConfigError("x").Build(), 7},
		{"model", ModelError("x").Build(), 9},
		{"internal", InternalError("x").Build(), 10},
		{"filesystem", FileSystemError("x").Build(), 11},
		{"generate", GenerateError("x").Build(), 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}

	t.Run("Handle prints message and path", func(t *testing.T) {
		var out bytes.Buffer
		adapter.out = &out
		logs.Reset()
		code := adapter.Handle(ConfigError("configuration file not found").WithPath("modelsite.yaml").WithContext("attempt", 1).Build())
		if code != 7 {
			t.Errorf("Handle() = %d, want 7", code)
		}
		if out.String() != "Error: configuration file not found (modelsite.yaml)\n" {
			t.Errorf("unexpected output %q", out.String())
		}
		line := logs.String()
		if !strings.Contains(line, "category=config attempt=1 path=modelsite.yaml") {
			t.Errorf("context attributes not logged in key order: %q", line)
		}
	})

	t.Run("Verbose prints the chain", func(t *testing.T) {
		var out bytes.Buffer
		verbose := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(io.Discard, nil)))
		verbose.out = &out
		verbose.Handle(WrapError(stderrors.New("yaml: bad"), CategoryModel, "failed to parse model").Build())
		if out.String() != "Error: model: failed to parse model: yaml: bad\n" {
			t.Errorf("unexpected output %q", out.String())
		}
	})
}
