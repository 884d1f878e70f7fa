package errors

// KeyPath is the context key naming the file an error is about.
const KeyPath = "path"

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts an error of category with severity error.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}}
}

// WrapError starts an error that wraps cause.
func WrapError(cause error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.err.cause = cause
	return b
}

func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.err.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// WithPath records the file the error is about.
func (b *ErrorBuilder) WithPath(path string) *ErrorBuilder {
	return b.WithContext(KeyPath, path)
}

func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build returns the ClassifiedError. The builder may be reused afterwards.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	ctx := make(ErrorContext, len(b.err.context))
	for k, v := range b.err.context {
		ctx[k] = v
	}
	e.context = ctx
	return &e
}

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a usage error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// ModelError creates a model loading error.
func ModelError(message string) *ErrorBuilder {
	return NewError(CategoryModel, message).Fatal()
}

// SourceError creates a source location error. Resolvers recover from these
// locally, so they are warnings.
func SourceError(message string) *ErrorBuilder {
	return NewError(CategorySource, message).Warning()
}

func FileSystemError(message string) *ErrorBuilder {
	return NewError(CategoryFileSystem, message).Fatal()
}

func GenerateError(message string) *ErrorBuilder {
	return NewError(CategoryGenerate, message).Fatal()
}

func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}
