// Package errors provides the classified error type used across modelsite.
//
// A ClassifiedError carries a category (config, model, source, filesystem,
// generate, internal), a severity and structured context. The CLI adapter maps
// categories to process exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryModel, "failed to read model").
//		WithPath(path).
//		Build()
package errors
