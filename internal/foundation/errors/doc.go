// Package errors provides the classified error primitives used across prpreview.
//
// A ClassifiedError carries a category, a severity, a retry hint and a small
// context map (repository, pr, step, ...) so the CLI can log fatal conditions
// with enough detail to replay them by hand.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryPublish, "push rejected").
//		WithCause(pushErr).
//		WithContext("repository", "docs-site").
//		WithContext("pr", 42).
//		Build()
package errors
