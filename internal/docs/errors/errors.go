package errors

// Package errors provides sentinel errors for documentation discovery operations.
// These enable consistent classification and improved error handling for scan failures.

import "errors"

var (
	// ErrDocsRootNotFound indicates the configured docs root directory does not exist.
	ErrDocsRootNotFound = errors.New("docs root not found")

	// ErrDocsWalkFailed indicates filesystem traversal of the docs tree failed.
	ErrDocsWalkFailed = errors.New("docs tree walk failed")

	// ErrFileReadFailed indicates reading content from a discovered documentation file failed.
	ErrFileReadFailed = errors.New("documentation file read failed")

	// ErrInvalidRelativePath indicates calculating a path relative to the docs root failed.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
