package repo

import "errors"

// Sentinel errors forming the failure taxonomy of the analysis core. Every
// failure returned by this package wraps exactly one of these, so callers
// classify with errors.Is and never parse messages.
var (
	// ErrNotInitialized is returned by operations invoked before a
	// successful Initialize.
	ErrNotInitialized = errors.New("repository not initialized")
	// ErrInvalidRepository is returned by Initialize for roots that do not
	// exist or are not directories.
	ErrInvalidRepository = errors.New("invalid repository root")
	// ErrNotFound covers missing paths and file reads aimed at directories.
	ErrNotFound = errors.New("path not found")
	// ErrNotADirectory is returned for structure queries on file paths.
	ErrNotADirectory = errors.New("not a directory")
	// ErrPathEscape marks a resolved path landing outside the root. It is a
	// security boundary violation and always propagates distinctly.
	ErrPathEscape = errors.New("path escapes repository root")
	// ErrTooLarge is returned before reading any content of an oversized file.
	ErrTooLarge = errors.New("file exceeds maximum readable size")
	// ErrBinaryFile marks content withheld because it is not text.
	ErrBinaryFile = errors.New("binary file")
	// ErrDecodeError is returned when neither UTF-8 nor the legacy fallback
	// encoding can decode the content.
	ErrDecodeError = errors.New("undecodable file content")
	// ErrPermissionDenied maps filesystem permission failures.
	ErrPermissionDenied = errors.New("permission denied")
)
