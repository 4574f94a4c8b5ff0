package errors

import "fmt"

// Common error types.
var (
	// Settings errors.
	ErrInvalidConfigPath = fmt.Errorf("invalid config file path")
	ErrConfigParse       = fmt.Errorf("failed to parse config")
	ErrConfigValidation  = fmt.Errorf("invalid configuration")

	// Manifest errors.
	ErrManifestNotFound   = fmt.Errorf("package file does not exist")
	ErrManifestParse      = fmt.Errorf("failed to parse package file")
	ErrManifestValidation = fmt.Errorf("invalid package file")

	// Platform errors.
	ErrUnsupportedPlatform = fmt.Errorf("unsupported platform")

	// Filesystem errors.
	ErrInvalidPath = fmt.Errorf("invalid path")
	ErrEmptyPaths  = fmt.Errorf("source and destination paths cannot be empty")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
