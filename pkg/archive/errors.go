package archive

import "fmt"

var (
	// ErrUnsupportedFormat is returned for extensions other than zip, tar and tar.gz.
	ErrUnsupportedFormat = fmt.Errorf("unsupported archive format")
	// ErrFormatMismatch is returned when the content does not match the extension.
	ErrFormatMismatch = fmt.Errorf("archive content does not match its extension")
	// ErrUnsafePath is returned for entries that would land outside the destination.
	ErrUnsafePath = fmt.Errorf("archive entry escapes destination")
)
