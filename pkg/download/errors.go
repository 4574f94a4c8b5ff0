package download

import "fmt"

var (
	// ErrArchiveUnavailable is returned when neither release URL serves the asset.
	ErrArchiveUnavailable = fmt.Errorf("release archive unavailable")
	// ErrDownloadFailed is returned when the transfer to disk fails.
	ErrDownloadFailed = fmt.Errorf("download failed")
)
