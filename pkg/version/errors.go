package version

import "fmt"

var (
	// ErrVersionFetch is returned when the tags page cannot be retrieved.
	ErrVersionFetch = fmt.Errorf("failed to fetch tags page")
	// ErrVersionNotFound is returned when the tags page has no tag link.
	ErrVersionNotFound = fmt.Errorf("no release tag found")
)
