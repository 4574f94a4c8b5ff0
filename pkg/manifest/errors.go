package manifest

import "fmt"

var (
	// ErrDuplicatePackage is returned when two packages share a name.
	ErrDuplicatePackage = fmt.Errorf("duplicate package name")
	// ErrUnknownPackage is returned when a name is not in the package file.
	ErrUnknownPackage = fmt.Errorf("package not in package file")
)
