package venv

import "fmt"

var (
	// ErrVenvCreate is returned when the environment cannot be created.
	ErrVenvCreate = fmt.Errorf("failed to create python environment")
	// ErrVenvInstall is returned when installing packages into it fails.
	ErrVenvInstall = fmt.Errorf("failed to install python packages")
)
