package hooks

import (
	"fmt"
)

// Common hook errors.
var (
	// ErrHookExecution is returned when a script fails to compile or run.
	ErrHookExecution = fmt.Errorf("error executing hook")

	// ErrHookScript is returned when a script sets the err variable.
	ErrHookScript = fmt.Errorf("hook script error")

	// ErrHookLoad is returned when a script file cannot be read.
	ErrHookLoad = fmt.Errorf("failed to load hook")
)
