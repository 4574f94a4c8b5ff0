// Package hooks runs the optional post-install scripts packages can declare.
// Scripts are written in Tengo.
package hooks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alpertunga-bile/third-wheel/internal/logger"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// StdlibModules are the Tengo standard library modules scripts may import.
var StdlibModules = []string{"fmt", "os", "strings", "text", "times"}

// TengoExecutor handles the execution of Tengo scripts.
type TengoExecutor struct{}

// NewTengoExecutor creates a new Tengo script executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{}
}

// Run executes script with the context variables defined. An empty script
// is a no-op. A script that leaves a non-empty err variable fails with
// ErrHookScript.
func (e *TengoExecutor) Run(ctx context.Context, script string, hc HookContext) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	scriptInstance := tengo.NewScript([]byte(script))
	scriptInstance.SetImports(stdlib.GetModuleMap(StdlibModules...))

	vars := hc.variables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := scriptInstance.Add(name, vars[name]); err != nil {
			return fmt.Errorf("failed to add variable '%s' to script: %w", name, err)
		}
	}

	logger.Debug("Running post-install hook", logger.Fields{"package": hc.PackageName})
	compiled, err := scriptInstance.RunContext(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", hc.PackageName, ErrHookExecution, err)
	}

	if !compiled.IsDefined("err") {
		return nil
	}
	switch v := compiled.Get("err").Value().(type) {
	case *tengo.Error:
		return fmt.Errorf("%s: %w: %s", hc.PackageName, ErrHookScript, v.Value.String())
	case error:
		return fmt.Errorf("%s: %w: %w", hc.PackageName, ErrHookScript, v)
	case string:
		if v != "" {
			return fmt.Errorf("%s: %w: %s", hc.PackageName, ErrHookScript, v)
		}
	}

	return nil
}
