package hooks

// HookContext contains information passed to hooks.
type HookContext struct {
	PackageName    string
	PackageVersion string
	// InstallPath is where the package now lives.
	InstallPath  string
	TargetFolder string
	// Platform is the OS family the package was provisioned for.
	Platform string
	Vars     map[string]interface{}
}

// variables maps script variable names to their values.
func (c HookContext) variables() map[string]interface{} {
	vars := map[string]interface{}{
		"packageName":    c.PackageName,
		"packageVersion": c.PackageVersion,
		"installPath":    c.InstallPath,
		"targetFolder":   c.TargetFolder,
		"platform":       c.Platform,
	}
	for k, v := range c.Vars {
		vars[k] = v
	}
	return vars
}
