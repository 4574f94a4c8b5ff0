package hooks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
)

// ScriptFileExtension marks a post_install value as a path to a script file.
const ScriptFileExtension = ".tengo"

// LoadScript returns the script source for a post_install value. Values
// ending in .tengo are read from disk, relative to baseDir unless absolute;
// anything else is returned as is.
func LoadScript(baseDir, value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, ScriptFileExtension) || strings.ContainsAny(value, "\n;") {
		return value, nil
	}

	path := value
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(ErrHookLoad, "%s: %v", path, err)
	}
	return string(content), nil
}
