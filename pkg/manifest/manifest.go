// Package manifest loads the package file: where the Python environment and
// the third-party packages go, and which packages to fetch.
package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/alpertunga-bile/third-wheel/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the manifest read when no path is given.
const DefaultFile = "packages.json"

const schemaURL = "manifest.schema.json"

//go:embed schema.json
var schemaJSON []byte

// Manifest is the package file.
type Manifest struct {
	VenvFolder   string       `json:"venv_folder" yaml:"venv_folder"`
	TargetFolder string       `json:"target_folder" yaml:"target_folder"`
	VenvPackages []string     `json:"venv_packages,omitempty" yaml:"venv_packages,omitempty"`
	Packages     []Descriptor `json:"packages" yaml:"packages"`

	// Dir is the directory the manifest was read from.
	Dir string `json:"-" yaml:"-"`
}

// Descriptor is one package entry. It is read-only once loaded.
type Descriptor struct {
	Name      string  `json:"name" yaml:"name"`
	GitHubURL string  `json:"github_url" yaml:"github_url"`
	Version   *string `json:"version" yaml:"version"`
	FileExt   *string `json:"file_ext" yaml:"file_ext"`
	// WinFormat and LinuxFormat may contain {name}, {version} and {os}.
	WinFormat   string `json:"win_format" yaml:"win_format"`
	LinuxFormat string `json:"linux_format" yaml:"linux_format"`
	// PostInstall is a Tengo script, or a path to a .tengo file.
	PostInstall string `json:"post_install,omitempty" yaml:"post_install,omitempty"`
}

// HasVersion reports whether the version is pinned.
func (d Descriptor) HasVersion() bool {
	return d.Version != nil && *d.Version != ""
}

// HasFileExt reports whether the archive extension is set.
func (d Descriptor) HasFileExt() bool {
	return d.FileExt != nil && *d.FileExt != ""
}

// Load reads and validates the manifest at path. JSON is the default;
// .yaml and .yml files are read as YAML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cwd, _ := os.Getwd()
			return nil, errors.Wrapf(errors.ErrManifestNotFound, "%s (working directory %s)", path, cwd)
		}
		return nil, errors.Wrapf(errors.ErrManifestParse, "%s: %v", path, err)
	}

	m, err := Parse(data, isYAML(path))
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	if abs, err := filepath.Abs(filepath.Dir(path)); err == nil {
		m.Dir = abs
	}
	return m, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Parse decodes and validates manifest content.
func Parse(data []byte, asYAML bool) (*Manifest, error) {
	var doc interface{}
	if asYAML {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
		}
		// Re-encode so that schema validation and decoding see JSON types.
		normalized, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
		}
		data = normalized
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}

	if err := validateAgainstSchema(doc); err != nil {
		return nil, errors.Wrap(errors.ErrManifestValidation, err.Error())
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrManifestParse, err.Error())
	}

	seen := make(map[string]bool, len(m.Packages))
	for _, p := range m.Packages {
		if seen[p.Name] {
			return nil, errors.Wrapf(ErrDuplicatePackage, "%q", p.Name)
		}
		seen[p.Name] = true
	}

	return &m, nil
}

func validateAgainstSchema(doc interface{}) error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return err
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// Package returns the descriptor with the given name.
func (m *Manifest) Package(name string) (Descriptor, bool) {
	for _, p := range m.Packages {
		if p.Name == name {
			return p, true
		}
	}
	return Descriptor{}, false
}
