package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/gdpreport/internal/model"
)

// DefaultSpecFile is the default report specification file name.
const DefaultSpecFile = ".gdpreport.yaml"

// LoadSpecFile loads a report specification from a YAML file.
// Values in the file overlay model.DefaultSpec(), so a file only needs to
// name what it changes. If the file does not exist, ErrSpecNotFound is
// returned.
func LoadSpecFile(path string) (model.ReportSpec, error) {
	spec := model.DefaultSpec()

	data, err := os.ReadFile(path) //nolint:gosec // User-provided spec path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return spec, fmt.Errorf("%w: %s", ErrSpecNotFound, path)
		}
		return spec, err
	}

	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return spec, nil
}

// MarshalSpec encodes a specification as YAML.
func MarshalSpec(spec model.ReportSpec) ([]byte, error) {
	return yaml.Marshal(spec)
}

// FindSpecFile searches for the report spec file in the following order:
// 1. If specPath is specified, use it directly
// 2. Look for .gdpreport.yaml in the current directory
// 3. Look for .gdpreport.yaml in the user's home directory
// 4. Look for .gdpreport.yaml in the XDG config directory
//
// Returns the path to the file if found, or empty string if not found.
func FindSpecFile(specPath string) string {
	if specPath != "" {
		if _, err := os.Stat(specPath); err == nil {
			return specPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultSpecFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultSpecFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), DefaultSpecFile))

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}
