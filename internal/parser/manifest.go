package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/model"
)

// manifestNames are checked in order; the first existing file wins.
var manifestNames = []string{model.ManifestFileName, model.ManifestFileNameLower}

// FindManifest returns the path of the manifest file in dir, or "" when
// neither SKILL.md nor skill.md exists.
func FindManifest(dir string) string {
	for _, name := range manifestNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// IsSkillDir reports whether dir directly contains a manifest file.
func IsSkillDir(dir string) bool {
	return FindManifest(dir) != ""
}

// ResolveSkillDir maps a path that names a SKILL.md file to its parent
// directory. Any other path is returned unchanged.
func ResolveSkillDir(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return path
	}
	if strings.EqualFold(filepath.Base(path), model.ManifestFileName) {
		return filepath.Dir(path)
	}
	return path
}

// Load finds, reads and parses the manifest in dir.
// It returns the parsed manifest and the manifest file path.
func Load(dir string) (*Manifest, string, error) {
	path := FindManifest(dir)
	if path == "" {
		return nil, "", model.NewManifestError(model.KindManifestNotFound, nil,
			"SKILL.md not found in %s", dir)
	}

	logging.Debug("reading manifest", logging.Path(path))

	// #nosec G304 - path is a manifest inside a user-supplied skill directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to read %s: %w", path, err)
	}

	m, err := Parse(string(data))
	if err != nil {
		return nil, path, err
	}
	return m, path, nil
}
