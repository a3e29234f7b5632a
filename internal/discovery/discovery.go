// Package discovery locates skill directories on disk.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/model"
	"github.com/klauern/skills-cli/internal/parser"
)

// FindSkills returns the skill directories at root, its immediate children,
// and its grandchildren. A child that is itself a skill is not searched
// further. Results follow directory iteration order; no validation is done.
func FindSkills(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var skills []string
	if parser.IsSkillDir(root) {
		skills = append(skills, root)
	}

	for _, entry := range entries {
		child := filepath.Join(root, entry.Name())
		if !isDir(child) {
			continue
		}
		if parser.IsSkillDir(child) {
			skills = append(skills, child)
			continue
		}

		grandchildren, err := os.ReadDir(child)
		if err != nil {
			logging.Debug("skipping unreadable directory", logging.Path(child), logging.Err(err))
			continue
		}
		for _, gc := range grandchildren {
			path := filepath.Join(child, gc.Name())
			if isDir(path) && parser.IsSkillDir(path) {
				skills = append(skills, path)
			}
		}
	}

	logging.Debug("discovered skills", logging.Path(root), logging.Count(len(skills)))
	return skills, nil
}

// Installed is one entry of a skills directory listing.
type Installed struct {
	// Dir is the skill directory.
	Dir string
	// Properties is set when the manifest could be read.
	Properties *model.SkillProperties
	// Err is the read failure for an invalid skill.
	Err error
}

// Name returns the manifest name, or the directory name for invalid skills.
func (i Installed) Name() string {
	if i.Properties != nil {
		return i.Properties.Name
	}
	return filepath.Base(i.Dir)
}

// Valid reports whether the manifest was read successfully.
func (i Installed) Valid() bool {
	return i.Properties != nil
}

// Group holds the skills found directly under one skills directory.
type Group struct {
	Root   string
	Skills []Installed
}

// ListInstalled scans each directory for immediate children that contain a
// manifest. Missing directories and directories without skills are left out.
// Skills within a group are sorted by path.
func ListInstalled(dirs []string) []Group {
	var groups []Group
	for _, root := range dirs {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		var paths []string
		for _, entry := range entries {
			path := filepath.Join(root, entry.Name())
			if isDir(path) && parser.IsSkillDir(path) {
				paths = append(paths, path)
			}
		}
		if len(paths) == 0 {
			continue
		}
		sort.Strings(paths)

		group := Group{Root: root}
		for _, path := range paths {
			item := Installed{Dir: path}
			props, err := parser.ReadProperties(path)
			if err != nil {
				var merr *model.ManifestError
				if errors.As(err, &merr) && merr.Kind.Structural() {
					logging.Debug("unreadable manifest", logging.Path(path), logging.Err(err))
				} else {
					logging.Debug("invalid skill", logging.Path(path), logging.Err(err))
				}
				item.Err = err
			} else {
				item.Properties = &props
			}
			group.Skills = append(group.Skills, item)
		}
		groups = append(groups, group)
	}
	return groups
}

// isDir follows symlinks so linked skill directories are found.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
