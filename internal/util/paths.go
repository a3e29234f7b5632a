package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// ConfigDir returns the skills configuration directory. SKILLS_HOME
// overrides the default of ~/.config/skills.
func ConfigDir() string {
	if v := os.Getenv("SKILLS_HOME"); v != "" {
		return ExpandHome(v)
	}
	return filepath.Join(HomeDir(), ".config", "skills")
}
