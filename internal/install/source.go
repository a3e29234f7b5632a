package install

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/skills-cli/internal/archive"
)

// SourceKind identifies where skills are installed from.
type SourceKind int

const (
	// SourceDirectory is a local directory.
	SourceDirectory SourceKind = iota
	// SourceZip is a local zip archive.
	SourceZip
	// SourceGitHub is a GitHub repository URL.
	SourceGitHub
)

// String returns a human-readable string for SourceKind.
func (k SourceKind) String() string {
	switch k {
	case SourceDirectory:
		return "directory"
	case SourceZip:
		return "zip"
	case SourceGitHub:
		return "github"
	default:
		return "unknown"
	}
}

// IsGitHubURL reports whether source names a GitHub repository.
func IsGitHubURL(source string) bool {
	return strings.HasPrefix(source, "https://github.com/") || strings.HasPrefix(source, "github.com/")
}

// Classify decides how to treat source. A path ending in .zip is treated as
// an archive even when it does not exist, so the open error is reported.
func Classify(source string) SourceKind {
	if IsGitHubURL(source) {
		return SourceGitHub
	}
	if strings.EqualFold(filepath.Ext(source), ".zip") {
		return SourceZip
	}
	if info, err := os.Stat(source); err == nil && info.Mode().IsRegular() && archive.IsZip(source) {
		return SourceZip
	}
	return SourceDirectory
}

// ErrInvalidGitHubURL is returned when a GitHub URL lacks owner and repo.
var ErrInvalidGitHubURL = errors.New("Invalid GitHub URL. Expected format: github.com/owner/repo") //nolint:staticcheck // user-facing sentence

// GitHubRef is a parsed GitHub repository reference.
type GitHubRef struct {
	Owner string
	Repo  string
	// Branch is empty when the URL does not name one.
	Branch string
	// Subpath is the directory inside the repository named by a /tree/ URL.
	Subpath string
}

// ParseGitHubURL parses github.com/owner/repo[/tree/<branch>[/<path>]],
// with or without a scheme.
func ParseGitHubURL(raw string) (GitHubRef, error) {
	s := strings.TrimPrefix(raw, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.TrimRight(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return GitHubRef{}, ErrInvalidGitHubURL
	}

	ref := GitHubRef{
		Owner: parts[0],
		Repo:  strings.TrimSuffix(parts[1], ".git"),
	}
	if len(parts) > 2 && parts[2] == "tree" {
		if len(parts) > 3 {
			ref.Branch = parts[3]
		}
		if len(parts) > 4 {
			ref.Subpath = strings.Join(parts[4:], "/")
		}
	}
	return ref, nil
}

// String returns owner/repo.
func (r GitHubRef) String() string {
	return r.Owner + "/" + r.Repo
}
