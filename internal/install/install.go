// Package install copies validated skills into a skills directory from a
// local directory, a zip archive, or a GitHub repository.
package install

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauern/skills-cli/internal/archive"
	"github.com/klauern/skills-cli/internal/discovery"
	"github.com/klauern/skills-cli/internal/logging"
	"github.com/klauern/skills-cli/internal/parser"
	"github.com/klauern/skills-cli/internal/remote"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/validation"
)

// Source errors.
//
//nolint:staticcheck // user-facing sentences
var (
	ErrNoSkillsInZip        = errors.New("No skills found in zip file")
	ErrNoSkillsInRepository = errors.New("No skills found in repository")
	ErrExtractedRepoMissing = errors.New("Could not find extracted repository")
)

// ErrSkillsFailed is returned by Installer.Install when any skill in the batch failed.
var ErrSkillsFailed = errors.New("one or more skills failed to install")

// Result is the outcome of installing one skill.
type Result struct {
	// Source is the skill directory that was installed.
	Source string
	// Name is the manifest name; empty when validation failed.
	Name string
	// Target is the installed location.
	Target string
	// Err is the first validation violation or the copy failure.
	Err error
}

// Success returns true if the skill was installed.
func (r Result) Success() bool {
	return r.Err == nil
}

// Message returns the line reported for this skill.
func (r Result) Message() string {
	if r.Err != nil {
		return r.Err.Error()
	}
	return fmt.Sprintf("Installed %s to %s", r.Name, r.Target)
}

// Skill validates the skill in src and copies it to <destDir>/<name>,
// replacing any existing install.
func Skill(src, destDir string) Result {
	res := Result{Source: src}

	if err := validation.Error(validation.Validate(src)); err != nil {
		res.Err = err
		return res
	}

	props, err := parser.ReadProperties(src)
	if err != nil {
		res.Err = err
		return res
	}

	res.Name = props.Name
	res.Target = filepath.Join(destDir, props.Name)
	if err := CopyTree(src, res.Target); err != nil {
		res.Err = err
		return res
	}

	logging.Info("installed skill",
		logging.Skill(props.Name),
		logging.Path(res.Target),
	)
	return res
}

// All installs each skill independently; a failure never stops the batch.
// onResult, when set, is called after each skill.
func All(skills []string, destDir string, onResult func(Result)) []Result {
	results := make([]Result, 0, len(skills))
	for _, src := range skills {
		res := Skill(src, destDir)
		if !res.Success() {
			logging.Info("skill not installed", logging.Path(src), logging.Err(res.Err))
		}
		if onResult != nil {
			onResult(res)
		}
		results = append(results, res)
	}
	return results
}

// Failed returns the results that did not install.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Success() {
			failed = append(failed, r)
		}
	}
	return failed
}

// ArchiveDownloader fetches repository archives.
type ArchiveDownloader interface {
	Download(ctx context.Context, owner, repo, branch string) (*remote.Archive, error)
}

// Installer resolves a source into skill directories and installs them.
type Installer struct {
	// Dest is the skills directory to install into.
	Dest string
	// Downloader fetches GitHub archives.
	Downloader ArchiveDownloader
	// DefaultBranch is used when a GitHub URL names no branch.
	DefaultBranch string
	// Out receives progress lines such as "Downloading owner/repo...".
	Out io.Writer
	// OnDiscovered is called with the number of skills about to be installed.
	OnDiscovered func(n int)
	// OnResult is called after each skill.
	OnResult func(Result)
}

// Install installs every skill found in source. subpath narrows the search
// inside a GitHub repository and overrides a subpath in the URL.
// It returns ErrSkillsFailed, wrapped, when any individual skill failed.
func (i *Installer) Install(ctx context.Context, source, subpath string) ([]Result, error) {
	if err := os.MkdirAll(i.Dest, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create destination %s: %w", i.Dest, err)
	}

	kind := Classify(source)
	logging.Debug("installing", logging.Source(source), logging.Path(i.Dest), slog.String("kind", kind.String()))

	switch kind {
	case SourceGitHub:
		return i.installGitHub(ctx, source, subpath)
	case SourceZip:
		return i.installZip(source)
	default:
		return i.installDir(source)
	}
}

func (i *Installer) installDir(source string) ([]Result, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("Source not found: %s", source) //nolint:staticcheck // user-facing sentence
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("Source must be a directory or zip file: %s", source) //nolint:staticcheck // user-facing sentence
	}

	skills, err := discovery.FindSkills(source)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, fmt.Errorf("No skills found in %s", source) //nolint:staticcheck // user-facing sentence
	}
	return i.installAll(skills)
}

func (i *Installer) installZip(source string) ([]Result, error) {
	tmp, err := os.MkdirTemp("", "skills-zip-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := archive.ExtractFile(source, tmp); err != nil {
		return nil, err
	}

	skills, err := discovery.FindSkills(tmp)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, ErrNoSkillsInZip
	}
	return i.installAll(skills)
}

func (i *Installer) installGitHub(ctx context.Context, source, subpath string) ([]Result, error) {
	ref, err := ParseGitHubURL(source)
	if err != nil {
		return nil, err
	}
	if subpath == "" {
		subpath = ref.Subpath
	}
	branch := ref.Branch
	if branch == "" {
		branch = i.defaultBranch()
	}

	if i.Out != nil {
		_, _ = fmt.Fprintln(i.Out, ui.Info(fmt.Sprintf("Downloading %s...", ref)))
	}

	a, err := i.Downloader.Download(ctx, ref.Owner, ref.Repo, branch)
	if err != nil {
		return nil, fmt.Errorf("Could not download repository: %w", err) //nolint:staticcheck // user-facing sentence
	}

	tmp, err := os.MkdirTemp("", "skills-github-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmp) }()

	if err := archive.Extract(a.Reader(), int64(len(a.Data)), tmp); err != nil {
		return nil, err
	}

	root, err := extractedRoot(tmp, ref.Repo, a.Branch)
	if err != nil {
		return nil, err
	}

	searchDir := root
	if subpath != "" {
		searchDir = filepath.Join(root, filepath.FromSlash(subpath))
		if _, err := os.Stat(searchDir); err != nil {
			return nil, fmt.Errorf("Subpath not found: %s", subpath) //nolint:staticcheck // user-facing sentence
		}
	}

	skills, err := discovery.FindSkills(searchDir)
	if err != nil {
		return nil, err
	}
	if len(skills) == 0 {
		return nil, ErrNoSkillsInRepository
	}
	return i.installAll(skills)
}

func (i *Installer) installAll(skills []string) ([]Result, error) {
	if i.OnDiscovered != nil {
		i.OnDiscovered(len(skills))
	}

	results := All(skills, i.Dest, i.OnResult)
	if failed := Failed(results); len(failed) > 0 {
		return results, fmt.Errorf("%w (%d of %d)", ErrSkillsFailed, len(failed), len(results))
	}
	return results, nil
}

func (i *Installer) defaultBranch() string {
	if i.DefaultBranch != "" {
		return i.DefaultBranch
	}
	return remote.DefaultBranch
}

// extractedRoot finds the top directory of a GitHub archive: <repo>-<branch>,
// or else the first directory present.
func extractedRoot(tmp, repo, branch string) (string, error) {
	expected := filepath.Join(tmp, repo+"-"+branch)
	if info, err := os.Stat(expected); err == nil && info.IsDir() {
		return expected, nil
	}

	entries, err := os.ReadDir(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", tmp, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			return filepath.Join(tmp, e.Name()), nil
		}
	}
	return "", ErrExtractedRepoMissing
}

// DefaultDest picks the install destination: the configured destination,
// else the first existing skills directory, else the first skills directory.
func DefaultDest(configured string, skillsDirs []string) string {
	if configured != "" {
		return configured
	}
	for _, d := range skillsDirs {
		if info, err := os.Stat(d); err == nil && info.IsDir() {
			return d
		}
	}
	if len(skillsDirs) > 0 {
		return skillsDirs[0]
	}
	return ""
}
