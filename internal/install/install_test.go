package install

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauern/skills-cli/internal/archive"
	"github.com/klauern/skills-cli/internal/remote"
	"github.com/klauern/skills-cli/internal/ui"
	"github.com/klauern/skills-cli/internal/util"
)

func TestSkill(t *testing.T) {
	t.Run("valid skill", func(t *testing.T) {
		src := util.WriteSkill(t, filepath.Join(t.TempDir(), "demo"), "demo", "d")
		dest := t.TempDir()

		res := Skill(src, dest)
		if !res.Success() {
			t.Fatalf("Skill() error = %v", res.Err)
		}
		if res.Target != filepath.Join(dest, "demo") {
			t.Errorf("Target = %q", res.Target)
		}
		if res.Message() != "Installed demo to "+filepath.Join(dest, "demo") {
			t.Errorf("Message() = %q", res.Message())
		}
		if !util.DirExists(res.Target) {
			t.Error("target not created")
		}
	})

	t.Run("invalid skill reports first violation", func(t *testing.T) {
		src := util.WriteSkill(t, filepath.Join(t.TempDir(), "wrong-dir"), "Bad--Name", "d")
		dest := t.TempDir()

		res := Skill(src, dest)
		if res.Success() {
			t.Fatal("Skill() expected failure")
		}
		if res.Message() != "Skill name 'Bad--Name' must be lowercase" {
			t.Errorf("Message() = %q", res.Message())
		}
		entries, _ := os.ReadDir(dest)
		if len(entries) != 0 {
			t.Errorf("nothing should be installed, found %d entries", len(entries))
		}
	})
}

func TestAll_ContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	bad := util.WriteSkill(t, filepath.Join(root, "bad"), "not-bad", "d")
	good := util.WriteSkill(t, filepath.Join(root, "good"), "good", "d")
	dest := t.TempDir()

	var seen int
	results := All([]string{bad, good}, dest, func(Result) { seen++ })

	if len(results) != 2 || seen != 2 {
		t.Fatalf("got %d results, callback %d, want 2", len(results), seen)
	}
	if results[0].Success() || !results[1].Success() {
		t.Errorf("results = %+v", results)
	}
	if failed := Failed(results); len(failed) != 1 || failed[0].Source != bad {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestInstaller_Directory(t *testing.T) {
	src := t.TempDir()
	util.WriteSkill(t, filepath.Join(src, "alpha"), "alpha", "d")
	util.WriteSkill(t, filepath.Join(src, "group", "beta"), "beta", "d")
	dest := filepath.Join(t.TempDir(), "skills")

	discovered := 0
	inst := &Installer{Dest: dest, OnDiscovered: func(n int) { discovered = n }}
	results, err := inst.Install(context.Background(), src, "")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if discovered != 2 || len(results) != 2 {
		t.Errorf("discovered %d, results %d, want 2", discovered, len(results))
	}
	for _, name := range []string{"alpha", "beta"} {
		if !util.DirExists(filepath.Join(dest, name)) {
			t.Errorf("%s not installed", name)
		}
	}
}

func TestInstaller_Errors(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "notes.txt")
	util.WriteFile(t, file, "x")
	empty := filepath.Join(tmp, "empty")
	if err := os.MkdirAll(empty, 0o750); err != nil {
		t.Fatal(err)
	}
	badZip := filepath.Join(tmp, "empty.zip")
	writeZip(t, badZip, t.TempDir(), "")

	tests := map[string]struct {
		source string
		want   string
	}{
		"missing source": {source: filepath.Join(tmp, "missing"), want: "Source not found: " + filepath.Join(tmp, "missing")},
		"plain file":     {source: file, want: "Source must be a directory or zip file: " + file},
		"no skills":      {source: empty, want: "No skills found in " + empty},
		"zip no skills":  {source: badZip, want: "No skills found in zip file"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			inst := &Installer{Dest: t.TempDir()}
			_, err := inst.Install(context.Background(), tt.source, "")
			if err == nil || err.Error() != tt.want {
				t.Errorf("Install() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestInstaller_PartialFailure(t *testing.T) {
	src := t.TempDir()
	util.WriteSkill(t, filepath.Join(src, "good"), "good", "d")
	util.WriteSkill(t, filepath.Join(src, "mismatch"), "other", "d")

	inst := &Installer{Dest: t.TempDir()}
	results, err := inst.Install(context.Background(), src, "")
	if !errors.Is(err, ErrSkillsFailed) {
		t.Fatalf("Install() error = %v, want ErrSkillsFailed", err)
	}
	if len(results) != 2 || len(Failed(results)) != 1 {
		t.Errorf("results = %+v", results)
	}
}

func TestInstaller_Zip(t *testing.T) {
	skillRoot := t.TempDir()
	util.WriteSkill(t, filepath.Join(skillRoot, "zipped"), "zipped", "From a zip")
	zipPath := filepath.Join(t.TempDir(), "bundle.zip")
	writeZip(t, zipPath, filepath.Join(skillRoot, "zipped"), "zipped")

	dest := t.TempDir()
	inst := &Installer{Dest: dest}
	results, err := inst.Install(context.Background(), zipPath, "")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if len(results) != 1 || results[0].Name != "zipped" {
		t.Errorf("results = %+v", results)
	}
}

type fakeDownloader struct {
	archive *remote.Archive
	err     error
	branch  string
}

func (f *fakeDownloader) Download(_ context.Context, owner, repo, branch string) (*remote.Archive, error) {
	f.branch = branch
	if f.err != nil {
		return nil, f.err
	}
	a := *f.archive
	a.Owner, a.Repo = owner, repo
	return &a, nil
}

func repoArchive(t *testing.T, prefix string, skills ...string) []byte {
	t.Helper()
	repo := t.TempDir()
	util.WriteFile(t, filepath.Join(repo, "README.md"), "# repo\n")
	for _, s := range skills {
		name := filepath.Base(s)
		util.WriteSkill(t, filepath.Join(repo, filepath.FromSlash(s)), name, "d")
	}
	var buf bytes.Buffer
	if _, err := archive.Create(&buf, repo, archive.CreateOptions{Prefix: prefix}); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestInstaller_GitHub(t *testing.T) {
	ui.DisableColors()
	data := repoArchive(t, "skills-master", "document-skills/pdf", "document-skills/docx", "tools/deep/nested/x")
	dl := &fakeDownloader{archive: &remote.Archive{Branch: "master", Data: data}}

	var out bytes.Buffer
	dest := t.TempDir()
	inst := &Installer{Dest: dest, Downloader: dl, Out: &out}

	results, err := inst.Install(context.Background(), "https://github.com/acme/skills", "")
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if dl.branch != "main" {
		t.Errorf("requested branch = %q, want main", dl.branch)
	}
	if out.String() != "Downloading acme/skills...\n" {
		t.Errorf("output = %q", out.String())
	}

	var names []string
	for _, r := range results {
		names = append(names, r.Name)
	}
	sort.Strings(names)
	if strings.Join(names, ",") != "docx,pdf" {
		t.Errorf("installed = %v, want docx,pdf", names)
	}
}

func TestInstaller_GitHubSubpath(t *testing.T) {
	data := repoArchive(t, "skills-dev", "document-skills/pdf", "other/thing")

	tests := map[string]struct {
		url      string
		subpath  string
		want     []string
		wantErr  string
		branchIs string
	}{
		"subpath flag": {
			url:      "github.com/acme/skills/tree/dev",
			subpath:  "document-skills",
			want:     []string{"pdf"},
			branchIs: "dev",
		},
		"subpath in url": {
			url:      "https://github.com/acme/skills/tree/dev/other",
			want:     []string{"thing"},
			branchIs: "dev",
		},
		"flag overrides url": {
			url:      "https://github.com/acme/skills/tree/dev/other",
			subpath:  "document-skills/pdf",
			want:     []string{"pdf"},
			branchIs: "dev",
		},
		"missing subpath": {
			url:     "github.com/acme/skills/tree/dev",
			subpath: "nope",
			wantErr: "Subpath not found: nope",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dl := &fakeDownloader{archive: &remote.Archive{Branch: "dev", Data: data}}
			inst := &Installer{Dest: t.TempDir(), Downloader: dl}

			results, err := inst.Install(context.Background(), tt.url, tt.subpath)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Install() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Install() error = %v", err)
			}
			if dl.branch != tt.branchIs {
				t.Errorf("branch = %q, want %q", dl.branch, tt.branchIs)
			}
			if len(results) != len(tt.want) || results[0].Name != tt.want[0] {
				t.Errorf("results = %+v, want %v", results, tt.want)
			}
		})
	}
}

func TestInstaller_GitHubErrors(t *testing.T) {
	t.Run("download failure", func(t *testing.T) {
		dl := &fakeDownloader{err: &remote.HTTPError{StatusCode: 404, Message: "Not Found"}}
		inst := &Installer{Dest: t.TempDir(), Downloader: dl}

		_, err := inst.Install(context.Background(), "github.com/acme/none", "")
		if err == nil || err.Error() != "Could not download repository: 404 - Not Found" {
			t.Errorf("Install() error = %v", err)
		}
	})

	t.Run("invalid url", func(t *testing.T) {
		inst := &Installer{Dest: t.TempDir(), Downloader: &fakeDownloader{}}

		_, err := inst.Install(context.Background(), "github.com/acme", "")
		if !errors.Is(err, ErrInvalidGitHubURL) {
			t.Errorf("Install() error = %v", err)
		}
	})

	t.Run("no skills", func(t *testing.T) {
		data := repoArchive(t, "empty-main")
		dl := &fakeDownloader{archive: &remote.Archive{Branch: "main", Data: data}}
		inst := &Installer{Dest: t.TempDir(), Downloader: dl}

		_, err := inst.Install(context.Background(), "github.com/acme/empty", "")
		if !errors.Is(err, ErrNoSkillsInRepository) {
			t.Errorf("Install() error = %v", err)
		}
	})
}

func TestExtractedRoot(t *testing.T) {
	t.Run("expected name", func(t *testing.T) {
		tmp := t.TempDir()
		want := filepath.Join(tmp, "skills-main")
		if err := os.MkdirAll(want, 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.MkdirAll(filepath.Join(tmp, "aaa"), 0o750); err != nil {
			t.Fatal(err)
		}

		got, err := extractedRoot(tmp, "skills", "main")
		if err != nil || got != want {
			t.Errorf("extractedRoot() = %q, %v; want %q", got, err, want)
		}
	})

	t.Run("first directory", func(t *testing.T) {
		tmp := t.TempDir()
		want := filepath.Join(tmp, "Skills-abc123")
		if err := os.MkdirAll(want, 0o750); err != nil {
			t.Fatal(err)
		}

		got, err := extractedRoot(tmp, "skills", "main")
		if err != nil || got != want {
			t.Errorf("extractedRoot() = %q, %v; want %q", got, err, want)
		}
	})

	t.Run("nothing extracted", func(t *testing.T) {
		_, err := extractedRoot(t.TempDir(), "skills", "main")
		if !errors.Is(err, ErrExtractedRepoMissing) {
			t.Errorf("extractedRoot() error = %v", err)
		}
	})
}

func TestDefaultDest(t *testing.T) {
	tmp := t.TempDir()
	missing := filepath.Join(tmp, "missing")
	existing := filepath.Join(tmp, "existing")
	if err := os.MkdirAll(existing, 0o750); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		configured string
		dirs       []string
		want       string
	}{
		"configured wins":     {configured: "/opt/skills", dirs: []string{existing}, want: "/opt/skills"},
		"first existing":      {dirs: []string{missing, existing}, want: existing},
		"falls back to first": {dirs: []string{missing, filepath.Join(tmp, "other")}, want: missing},
		"nothing":             {want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := DefaultDest(tt.configured, tt.dirs); got != tt.want {
				t.Errorf("DefaultDest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeZip(t *testing.T, dst, dir, prefix string) {
	t.Helper()
	if _, err := archive.CreateFile(dst, dir, archive.CreateOptions{Prefix: prefix}); err != nil {
		t.Fatal(err)
	}
}
