// Package archive reads and writes skill zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CreateOptions configures archive creation
type CreateOptions struct {
	// Prefix is prepended to every entry name, usually the skill name.
	Prefix string
	// Exclude lists paths that are left out even when they are under dir.
	Exclude []string
	// OnFile is called after each file is written.
	OnFile func(rel string)
}

// ListFiles returns the regular files under dir as slash-separated paths
// relative to dir, in lexical order. Symlinks to files are included.
func ListFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files in %s: %w", dir, err)
	}
	return files, nil
}

// Exclude drops the files that are the same file as one of paths.
// Paths that do not exist are ignored.
func Exclude(dir string, files []string, paths ...string) []string {
	var skip []os.FileInfo
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil {
			skip = append(skip, info)
		}
	}
	if len(skip) == 0 {
		return files
	}

	kept := make([]string, 0, len(files))
	for _, rel := range files {
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
		if err == nil && sameAny(info, skip) {
			continue
		}
		kept = append(kept, rel)
	}
	return kept
}

func sameAny(info os.FileInfo, skip []os.FileInfo) bool {
	for _, s := range skip {
		if os.SameFile(info, s) {
			return true
		}
	}
	return false
}

// Create writes every file under dir into a deflate-compressed zip on w.
// Entry names are "<prefix>/<relative path>". It returns the number of files written.
func Create(w io.Writer, dir string, opts CreateOptions) (int, error) {
	files, err := ListFiles(dir)
	if err != nil {
		return 0, err
	}
	files = Exclude(dir, files, opts.Exclude...)

	zw := zip.NewWriter(w)
	for _, rel := range files {
		if err := addFile(zw, filepath.Join(dir, filepath.FromSlash(rel)), entryName(opts.Prefix, rel)); err != nil {
			_ = zw.Close()
			return 0, err
		}
		if opts.OnFile != nil {
			opts.OnFile(rel)
		}
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return len(files), nil
}

// CreateFile writes the zip archive for dir to the file at dst. The archive
// never contains dst itself, even when dst is inside dir.
func CreateFile(dst, dir string, opts CreateOptions) (int, error) {
	// #nosec G304 - dst is the user-selected output path
	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dst, err)
	}
	opts.Exclude = append(append([]string(nil), opts.Exclude...), dst)

	n, err := Create(f, dir, opts)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", dst, closeErr)
	}
	if err != nil {
		_ = os.Remove(dst)
		return 0, err
	}
	return n, nil
}

func entryName(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}

func addFile(zw *zip.Writer, src, name string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("failed to build zip header for %s: %w", src, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("failed to add %s: %w", name, err)
	}

	// #nosec G304 - src is a file inside the skill directory being archived
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// IsZip reports whether the file at p is a readable zip archive.
func IsZip(p string) bool {
	r, err := zip.OpenReader(p)
	if err != nil {
		return false
	}
	_ = r.Close()
	return true
}

// ExtractFile extracts the zip archive at src into dest.
func ExtractFile(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open zip %s: %w", src, err)
	}
	defer func() { _ = r.Close() }()

	return extract(&r.Reader, dest)
}

// Extract extracts a zip archive held in r into dest.
func Extract(r io.ReaderAt, size int64, dest string) error {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return fmt.Errorf("failed to read zip: %w", err)
	}
	return extract(zr, dest)
}

func extract(zr *zip.Reader, dest string) error {
	root, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dest, err)
	}

	for _, f := range zr.File {
		target, err := safeJoin(root, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open entry %s: %w", f.Name, err)
	}
	defer func() { _ = src.Close() }()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	// #nosec G304 - target is checked to stay inside the extraction root
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	// #nosec G110 - archives come from the user or a repository they chose
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return dst.Close()
}

// safeJoin joins an entry name onto root and rejects names that escape it.
func safeJoin(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", fmt.Errorf("illegal path in archive: %s", name)
	}
	return target, nil
}
