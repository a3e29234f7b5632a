package install

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauern/skills-cli/internal/logging"
)

// CopyTree copies the directory src to dst, replacing anything already at dst.
// The copy is staged next to dst and renamed into place, so a failed copy
// leaves the previous dst untouched.
func CopyTree(src, dst string) error {
	parent := filepath.Dir(dst)
	if err := os.MkdirAll(parent, 0o750); err != nil {
		return fmt.Errorf("failed to create directory %q: %w", parent, err)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(dst)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	staged := filepath.Join(staging, filepath.Base(dst))
	if err := copyDir(src, staged); err != nil {
		return err
	}

	if err := removeExisting(dst); err != nil {
		return err
	}
	if err := os.Rename(staged, dst); err != nil {
		return fmt.Errorf("failed to move %q into place: %w", dst, err)
	}
	return nil
}

// removeExisting removes a file, symlink, or directory at the given path.
// Uses os.Lstat to not follow symlinks, ensuring symlinks are removed as entries.
// Returns nil if the path doesn't exist.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory %q: %w", path, err)
		}
		logging.Debug("removed existing skill", logging.Path(path))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	return nil
}

// copyFile copies a single file from src to dst, preserving permissions.
func copyFile(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}

	// #nosec G304 - src is inside the skill being installed
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G302 G304 - preserving source permissions, dst is inside the install target
	dstFile, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	return dstFile.Close()
}

// copyDir recursively copies a directory from src to dst.
// Symlinks are recreated rather than followed.
func copyDir(src, dst string) error {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("failed to create destination directory %q: %w", dst, err)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("failed to read source directory %q: %w", src, err)
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		switch {
		case entry.IsDir():
			if err := copyDir(srcPath, dstPath); err != nil {
				return err
			}
		case entry.Type()&os.ModeSymlink != 0:
			linkTarget, err := os.Readlink(srcPath)
			if err != nil {
				return fmt.Errorf("failed to read symlink %q: %w", srcPath, err)
			}
			if err := os.Symlink(linkTarget, dstPath); err != nil {
				return fmt.Errorf("failed to create symlink %q: %w", dstPath, err)
			}
		default:
			if err := copyFile(srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	logging.Debug("copied directory", logging.Path(src))
	return nil
}
