// Package pathutil guards the file paths synthsim writes to and keeps full
// paths out of user-facing error messages.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/.synthsim/config.yaml" becomes ".../.synthsim/config.yaml".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	base := filepath.Base(cleaned)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// ValidateWithin checks that path lies inside one of the given directories.
// Symlinks are resolved on both sides, so a link inside an allowed tree that
// points elsewhere does not open an escape. The file itself need not exist.
func ValidateWithin(path string, dirs ...string) error {
	if path == "" {
		return fmt.Errorf("path validation failed: path is empty")
	}
	if len(dirs) == 0 {
		return fmt.Errorf("path validation failed: no allowed directories configured")
	}
	if strings.ContainsRune(path, '\x00') {
		return fmt.Errorf("path validation failed: path contains null byte")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("path validation failed: cannot resolve absolute path: %w", err)
	}
	resolved, err := resolvePath(abs)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}

	for _, dir := range dirs {
		dirAbs, err := filepath.Abs(filepath.Clean(dir))
		if err != nil {
			continue
		}
		dirResolved, err := resolvePath(dirAbs)
		if err != nil {
			continue
		}
		if resolved == dirResolved ||
			strings.HasPrefix(resolved, dirResolved+string(os.PathSeparator)) {
			return nil
		}
	}

	return fmt.Errorf("path validation failed: %q is outside allowed directories", RedactPath(abs))
}

// resolvePath resolves symlinks on the deepest existing ancestor of path and
// re-appends the tail that does not exist yet.
func resolvePath(path string) (string, error) {
	var tail []string
	dir := path
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("cannot resolve path: %s", RedactPath(path))
		}
		tail = append(tail, filepath.Base(dir))
		dir = parent
	}
}

// ArchiveDirs returns the directories where archive files may be written:
// ~/.synthsim/archives/ and <projectRoot>/.synthsim/archives/.
func ArchiveDirs(projectRoot string) ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return []string{
		filepath.Join(homeDir, ".synthsim", "archives"),
		filepath.Join(projectRoot, ".synthsim", "archives"),
	}, nil
}
