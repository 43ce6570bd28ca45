package filesystem

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"
)

// DefaultIgnoreDirs are common directories to skip during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	".idea", ".vscode", ".vs",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // File patterns to skip (e.g., "*.tmp")
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
}

// Walk traverses the tree rooted at root in fsys with configurable ignore
// patterns. The visitor is called for each file and directory with a
// slash-separated path. Return fs.SkipDir from visitor to skip a directory.
func Walk(fsys fs.FS, root string, opts WalkOptions, visitor func(p string, d fs.DirEntry) error) error {
	ignoreDirs := opts.IgnoreDirs
	if ignoreDirs == nil {
		ignoreDirs = DefaultIgnoreDirs
	}

	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden files/directories unless explicitly included
		if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") && p != root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() && p != root {
			for _, ignore := range ignoreDirs {
				if d.Name() == ignore {
					return fs.SkipDir
				}
			}
		}

		if !d.IsDir() {
			for _, pattern := range opts.IgnorePatterns {
				if matched, _ := path.Match(pattern, d.Name()); matched {
					return nil
				}
			}
		}

		return visitor(p, d)
	})
}

// WalkWithDefaults walks a directory tree with default ignore patterns.
func WalkWithDefaults(fsys fs.FS, root string, visitor func(p string, d fs.DirEntry) error) error {
	return Walk(fsys, root, WalkOptions{}, visitor)
}

// Files returns the slash-separated paths of the regular files under root,
// relative to root, in lexical order.
func Files(fsys fs.FS, root string, opts WalkOptions) ([]string, error) {
	var files []string
	err := Walk(fsys, root, opts, func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if root == "." {
			rel = p
		}
		files = append(files, rel)
		return nil
	})
	return files, err
}

// IsEmptyDir reports whether dir exists and has no entries. A missing
// directory counts as empty.
func IsEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}
