package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/magic-gear/calcifer/filesystem"
)

// TemplateSuffix marks template files that are rendered before writing.
const TemplateSuffix = ".tmpl"

// Plan returns one WriteFileOp per entry of files, rooted at baseDir, in
// sorted path order.
func Plan(baseDir string, files map[string][]byte) []Operation {
	ops := make([]Operation, 0, len(files))
	for _, rel := range sortedPaths(files) {
		ops = append(ops, &WriteFileOp{
			Path:    filepath.Join(baseDir, filepath.FromSlash(rel)),
			Content: files[rel],
			Mode:    0644,
		})
	}
	return ops
}

// WriteTree writes files under baseDir in one transaction. Paths are
// slash-separated and relative to baseDir.
func WriteTree(baseDir string, files map[string][]byte) error {
	tx := NewTransaction()
	for _, rel := range sortedPaths(files) {
		if err := checkRelative(rel); err != nil {
			return err
		}
		tx.AddFile(filepath.Join(baseDir, filepath.FromSlash(rel)), files[rel], 0644)
	}
	return tx.Commit()
}

// RenderTree reads every file under root in src and returns them keyed by
// their path relative to root. Files ending in TemplateSuffix are rendered
// with data and lose the suffix. A leading underscore in a file name becomes
// a dot, so "_gitignore" is written as ".gitignore".
func RenderTree(src fs.FS, root string, data any) (map[string][]byte, error) {
	r := NewRenderer()
	files := make(map[string][]byte)

	err := filesystem.Walk(src, root, filesystem.WalkOptions{IncludeHidden: true}, func(p string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if root == "." {
			rel = p
		}

		var content []byte
		var err error
		if strings.HasSuffix(rel, TemplateSuffix) {
			content, err = r.RenderFS(src, p, data)
			rel = strings.TrimSuffix(rel, TemplateSuffix)
		} else {
			content, err = fs.ReadFile(src, p)
		}
		if err != nil {
			return err
		}

		files[outputName(rel)] = content
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to copy templates from %s: %w", root, err)
	}
	return files, nil
}

// CopyTree renders the template tree under root and writes it to dest.
func CopyTree(src fs.FS, root, dest string, data any) error {
	files, err := RenderTree(src, root, data)
	if err != nil {
		return err
	}
	return WriteTree(dest, files)
}

// PathExists reports whether anything exists at p.
func PathExists(p string) (bool, error) {
	_, err := os.Lstat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// RemoveTree deletes p and everything under it. Removing a missing path is
// not an error.
func RemoveTree(p string) error {
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to remove %s: %w", p, err)
	}
	return nil
}

func outputName(rel string) string {
	dir, name := path.Split(rel)
	if strings.HasPrefix(name, "_") {
		name = "." + name[1:]
	}
	return dir + name
}

func checkRelative(rel string) error {
	if !fs.ValidPath(rel) || rel == "." {
		return fmt.Errorf("invalid output path %q", rel)
	}
	return nil
}

func sortedPaths(files map[string][]byte) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
