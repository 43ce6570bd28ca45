package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Transaction represents a set of file operations that can be committed or rolled back
type Transaction struct {
	operations []fileOperation
	written    []snapshot
	committed  bool
}

// fileOperation represents a single file write operation
type fileOperation struct {
	path    string
	content []byte
	mode    os.FileMode
}

// snapshot records what a path held before the transaction wrote it.
type snapshot struct {
	path    string
	existed bool
	content []byte
	mode    os.FileMode
}

// NewTransaction creates a new file operation transaction
func NewTransaction() *Transaction {
	return &Transaction{
		operations: make([]fileOperation, 0),
	}
}

// AddFile stages a file write operation (doesn't write yet)
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.operations = append(t.operations, fileOperation{
		path:    path,
		content: content,
		mode:    mode,
	})
}

// Len returns the number of staged files.
func (t *Transaction) Len() int {
	return len(t.operations)
}

// Commit writes all staged files to disk.
// If any write fails, files created by the transaction are deleted and
// files it overwrote get their previous content back.
func (t *Transaction) Commit() error {
	if t.committed {
		return fmt.Errorf("transaction already committed")
	}

	t.written = make([]snapshot, 0, len(t.operations))

	for _, op := range t.operations {
		snap, err := take(op.path)
		if err != nil {
			t.rollback()
			return err
		}

		dir := filepath.Dir(op.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.rollback()
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}

		if err := os.WriteFile(op.path, op.content, op.mode); err != nil {
			t.rollback()
			return fmt.Errorf("failed to write file %s: %w", op.path, err)
		}

		t.written = append(t.written, snap)
	}

	t.committed = true
	return nil
}

func take(path string) (snapshot, error) {
	snap := snapshot{path: path}
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return snap, fmt.Errorf("cannot write file %s: is a directory", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return snap, fmt.Errorf("failed to read %s: %w", path, err)
	}
	snap.existed = true
	snap.content = content
	snap.mode = info.Mode().Perm()
	return snap, nil
}

// rollback undoes the writes made so far, newest first. Best effort.
func (t *Transaction) rollback() {
	for i := len(t.written) - 1; i >= 0; i-- {
		snap := t.written[i]
		if snap.existed {
			os.WriteFile(snap.path, snap.content, snap.mode)
			continue
		}
		os.Remove(snap.path)
	}
	t.written = nil
}

// Rollback manually triggers a rollback (for use in defer). It does nothing
// once the transaction has committed.
func (t *Transaction) Rollback() {
	if !t.committed {
		t.rollback()
	}
}
