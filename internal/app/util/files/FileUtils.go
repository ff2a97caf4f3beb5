package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Workspace is a filesystem scope exclusively owned by one job. It is created
// at job start and must be released on every exit path before the job's
// handler returns.
type Workspace struct {
	dir string
}

// AcquireWorkspace creates a fresh directory under root (os.TempDir when
// empty). Each job gets a disjoint scope, so no locking is needed.
func AcquireWorkspace(root string) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "ytdl-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

func (w *Workspace) Dir() string {
	return w.dir
}

// Release removes the workspace and everything in it. Safe to call more than
// once.
func (w *Workspace) Release() {
	if w == nil || w.dir == "" {
		return
	}
	os.RemoveAll(w.dir)
	w.dir = ""
}

// ListFiles returns the plain files directly under dir, ordered by name so
// multi-part downloads are delivered in sequence.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func CheckAndCreateDirectory(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReplaceExt swaps the extension of name, keeping the base untouched.
func ReplaceExt(name, newExt string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + newExt
}
