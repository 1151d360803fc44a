// Package storage provides run-scoped scratch space and crash-safe file copies on the
// local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is a temporary directory owned by a single run.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh directory under the system temp dir, tagged with the run id.
func NewWorkspace(runID uuid.UUID) (*Workspace, error) {
	dir, err := os.MkdirTemp("", fmt.Sprintf("contract-run-%s-", runID.String()[:8]))
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns name resolved inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, filepath.Base(name))
}

// Close deletes the workspace and everything in it. Safe to call more than once.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("failed to remove workspace: %w", err)
	}
	w.dir = ""
	return nil
}
