package screenshots

import (
	"errors"
	"fmt"
	"path/filepath"

	"snapsolve/internal/models"
	"snapsolve/internal/utils"
)

// Manager holds the primary and auxiliary (debug) queues.
type Manager struct {
	Primary   *Queue
	Auxiliary *Queue
}

// NewManager creates both queues with their capture directories under baseDir.
func NewManager(baseDir string, capacity int) (*Manager, error) {
	primaryDir := filepath.Join(baseDir, "screenshots")
	auxDir := filepath.Join(baseDir, "extra_screenshots")
	for _, dir := range []string{primaryDir, auxDir} {
		if err := utils.EnsureDir(dir); err != nil {
			return nil, fmt.Errorf("create screenshot dir: %w", err)
		}
	}
	return &Manager{
		Primary:   NewQueue(models.QueuePrimary, primaryDir, capacity),
		Auxiliary: NewQueue(models.QueueAuxiliary, auxDir, capacity),
	}, nil
}

func (m *Manager) Queue(kind models.QueueKind) (*Queue, error) {
	switch kind {
	case models.QueuePrimary:
		return m.Primary, nil
	case models.QueueAuxiliary:
		return m.Auxiliary, nil
	}
	return nil, fmt.Errorf("unknown screenshot queue: %q", kind)
}

func (m *Manager) SetCapacity(capacity int) error {
	_, errPrimary := m.Primary.SetCapacity(capacity)
	_, errAux := m.Auxiliary.SetCapacity(capacity)
	return errors.Join(errPrimary, errAux)
}

func (m *Manager) ClearAll() error {
	return errors.Join(m.Primary.Clear(), m.Auxiliary.Clear())
}
