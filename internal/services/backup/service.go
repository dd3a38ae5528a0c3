// Package backup serializes the whole entity store into a versioned JSON
// snapshot and restores snapshots in overwrite or merge mode. Snapshots
// are disaster-recovery-grade full dumps: archived rows and audit history
// included, nothing filtered.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

// SnapshotVersion is the format written by Export. Version "1.0" predates
// archivedAt on all entities and status on Category/SubCategory; Import
// upgrades those on read.
const SnapshotVersion = "2.0"

// Snapshot is the on-disk backup format.
type Snapshot struct {
	Version       string               `json:"version"`
	ExportedAt    time.Time            `json:"exportedAt"`
	Projects      []domain.Project     `json:"projects"`
	Categories    []domain.Category    `json:"categories"`
	SubCategories []domain.SubCategory `json:"subCategories"`
	Tasks         []domain.Task        `json:"tasks"`
	TaskHistory   []domain.TaskHistory `json:"taskHistory"`
}

// Mode selects how Import treats existing data.
type Mode string

const (
	// ModeOverwrite clears all five tables and inserts the snapshot
	// verbatim, original ids preserved.
	ModeOverwrite Mode = "overwrite"
	// ModeMerge keeps existing data and inserts every snapshot record
	// under a freshly assigned id, rewriting foreign keys to match.
	ModeMerge Mode = "merge"
)

// Service provides snapshot export and import.
type Service struct {
	store  *store.Store
	logger *slog.Logger
}

// NewService creates a new backup service.
func NewService(st *store.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger}
}

// Export reads all five tables in full and produces a snapshot.
func (s *Service) Export() (*Snapshot, error) {
	db := s.store.DB()
	snap := &Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: time.Now(),
	}

	if err := db.Order("id").Find(&snap.Projects).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snap.Categories).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snap.SubCategories).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snap.Tasks).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&snap.TaskHistory).Error; err != nil {
		return nil, err
	}

	s.logger.Info("snapshot exported",
		"projects", len(snap.Projects), "tasks", len(snap.Tasks))
	return snap, nil
}

// ExportJSON writes the snapshot to w as indented JSON.
func (s *Service) ExportJSON(w io.Writer) error {
	snap, err := s.Export()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteFile exports a snapshot into dir under a dated file name and
// returns the path.
func (s *Service) WriteFile(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("pmboard-backup-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := s.ExportJSON(f); err != nil {
		return "", err
	}
	return path, nil
}

// ImportJSON decodes a snapshot from r and imports it.
func (s *Service) ImportJSON(r io.Reader, mode Mode) error {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	return s.Import(&snap, mode)
}

// Import validates, normalizes, and loads a snapshot in one atomic
// transaction: either the whole snapshot lands or the store is untouched.
func (s *Service) Import(snap *Snapshot, mode Mode) error {
	if snap.Version == "" || snap.Projects == nil {
		return domain.ErrInvalidFormat
	}
	normalize(snap)

	err := s.store.Tx("import snapshot", func(tx *gorm.DB) error {
		switch mode {
		case ModeOverwrite:
			return importOverwrite(tx, snap)
		case ModeMerge:
			return importMerge(tx, snap)
		default:
			return fmt.Errorf("%w: unknown import mode %q", domain.ErrInvalidFormat, mode)
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("snapshot imported", "mode", mode, "version", snap.Version,
		"projects", len(snap.Projects), "tasks", len(snap.Tasks))
	return nil
}

// normalize upgrades older snapshot versions in place so both import
// modes see the current shape: missing archivedAt stays null (the zero
// value) and a missing group status becomes ACTIVE.
func normalize(snap *Snapshot) {
	for i := range snap.Categories {
		if snap.Categories[i].Status == "" {
			snap.Categories[i].Status = domain.GroupActive
		}
	}
	for i := range snap.SubCategories {
		if snap.SubCategories[i].Status == "" {
			snap.SubCategories[i].Status = domain.GroupActive
		}
	}
	for i := range snap.Projects {
		if snap.Projects[i].Status == "" {
			snap.Projects[i].Status = domain.ProjectActive
		}
	}
}

// importOverwrite clears every table and inserts the snapshot with its
// original ids, children first on delete, parents first on insert.
func importOverwrite(tx *gorm.DB, snap *Snapshot) error {
	for _, model := range []any{
		&domain.TaskHistory{},
		&domain.Task{},
		&domain.SubCategory{},
		&domain.Category{},
		&domain.Project{},
	} {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}

	if len(snap.Projects) > 0 {
		if err := tx.Create(&snap.Projects).Error; err != nil {
			return err
		}
	}
	if len(snap.Categories) > 0 {
		if err := tx.Create(&snap.Categories).Error; err != nil {
			return err
		}
	}
	if len(snap.SubCategories) > 0 {
		if err := tx.Create(&snap.SubCategories).Error; err != nil {
			return err
		}
	}
	if len(snap.Tasks) > 0 {
		if err := tx.Create(&snap.Tasks).Error; err != nil {
			return err
		}
	}
	if len(snap.TaskHistory) > 0 {
		if err := tx.Create(&snap.TaskHistory).Error; err != nil {
			return err
		}
	}
	return nil
}

// importMerge inserts every record under a fresh id, keeping an
// old-id→new-id map per entity type and rewriting the denormalized
// foreign keys before insert. Insertion order (project, category,
// sub-category, task, history) guarantees each map is complete before the
// next level needs it. Unmappable references keep their original value;
// that only happens for malformed backups.
func importMerge(tx *gorm.DB, snap *Snapshot) error {
	projectIDs := make(map[uint]uint, len(snap.Projects))
	for _, p := range snap.Projects {
		oldID := p.ID
		p.ID = 0
		if err := tx.Create(&p).Error; err != nil {
			return err
		}
		projectIDs[oldID] = p.ID
	}

	categoryIDs := make(map[uint]uint, len(snap.Categories))
	for _, c := range snap.Categories {
		oldID := c.ID
		c.ID = 0
		c.ProjectID = remap(projectIDs, c.ProjectID)
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		categoryIDs[oldID] = c.ID
	}

	subCategoryIDs := make(map[uint]uint, len(snap.SubCategories))
	for _, sc := range snap.SubCategories {
		oldID := sc.ID
		sc.ID = 0
		sc.ProjectID = remap(projectIDs, sc.ProjectID)
		sc.CategoryID = remap(categoryIDs, sc.CategoryID)
		if err := tx.Create(&sc).Error; err != nil {
			return err
		}
		subCategoryIDs[oldID] = sc.ID
	}

	taskIDs := make(map[uint]uint, len(snap.Tasks))
	for _, t := range snap.Tasks {
		oldID := t.ID
		t.ID = 0
		t.ProjectID = remap(projectIDs, t.ProjectID)
		t.CategoryID = remap(categoryIDs, t.CategoryID)
		t.SubCategoryID = remap(subCategoryIDs, t.SubCategoryID)
		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		taskIDs[oldID] = t.ID
	}

	for _, h := range snap.TaskHistory {
		h.ID = 0
		h.TaskID = remap(taskIDs, h.TaskID)
		if err := tx.Create(&h).Error; err != nil {
			return err
		}
	}
	return nil
}

func remap(ids map[uint]uint, old uint) uint {
	if fresh, ok := ids[old]; ok {
		return fresh
	}
	return old
}
