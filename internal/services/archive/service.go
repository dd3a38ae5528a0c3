// Package archive implements soft-archival of board subtrees and their
// restoration. A cascade archive stamps every row it touches with one
// shared timestamp and one batch token; restore uses the token to tell
// "archived together with the parent" apart from "archived independently
// beforehand", falling back to timestamp proximity for rows that predate
// batch tokens (v1 backup imports).
package archive

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

// DefaultRestoreTolerance is the timestamp window used to match
// descendants archived in the same cascade when no batch token is present.
const DefaultRestoreTolerance = 2 * time.Second

// Service provides cascade archival, restoration, and permanent deletion.
type Service struct {
	store     *store.Store
	logger    *slog.Logger
	tolerance time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithRestoreTolerance overrides the fallback timestamp-matching window.
func WithRestoreTolerance(d time.Duration) Option {
	return func(s *Service) {
		s.tolerance = d
	}
}

// NewService creates a new archival service.
func NewService(st *store.Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:     st,
		logger:    logger,
		tolerance: DefaultRestoreTolerance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ArchiveProject archives the project row only. Children stay untouched;
// active views exclude them transitively through the project filter.
func (s *Service) ArchiveProject(id uint) error {
	return s.store.Tx("archive project", func(tx *gorm.DB) error {
		p, err := store.GetProject(tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		p.ArchivedAt = &now
		p.ArchiveBatch = uuid.NewString()
		p.UpdatedAt = now
		return store.SaveProject(tx, p)
	})
}

// ArchiveCategory archives a category together with all of its
// sub-categories and tasks, stamping the whole subtree with one shared
// timestamp and batch token.
func (s *Service) ArchiveCategory(id uint) error {
	err := s.store.Tx("archive category", func(tx *gorm.DB) error {
		c, err := store.GetCategory(tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		batch := uuid.NewString()

		c.ArchivedAt = &now
		c.ArchiveBatch = batch
		c.UpdatedAt = now
		if err := store.SaveCategory(tx, c); err != nil {
			return err
		}

		stamp := map[string]any{
			"archived_at":   now,
			"archive_batch": batch,
			"updated_at":    now,
		}
		if err := tx.Model(&domain.SubCategory{}).
			Where("category_id = ? AND archived_at IS NULL", id).
			Updates(stamp).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Task{}).
			Where("category_id = ? AND archived_at IS NULL", id).
			Updates(stamp).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("category archived", "id", id)
	return nil
}

// ArchiveSubCategory archives a sub-category together with its tasks,
// one level down from ArchiveCategory.
func (s *Service) ArchiveSubCategory(id uint) error {
	err := s.store.Tx("archive subcategory", func(tx *gorm.DB) error {
		sc, err := store.GetSubCategory(tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		batch := uuid.NewString()

		sc.ArchivedAt = &now
		sc.ArchiveBatch = batch
		sc.UpdatedAt = now
		if err := store.SaveSubCategory(tx, sc); err != nil {
			return err
		}

		return tx.Model(&domain.Task{}).
			Where("sub_category_id = ? AND archived_at IS NULL", id).
			Updates(map[string]any{
				"archived_at":   now,
				"archive_batch": batch,
				"updated_at":    now,
			}).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("subcategory archived", "id", id)
	return nil
}

// ArchiveTask archives a single task.
func (s *Service) ArchiveTask(id uint) error {
	return s.store.Tx("archive task", func(tx *gorm.DB) error {
		t, err := store.GetTask(tx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		t.ArchivedAt = &now
		t.ArchiveBatch = uuid.NewString()
		t.UpdatedAt = now
		return store.SaveTask(tx, t)
	})
}

// RestoreProject restores the project row only.
func (s *Service) RestoreProject(id uint) error {
	return s.store.Tx("restore project", func(tx *gorm.DB) error {
		p, err := store.GetProject(tx, id)
		if err != nil {
			return err
		}
		p.ArchivedAt = nil
		p.ArchiveBatch = ""
		p.UpdatedAt = time.Now()
		return store.SaveProject(tx, p)
	})
}

// RestoreCategory restores a category and the descendants that were
// archived as part of the same cascade. Descendants archived
// independently beforehand stay archived. The category's parent project
// may itself still be archived; whether to restore the chain is the
// caller's decision, surfaced through ParentArchivedAt on the listing.
func (s *Service) RestoreCategory(id uint) error {
	err := s.store.Tx("restore category", func(tx *gorm.DB) error {
		c, err := store.GetCategory(tx, id)
		if err != nil {
			return err
		}
		archivedAt, batch := c.ArchivedAt, c.ArchiveBatch
		now := time.Now()

		c.ArchivedAt = nil
		c.ArchiveBatch = ""
		c.Status = domain.GroupActive
		c.UpdatedAt = now
		if err := store.SaveCategory(tx, c); err != nil {
			return err
		}
		if archivedAt == nil {
			return nil
		}

		subs, err := store.SubCategoriesByCategory(tx, id, true)
		if err != nil {
			return err
		}
		for _, sub := range subs {
			if !s.sameBatch(batch, *archivedAt, sub.ArchiveBatch, sub.ArchivedAt) {
				continue
			}
			sub.ArchivedAt = nil
			sub.ArchiveBatch = ""
			sub.Status = domain.GroupActive
			sub.UpdatedAt = now
			if err := store.SaveSubCategory(tx, &sub); err != nil {
				return err
			}
			if err := s.restoreMatchingTasks(tx, sub.ID, batch, *archivedAt, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("category restored", "id", id)
	return nil
}

// RestoreSubCategory restores a sub-category and its same-cascade tasks.
func (s *Service) RestoreSubCategory(id uint) error {
	err := s.store.Tx("restore subcategory", func(tx *gorm.DB) error {
		sc, err := store.GetSubCategory(tx, id)
		if err != nil {
			return err
		}
		archivedAt, batch := sc.ArchivedAt, sc.ArchiveBatch
		now := time.Now()

		sc.ArchivedAt = nil
		sc.ArchiveBatch = ""
		sc.Status = domain.GroupActive
		sc.UpdatedAt = now
		if err := store.SaveSubCategory(tx, sc); err != nil {
			return err
		}
		if archivedAt == nil {
			return nil
		}
		return s.restoreMatchingTasks(tx, id, batch, *archivedAt, now)
	})
	if err != nil {
		return err
	}
	s.logger.Info("subcategory restored", "id", id)
	return nil
}

// RestoreTask restores a single task.
func (s *Service) RestoreTask(id uint) error {
	return s.store.Tx("restore task", func(tx *gorm.DB) error {
		t, err := store.GetTask(tx, id)
		if err != nil {
			return err
		}
		t.ArchivedAt = nil
		t.ArchiveBatch = ""
		t.UpdatedAt = time.Now()
		return store.SaveTask(tx, t)
	})
}

func (s *Service) restoreMatchingTasks(tx *gorm.DB, subCategoryID uint, batch string, archivedAt, now time.Time) error {
	tasks, err := store.TasksBySubCategory(tx, subCategoryID, true)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if !s.sameBatch(batch, archivedAt, t.ArchiveBatch, t.ArchivedAt) {
			continue
		}
		t.ArchivedAt = nil
		t.ArchiveBatch = ""
		t.UpdatedAt = now
		if err := store.SaveTask(tx, &t); err != nil {
			return err
		}
	}
	return nil
}

// sameBatch decides whether a descendant was archived in the same cascade
// as its parent. Batch tokens are authoritative when both sides carry one;
// otherwise the timestamps must fall within the tolerance window.
func (s *Service) sameBatch(parentBatch string, parentAt time.Time, childBatch string, childAt *time.Time) bool {
	if childAt == nil {
		return false
	}
	if parentBatch != "" && childBatch != "" {
		return parentBatch == childBatch
	}
	diff := childAt.Sub(parentAt)
	if diff < 0 {
		diff = -diff
	}
	return diff < s.tolerance
}
