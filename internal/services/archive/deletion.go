package archive

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/store"
)

// DeleteProject permanently removes a project and every descendant plus
// their history, bottom-up: history, tasks, sub-categories, categories,
// then the project itself. Irreversible.
func (s *Service) DeleteProject(id uint) error {
	err := s.store.Tx("delete project", func(tx *gorm.DB) error {
		if _, err := store.GetProject(tx, id); err != nil {
			return err
		}
		tasks, err := store.TasksByProject(tx, id)
		if err != nil {
			return err
		}
		if err := deleteTaskRows(tx, tasks); err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.SubCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&domain.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Project{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

// DeleteCategory permanently removes a category, its sub-categories and
// tasks, and their history.
func (s *Service) DeleteCategory(id uint) error {
	err := s.store.Tx("delete category", func(tx *gorm.DB) error {
		if _, err := store.GetCategory(tx, id); err != nil {
			return err
		}
		tasks, err := store.TasksByCategory(tx, id)
		if err != nil {
			return err
		}
		if err := deleteTaskRows(tx, tasks); err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&domain.SubCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Category{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("category deleted", "id", id)
	return nil
}

// DeleteSubCategory permanently removes a sub-category, its tasks, and
// their history.
func (s *Service) DeleteSubCategory(id uint) error {
	err := s.store.Tx("delete subcategory", func(tx *gorm.DB) error {
		if _, err := store.GetSubCategory(tx, id); err != nil {
			return err
		}
		tasks, err := store.TasksBySubCategory(tx, id, true)
		if err != nil {
			return err
		}
		if err := deleteTaskRows(tx, tasks); err != nil {
			return err
		}
		return tx.Delete(&domain.SubCategory{}, id).Error
	})
	if err != nil {
		return err
	}
	s.logger.Info("subcategory deleted", "id", id)
	return nil
}

// DeleteTask permanently removes a task and its history.
func (s *Service) DeleteTask(id uint) error {
	return s.store.Tx("delete task", func(tx *gorm.DB) error {
		t, err := store.GetTask(tx, id)
		if err != nil {
			return err
		}
		return deleteTaskRows(tx, []domain.Task{*t})
	})
}

// deleteTaskRows removes tasks and their history, history first so no
// dangling audit row is visible inside the transaction.
func deleteTaskRows(tx *gorm.DB, tasks []domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	if err := store.DeleteHistoryByTaskIDs(tx, ids); err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&domain.Task{}).Error
}

// BulkDeleteError records one failed item of a bulk deletion.
type BulkDeleteError struct {
	Item domain.ArchiveItem
	Err  error
}

// BulkPermanentlyDelete deletes a heterogeneous list of archived items
// one by one. A failing item does not stop the rest; the failures are
// returned so the caller can report them.
func (s *Service) BulkPermanentlyDelete(items []domain.ArchiveItem) []BulkDeleteError {
	var failed []BulkDeleteError
	for _, item := range items {
		var err error
		switch item.Kind {
		case domain.KindProject:
			err = s.DeleteProject(item.ID)
		case domain.KindCategory:
			err = s.DeleteCategory(item.ID)
		case domain.KindSubCategory:
			err = s.DeleteSubCategory(item.ID)
		case domain.KindTask:
			err = s.DeleteTask(item.ID)
		default:
			err = domain.ErrNotFound
		}
		if err != nil {
			s.logger.Warn("bulk delete item failed", "kind", item.Kind, "id", item.ID, "error", err)
			failed = append(failed, BulkDeleteError{Item: item, Err: err})
		}
	}
	return failed
}
