package board

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/notify"
	"github.com/pmckit/pmboard/internal/store"
)

// TaskPatch is a partial update to a task. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	Assignee    *string
	DueDate     *string
	Progress    *int
	Checklist   *[]domain.ChecklistItem
}

// UpdateTask applies a partial update to a task in one transaction:
// the patch is applied, one audit record is written per field whose value
// actually changed, and a status change runs the completion/reopen
// propagation against the parent sub-category and category.
//
// Up to two undo-capable notifications are published after the
// transaction commits; they are fire-and-forget.
func (s *Service) UpdateTask(id uint, patch TaskPatch) (*domain.Task, error) {
	var (
		updated *domain.Task
		pending []notify.Notification
	)

	err := s.store.Tx("update task", func(tx *gorm.DB) error {
		task, err := store.GetTask(tx, id)
		if err != nil {
			return err
		}

		old := *task
		applyPatch(task, patch)
		now := time.Now()
		task.UpdatedAt = now

		records := diffHistory(&old, task, patch, now)
		if err := store.SaveTask(tx, task); err != nil {
			return err
		}
		if err := store.AppendHistory(tx, records); err != nil {
			return err
		}

		// Propagation keys off an actual value change, not off the patch
		// merely mentioning the field.
		if !statusChanged(records) {
			updated = task
			return nil
		}

		if task.Status == domain.TaskDone {
			pending, err = s.autoComplete(tx, task, now)
		} else {
			err = s.autoReopen(tx, task, now)
		}
		if err != nil {
			return err
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, n := range pending {
		s.emit(n)
	}
	return updated, nil
}

func applyPatch(t *domain.Task, patch TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.DueDate != nil {
		t.DueDate = *patch.DueDate
	}
	if patch.Progress != nil {
		t.Progress = *patch.Progress
	}
	if patch.Checklist != nil {
		t.Checklist = *patch.Checklist
	}
}

func statusChanged(records []domain.TaskHistory) bool {
	for _, r := range records {
		if r.Field == "status" {
			return true
		}
	}
	return false
}

// autoComplete runs when a task transitions to DONE. When every active
// sibling under the same sub-category is DONE as well, the sub-category
// completes; and when that leaves every active sibling sub-category of the
// parent category COMPLETED, the category completes too. Each automatic
// completion yields an undoable notification.
func (s *Service) autoComplete(tx *gorm.DB, task *domain.Task, now time.Time) ([]notify.Notification, error) {
	sub, err := store.GetSubCategory(tx, task.SubCategoryID)
	if err != nil {
		return nil, err
	}

	siblings, err := store.TasksBySubCategory(tx, sub.ID, false)
	if err != nil {
		return nil, err
	}
	for _, sibling := range siblings {
		if sibling.ID == task.ID {
			continue
		}
		if sibling.Status != domain.TaskDone {
			return nil, nil
		}
	}

	if sub.Status.Completed() {
		return nil, nil
	}
	next, err := sub.Status.Complete()
	if err != nil {
		return nil, err
	}
	sub.Status = next
	sub.UpdatedAt = now
	if err := store.SaveSubCategory(tx, sub); err != nil {
		return nil, err
	}
	s.logger.Info("subcategory auto-completed", "id", sub.ID, "task", task.ID)

	categoryCompleted := false
	cat, err := store.GetCategory(tx, sub.CategoryID)
	if err != nil {
		return nil, err
	}
	done, err := s.completeCategoryIfDone(tx, cat, sub.ID, now)
	if err != nil {
		return nil, err
	}
	categoryCompleted = done

	subID, catID := sub.ID, cat.ID
	pending := []notify.Notification{{
		Level:   notify.LevelSuccess,
		Message: fmt.Sprintf("Sub-category %q completed automatically", sub.Name),
		Action: &notify.Action{
			Label: "Undo",
			Fn: func() error {
				return s.undoAutoComplete(subID, catID, categoryCompleted)
			},
		},
	}}
	if categoryCompleted {
		pending = append(pending, notify.Notification{
			Level:   notify.LevelSuccess,
			Message: fmt.Sprintf("Category %q completed automatically", cat.Name),
			Action: &notify.Action{
				Label: "Undo",
				Fn: func() error {
					return s.undoCategoryComplete(catID)
				},
			},
		})
	}
	return pending, nil
}

// completeCategoryIfDone completes cat when every active sibling of the
// just-completed sub-category is itself COMPLETED.
func (s *Service) completeCategoryIfDone(tx *gorm.DB, cat *domain.Category, completedSubID uint, now time.Time) (bool, error) {
	subs, err := store.SubCategoriesByCategory(tx, cat.ID, false)
	if err != nil {
		return false, err
	}
	for _, sibling := range subs {
		if sibling.ID == completedSubID {
			continue
		}
		if !sibling.Status.Completed() {
			return false, nil
		}
	}

	if cat.Status.Completed() {
		return false, nil
	}
	next, err := cat.Status.Complete()
	if err != nil {
		return false, err
	}
	cat.Status = next
	cat.UpdatedAt = now
	if err := store.SaveCategory(tx, cat); err != nil {
		return false, err
	}
	s.logger.Info("category auto-completed", "id", cat.ID)
	return true, nil
}

// autoReopen runs when a task leaves the DONE state. Reopening is
// unconditional: one undone child reopens a COMPLETED parent regardless of
// the other siblings. The asymmetry with completion is intentional.
func (s *Service) autoReopen(tx *gorm.DB, task *domain.Task, now time.Time) error {
	sub, err := store.GetSubCategory(tx, task.SubCategoryID)
	if err != nil {
		return err
	}
	if sub.Status.Completed() {
		sub.Status = domain.GroupActive
		sub.UpdatedAt = now
		if err := store.SaveSubCategory(tx, sub); err != nil {
			return err
		}
		s.logger.Info("subcategory auto-reopened", "id", sub.ID, "task", task.ID)
	}

	cat, err := store.GetCategory(tx, sub.CategoryID)
	if err != nil {
		return err
	}
	if cat.Status.Completed() {
		cat.Status = domain.GroupActive
		cat.UpdatedAt = now
		if err := store.SaveCategory(tx, cat); err != nil {
			return err
		}
		s.logger.Info("category auto-reopened", "id", cat.ID)
	}
	return nil
}

// undoAutoComplete reverses an automatic sub-category completion, and the
// category completion that happened with it. Groups the user has already
// reopened by hand are left alone.
func (s *Service) undoAutoComplete(subID, catID uint, alsoCategory bool) error {
	return s.store.Tx("undo auto-complete", func(tx *gorm.DB) error {
		sub, err := store.GetSubCategory(tx, subID)
		if err != nil {
			return err
		}
		now := time.Now()
		if sub.Status.Completed() {
			sub.Status = domain.GroupActive
			sub.UpdatedAt = now
			if err := store.SaveSubCategory(tx, sub); err != nil {
				return err
			}
		}
		if !alsoCategory {
			return nil
		}
		cat, err := store.GetCategory(tx, catID)
		if err != nil {
			return err
		}
		if cat.Status.Completed() {
			cat.Status = domain.GroupActive
			cat.UpdatedAt = now
			return store.SaveCategory(tx, cat)
		}
		return nil
	})
}

// undoCategoryComplete reverses an automatic category completion only.
func (s *Service) undoCategoryComplete(catID uint) error {
	return s.store.Tx("undo category complete", func(tx *gorm.DB) error {
		cat, err := store.GetCategory(tx, catID)
		if err != nil {
			return err
		}
		if !cat.Status.Completed() {
			return nil
		}
		cat.Status = domain.GroupActive
		cat.UpdatedAt = time.Now()
		return store.SaveCategory(tx, cat)
	})
}
