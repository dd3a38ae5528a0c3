// Package board implements the board lifecycle operations and the status
// propagation engine: task status changes cascade into automatic
// completion and reopening of the parent sub-category and category.
package board

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
	"github.com/pmckit/pmboard/internal/notify"
	"github.com/pmckit/pmboard/internal/store"
)

// Service provides entity lifecycle operations and task update propagation.
type Service struct {
	store    *store.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService creates a new board service.
func NewService(st *store.Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		notifier: notifier,
		logger:   logger,
	}
}

// ProjectDraft holds the caller-settable fields of a new project.
type ProjectDraft struct {
	Name        string
	Description string
	Status      domain.ProjectStatus
	Color       string
}

// CreateProject creates a new project.
func (s *Service) CreateProject(draft ProjectDraft) (*domain.Project, error) {
	now := time.Now()
	p := &domain.Project{
		Name:        draft.Name,
		Description: draft.Description,
		Status:      draft.Status,
		Color:       draft.Color,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	if err := store.CreateProject(s.store.DB(), p); err != nil {
		return nil, &domain.StoreError{Op: "create", Entity: "project", Err: err}
	}
	s.logger.Info("project created", "id", p.ID, "name", p.Name)
	return p, nil
}

// ProjectPatch is a partial update to a project.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	Color       *string
}

// UpdateProject applies a partial update and refreshes UpdatedAt.
func (s *Service) UpdateProject(id uint, patch ProjectPatch) (*domain.Project, error) {
	var updated *domain.Project
	err := s.store.Tx("update project", func(tx *gorm.DB) error {
		p, err := store.GetProject(tx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		if patch.Color != nil {
			p.Color = *patch.Color
		}
		p.UpdatedAt = time.Now()
		updated = p
		return store.SaveProject(tx, p)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateCategory creates a new category at the end of its project's
// sibling order.
func (s *Service) CreateCategory(projectID uint, name string) (*domain.Category, error) {
	var created *domain.Category
	err := s.store.Tx("create category", func(tx *gorm.DB) error {
		if _, err := store.GetProject(tx, projectID); err != nil {
			return err
		}
		order, err := store.NextCategoryOrder(tx, projectID)
		if err != nil {
			return err
		}
		now := time.Now()
		c := &domain.Category{
			ProjectID: projectID,
			Name:      name,
			Status:    domain.GroupActive,
			Order:     order,
			CreatedAt: now,
			UpdatedAt: now,
		}
		created = c
		return store.CreateCategory(tx, c)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("category created", "id", created.ID, "project", projectID)
	return created, nil
}

// CategoryPatch is a partial update to a category. Status is deliberately
// absent: it belongs to the propagation engine and the explicit reopen.
type CategoryPatch struct {
	Name  *string
	Order *int
}

// UpdateCategory applies a partial update and refreshes UpdatedAt.
func (s *Service) UpdateCategory(id uint, patch CategoryPatch) (*domain.Category, error) {
	var updated *domain.Category
	err := s.store.Tx("update category", func(tx *gorm.DB) error {
		c, err := store.GetCategory(tx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Order != nil {
			c.Order = *patch.Order
		}
		c.UpdatedAt = time.Now()
		updated = c
		return store.SaveCategory(tx, c)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateSubCategory creates a new sub-category at the end of its
// category's sibling order, denormalizing the project reference.
func (s *Service) CreateSubCategory(categoryID uint, name string) (*domain.SubCategory, error) {
	var created *domain.SubCategory
	err := s.store.Tx("create subcategory", func(tx *gorm.DB) error {
		parent, err := store.GetCategory(tx, categoryID)
		if err != nil {
			return err
		}
		order, err := store.NextSubCategoryOrder(tx, categoryID)
		if err != nil {
			return err
		}
		now := time.Now()
		sc := &domain.SubCategory{
			CategoryID: categoryID,
			ProjectID:  parent.ProjectID,
			Name:       name,
			Status:     domain.GroupActive,
			Order:      order,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		created = sc
		return store.CreateSubCategory(tx, sc)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("subcategory created", "id", created.ID, "category", categoryID)
	return created, nil
}

// SubCategoryPatch is a partial update to a sub-category.
type SubCategoryPatch struct {
	Name  *string
	Order *int
}

// UpdateSubCategory applies a partial update and refreshes UpdatedAt.
func (s *Service) UpdateSubCategory(id uint, patch SubCategoryPatch) (*domain.SubCategory, error) {
	var updated *domain.SubCategory
	err := s.store.Tx("update subcategory", func(tx *gorm.DB) error {
		sc, err := store.GetSubCategory(tx, id)
		if err != nil {
			return err
		}
		if patch.Name != nil {
			sc.Name = *patch.Name
		}
		if patch.Order != nil {
			sc.Order = *patch.Order
		}
		sc.UpdatedAt = time.Now()
		updated = sc
		return store.SaveSubCategory(tx, sc)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// TaskDraft holds the caller-settable fields of a new task. The category
// and project references are derived from the parent sub-category, never
// taken from the caller.
type TaskDraft struct {
	SubCategoryID uint
	Title         string
	Description   string
	Status        domain.TaskStatus
	Priority      domain.TaskPriority
	Assignee      string
	DueDate       string
	Progress      int
	Checklist     []domain.ChecklistItem
}

// CreateTask creates a new task under a sub-category. Creating a task
// never triggers auto-completion; only a status transition to DONE does.
func (s *Service) CreateTask(draft TaskDraft) (*domain.Task, error) {
	var created *domain.Task
	err := s.store.Tx("create task", func(tx *gorm.DB) error {
		parent, err := store.GetSubCategory(tx, draft.SubCategoryID)
		if err != nil {
			return err
		}
		now := time.Now()
		t := &domain.Task{
			SubCategoryID: parent.ID,
			CategoryID:    parent.CategoryID,
			ProjectID:     parent.ProjectID,
			Title:         draft.Title,
			Description:   draft.Description,
			Status:        draft.Status,
			Priority:      draft.Priority,
			Assignee:      draft.Assignee,
			DueDate:       draft.DueDate,
			Progress:      draft.Progress,
			Checklist:     draft.Checklist,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if t.Status == "" {
			t.Status = domain.TaskTodo
		}
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		created = t
		return store.CreateTask(tx, t)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task created", "id", created.ID, "subcategory", created.SubCategoryID)
	return created, nil
}

// TaskHistory returns a task's audit records, newest first.
func (s *Service) TaskHistory(taskID uint) ([]domain.TaskHistory, error) {
	return store.HistoryByTask(s.store.DB(), taskID)
}

// ReopenSubCategory is the explicit user-facing reopen of a completed
// sub-category.
func (s *Service) ReopenSubCategory(id uint) error {
	return s.store.Tx("reopen subcategory", func(tx *gorm.DB) error {
		sc, err := store.GetSubCategory(tx, id)
		if err != nil {
			return err
		}
		next, err := sc.Status.Reopen()
		if err != nil {
			return fmt.Errorf("subcategory %d: %w", id, err)
		}
		sc.Status = next
		sc.UpdatedAt = time.Now()
		return store.SaveSubCategory(tx, sc)
	})
}

// ReopenCategory is the explicit user-facing reopen of a completed
// category.
func (s *Service) ReopenCategory(id uint) error {
	return s.store.Tx("reopen category", func(tx *gorm.DB) error {
		c, err := store.GetCategory(tx, id)
		if err != nil {
			return err
		}
		next, err := c.Status.Reopen()
		if err != nil {
			return fmt.Errorf("category %d: %w", id, err)
		}
		c.Status = next
		c.UpdatedAt = time.Now()
		return store.SaveCategory(tx, c)
	})
}

// emit publishes a notification if a notifier is wired. Failures to
// display never roll anything back.
func (s *Service) emit(n notify.Notification) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(n)
}
