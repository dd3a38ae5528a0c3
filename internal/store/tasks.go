package store

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// CreateTask inserts a new task.
func CreateTask(db *gorm.DB, t *domain.Task) error {
	return db.Create(t).Error
}

// GetTask retrieves a task by ID.
func GetTask(db *gorm.DB, id uint) (*domain.Task, error) {
	var t domain.Task
	if err := db.First(&t, id).Error; err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// TasksBySubCategory returns a sub-category's tasks ordered by creation
// time. Archived tasks are excluded unless includeArchived is set.
func TasksBySubCategory(db *gorm.DB, subCategoryID uint, includeArchived bool) ([]domain.Task, error) {
	q := db.Where("sub_category_id = ?", subCategoryID).Order("created_at")
	if !includeArchived {
		q = q.Where("archived_at IS NULL")
	}
	var tasks []domain.Task
	if err := q.Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// TasksByCategory returns every task under a category, including archived
// ones. The denormalized category_id makes this a single indexed lookup.
func TasksByCategory(db *gorm.DB, categoryID uint) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := db.Where("category_id = ?", categoryID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// TasksByProject returns every task under a project, including archived ones.
func TasksByProject(db *gorm.DB, projectID uint) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := db.Where("project_id = ?", projectID).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// SaveTask persists all fields of an existing task.
func SaveTask(db *gorm.DB, t *domain.Task) error {
	return db.Save(t).Error
}
