package store

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// CreateCategory inserts a new category.
func CreateCategory(db *gorm.DB, c *domain.Category) error {
	return db.Create(c).Error
}

// GetCategory retrieves a category by ID.
func GetCategory(db *gorm.DB, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := db.First(&c, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	return &c, nil
}

// CategoriesByProject returns a project's categories in sibling order.
// Archived categories are excluded unless includeArchived is set.
func CategoriesByProject(db *gorm.DB, projectID uint, includeArchived bool) ([]domain.Category, error) {
	q := db.Where("project_id = ?", projectID).Order("sort_order")
	if !includeArchived {
		q = q.Where("archived_at IS NULL")
	}
	var categories []domain.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// NextCategoryOrder returns the next sibling sort key under a project.
func NextCategoryOrder(db *gorm.DB, projectID uint) (int, error) {
	var max *int
	err := db.Model(&domain.Category{}).
		Where("project_id = ?", projectID).
		Select("MAX(sort_order)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// SaveCategory persists all fields of an existing category.
func SaveCategory(db *gorm.DB, c *domain.Category) error {
	return db.Save(c).Error
}
