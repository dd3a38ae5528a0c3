package store

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// CreateSubCategory inserts a new sub-category.
func CreateSubCategory(db *gorm.DB, sc *domain.SubCategory) error {
	return db.Create(sc).Error
}

// GetSubCategory retrieves a sub-category by ID.
func GetSubCategory(db *gorm.DB, id uint) (*domain.SubCategory, error) {
	var sc domain.SubCategory
	if err := db.First(&sc, id).Error; err != nil {
		return nil, notFound(err, "subcategory", id)
	}
	return &sc, nil
}

// SubCategoriesByCategory returns a category's sub-categories in sibling
// order. Archived rows are excluded unless includeArchived is set.
func SubCategoriesByCategory(db *gorm.DB, categoryID uint, includeArchived bool) ([]domain.SubCategory, error) {
	q := db.Where("category_id = ?", categoryID).Order("sort_order")
	if !includeArchived {
		q = q.Where("archived_at IS NULL")
	}
	var subs []domain.SubCategory
	if err := q.Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// NextSubCategoryOrder returns the next sibling sort key under a category.
func NextSubCategoryOrder(db *gorm.DB, categoryID uint) (int, error) {
	var max *int
	err := db.Model(&domain.SubCategory{}).
		Where("category_id = ?", categoryID).
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

// SaveSubCategory persists all fields of an existing sub-category.
func SaveSubCategory(db *gorm.DB, sc *domain.SubCategory) error {
	return db.Save(sc).Error
}
