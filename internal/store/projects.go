package store

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// CreateProject inserts a new project.
func CreateProject(db *gorm.DB, p *domain.Project) error {
	return db.Create(p).Error
}

// GetProject retrieves a project by ID.
func GetProject(db *gorm.DB, id uint) (*domain.Project, error) {
	var p domain.Project
	if err := db.First(&p, id).Error; err != nil {
		return nil, notFound(err, "project", id)
	}
	return &p, nil
}

// ListProjects returns projects ordered by creation time. Archived
// projects are excluded unless includeArchived is set.
func ListProjects(db *gorm.DB, includeArchived bool) ([]domain.Project, error) {
	q := db.Order("created_at")
	if !includeArchived {
		q = q.Where("archived_at IS NULL")
	}
	var projects []domain.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// SaveProject persists all fields of an existing project.
func SaveProject(db *gorm.DB, p *domain.Project) error {
	return db.Save(p).Error
}
