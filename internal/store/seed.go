package store

import (
	"time"

	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// Seed inserts a sample project tree on first run. It is a no-op when any
// project already exists.
func (s *Store) Seed() error {
	var count int64
	if err := s.db.Model(&domain.Project{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return s.Tx("seed", func(tx *gorm.DB) error {
		now := time.Now()

		project := domain.Project{
			Name:        "Modbus TCP driver",
			Description: "Modbus TCP client driver library for equipment control",
			Status:      domain.ProjectActive,
			Color:       "#3b82f6",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		design := domain.Category{ProjectID: project.ID, Name: "Design & architecture", Status: domain.GroupActive, Order: 0, CreatedAt: now, UpdatedAt: now}
		impl := domain.Category{ProjectID: project.ID, Name: "Implementation", Status: domain.GroupActive, Order: 1, CreatedAt: now, UpdatedAt: now}
		for _, c := range []*domain.Category{&design, &impl} {
			if err := tx.Create(c).Error; err != nil {
				return err
			}
		}

		api := domain.SubCategory{CategoryID: design.ID, ProjectID: project.ID, Name: "Public API design", Status: domain.GroupActive, Order: 0, CreatedAt: now, UpdatedAt: now}
		socket := domain.SubCategory{CategoryID: impl.ID, ProjectID: project.ID, Name: "Socket communication", Status: domain.GroupActive, Order: 0, CreatedAt: now, UpdatedAt: now}
		reconnect := domain.SubCategory{CategoryID: impl.ID, ProjectID: project.ID, Name: "Reconnect policy", Status: domain.GroupActive, Order: 1, CreatedAt: now, UpdatedAt: now}
		for _, sc := range []*domain.SubCategory{&api, &socket, &reconnect} {
			if err := tx.Create(sc).Error; err != nil {
				return err
			}
		}

		tasks := []domain.Task{
			{
				SubCategoryID: api.ID, CategoryID: design.ID, ProjectID: project.ID,
				Title:       "Define the public driver header",
				Description: "Opaque handle type and global function signatures",
				Status:      domain.TaskDone, Priority: domain.PriorityHigh,
				Assignee: "me", Progress: 100,
				Checklist: []domain.ChecklistItem{
					{ID: "1", Text: "Handle type definition", Done: true},
					{ID: "2", Text: "Create/Destroy declarations", Done: true},
					{ID: "3", Text: "SendSync declaration", Done: true},
				},
				CreatedAt: now, UpdatedAt: now,
			},
			{
				SubCategoryID: socket.ID, CategoryID: impl.ID, ProjectID: project.ID,
				Title:       "TCP connect/send/recv",
				Description: "Basic blocking socket implementation",
				Status:      domain.TaskInProgress, Priority: domain.PriorityHigh,
				Assignee: "me", DueDate: now.AddDate(0, 0, 14).Format("2006-01-02"), Progress: 60,
				Checklist: []domain.ChecklistItem{
					{ID: "1", Text: "Startup/cleanup lifecycle", Done: true},
					{ID: "2", Text: "connect() implementation", Done: true},
					{ID: "3", Text: "send/recv timeouts", Done: false},
				},
				CreatedAt: now, UpdatedAt: now,
			},
			{
				SubCategoryID: reconnect.ID, CategoryID: impl.ID, ProjectID: project.ID,
				Title:       "Exponential backoff reconnect",
				Description: "1s → 2s → 4s doubling with a 30s cap",
				Status:      domain.TaskTodo, Priority: domain.PriorityMedium,
				Assignee: "me", DueDate: now.AddDate(0, 0, 21).Format("2006-01-02"),
				CreatedAt: now, UpdatedAt: now,
			},
		}
		return tx.Create(&tasks).Error
	})
}
