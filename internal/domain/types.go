// Package domain contains the core entity types for the pmboard hierarchy:
// Project → Category → SubCategory → Task, plus the task audit trail.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ProjectStatus represents the workflow status of a project.
type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectOnHold    ProjectStatus = "ON_HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

// String returns the display string.
func (s ProjectStatus) String() string {
	return string(s)
}

// TaskStatus represents the workflow status of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

// String returns the display string.
func (s TaskStatus) String() string {
	return string(s)
}

// TaskPriority represents task priority.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// String returns the display string.
func (p TaskPriority) String() string {
	return string(p)
}

// Project is the root of one hierarchy instance. Archival is orthogonal to
// Status: an archived project keeps whatever status it had.
type Project struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null"`
	Description  string        `json:"description"`
	Status       ProjectStatus `json:"status" gorm:"size:16;not null;default:ACTIVE;index"`
	Color        string        `json:"color" gorm:"size:16"`
	ArchivedAt   *time.Time    `json:"archivedAt" gorm:"index"`
	ArchiveBatch string        `json:"archiveBatch,omitempty" gorm:"size:36;index"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// Category is the second-level grouping under a project ("epic").
// Status is maintained by the propagation engine, not set freely.
type Category struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	ProjectID    uint        `json:"projectId" gorm:"not null;index"`
	Name         string      `json:"name" gorm:"not null"`
	Status       GroupStatus `json:"status" gorm:"size:16;not null;default:ACTIVE"`
	Order        int         `json:"order" gorm:"column:sort_order"`
	ArchivedAt   *time.Time  `json:"archivedAt" gorm:"index"`
	ArchiveBatch string      `json:"archiveBatch,omitempty" gorm:"size:36;index"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// SubCategory is the third-level grouping under a category. ProjectID is
// denormalized from the parent category and must stay consistent with it.
type SubCategory struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CategoryID   uint        `json:"categoryId" gorm:"not null;index"`
	ProjectID    uint        `json:"projectId" gorm:"not null;index"`
	Name         string      `json:"name" gorm:"not null"`
	Status       GroupStatus `json:"status" gorm:"size:16;not null;default:ACTIVE"`
	Order        int         `json:"order" gorm:"column:sort_order"`
	ArchivedAt   *time.Time  `json:"archivedAt" gorm:"index"`
	ArchiveBatch string      `json:"archiveBatch,omitempty" gorm:"size:36;index"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// ChecklistItem is one entry of a task checklist.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// Task is the leaf work item. CategoryID and ProjectID are denormalized
// copies of the ancestor chain; cascade operations keep them consistent.
type Task struct {
	ID            uint                               `json:"id" gorm:"primaryKey"`
	SubCategoryID uint                               `json:"subCategoryId" gorm:"not null;index"`
	CategoryID    uint                               `json:"categoryId" gorm:"not null;index"`
	ProjectID     uint                               `json:"projectId" gorm:"not null;index"`
	Title         string                             `json:"title" gorm:"not null"`
	Description   string                             `json:"description"`
	Status        TaskStatus                         `json:"status" gorm:"size:16;not null;default:TODO;index"`
	Priority      TaskPriority                       `json:"priority" gorm:"size:16;not null;default:MEDIUM"`
	Assignee      string                             `json:"assignee"`
	DueDate       string                             `json:"dueDate" gorm:"size:10"`
	Progress      int                                `json:"progress"`
	Checklist     datatypes.JSONSlice[ChecklistItem] `json:"checklist"`
	ArchivedAt    *time.Time                         `json:"archivedAt" gorm:"index"`
	ArchiveBatch  string                             `json:"archiveBatch,omitempty" gorm:"size:36;index"`
	CreatedAt     time.Time                          `json:"createdAt"`
	UpdatedAt     time.Time                          `json:"updatedAt"`
}

// Archived reports whether the task is soft-deleted.
func (t *Task) Archived() bool {
	return t.ArchivedAt != nil
}

// TaskHistory is an immutable audit record of one task field change.
// Rows are appended by the update path and removed only when the owning
// task is permanently deleted.
type TaskHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TaskID    uint      `json:"taskId" gorm:"not null;index"`
	Field     string    `json:"field" gorm:"column:field_name;size:32;not null"`
	OldValue  string    `json:"oldValue"`
	NewValue  string    `json:"newValue"`
	ChangedAt time.Time `json:"changedAt" gorm:"index"`
}
