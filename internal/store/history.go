package store

import (
	"gorm.io/gorm"

	"github.com/pmckit/pmboard/internal/domain"
)

// AppendHistory inserts audit records for a task update.
func AppendHistory(db *gorm.DB, records []domain.TaskHistory) error {
	if len(records) == 0 {
		return nil
	}
	return db.Create(&records).Error
}

// HistoryByTask returns a task's audit records, newest first.
func HistoryByTask(db *gorm.DB, taskID uint) ([]domain.TaskHistory, error) {
	var records []domain.TaskHistory
	err := db.Where("task_id = ?", taskID).
		Order("changed_at DESC").Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteHistoryByTaskIDs removes every audit record owned by the given
// tasks. Cascade deletion calls this before removing the tasks themselves
// so no dangling history is ever visible.
func DeleteHistoryByTaskIDs(db *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("task_id IN ?", ids).Delete(&domain.TaskHistory{}).Error
}
