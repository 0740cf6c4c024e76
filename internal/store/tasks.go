package store

import (
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskRunning TaskStatus = "running"
	TaskDone    TaskStatus = "done"
)

// BuildTask is a queued rebuild. At most one task is pending at a time.
type BuildTask struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Status    TaskStatus `json:"status" gorm:"size:16;index;not null"`
	Attempts  int        `json:"attempts"`
	NextRunAt time.Time  `json:"next_run_at" gorm:"index;not null"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// EnqueueBuildTask schedules a rebuild after delay. An already pending task is
// pushed back instead of queueing a second one.
func (s *Store) EnqueueBuildTask(delay time.Duration) (BuildTask, error) {
	var task BuildTask
	err := s.db.Transaction(func(tx *gorm.DB) error {
		runAt := now().Add(delay)
		err := tx.Where("status = ?", TaskPending).Order("id asc").First(&task).Error
		if err == nil {
			task.NextRunAt = runAt
			return tx.Save(&task).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		task = BuildTask{Status: TaskPending, NextRunAt: runAt}
		return tx.Create(&task).Error
	})
	if err != nil {
		return BuildTask{}, errors.Wrap(err, "enqueue build task")
	}
	return task, nil
}

// ClaimBuildTask marks the oldest due pending task as running.
func (s *Store) ClaimBuildTask(at time.Time) (BuildTask, bool, error) {
	var task BuildTask
	claimed := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("status = ? AND next_run_at <= ?", TaskPending, at.UTC()).
			Order("next_run_at asc").
			First(&task).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		task.Status = TaskRunning
		task.Attempts++
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if err != nil {
		return BuildTask{}, false, errors.Wrap(err, "claim build task")
	}
	return task, claimed, nil
}

func (s *Store) RescheduleBuildTask(id uint, delay time.Duration) error {
	err := s.db.Model(&BuildTask{}).Where("id = ?", id).Updates(map[string]any{
		"status":      TaskPending,
		"next_run_at": now().Add(delay),
	}).Error
	return errors.Wrapf(err, "reschedule build task %d", id)
}

func (s *Store) CompleteBuildTask(id uint) error {
	err := s.db.Model(&BuildTask{}).Where("id = ?", id).Update("status", TaskDone).Error
	return errors.Wrapf(err, "complete build task %d", id)
}

func (s *Store) GetBuildTask(id uint) (BuildTask, bool) {
	var task BuildTask
	if err := s.db.First(&task, id).Error; err != nil {
		return BuildTask{}, false
	}
	return task, true
}
