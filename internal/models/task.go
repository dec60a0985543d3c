package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is a free-form enumerated field. Any status may follow any
// other; there is no guarded transition graph.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type Task struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Title          string     `json:"title" db:"title"`
	Description    *string    `json:"description" db:"description"`
	Status         TaskStatus `json:"status" db:"status"`
	DueDate        time.Time  `json:"due_date" db:"due_date"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	Priority       int        `json:"priority" db:"priority"`
	EstimatedHours *float64   `json:"estimated_hours" db:"estimated_hours"`
	ActualHours    *float64   `json:"actual_hours" db:"actual_hours"`
	CustomerID     uuid.UUID  `json:"customer_id" db:"customer_id"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id" db:"assigned_user_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsOverdue reports whether the task is past due and not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && now.After(t.DueDate)
}

// TaskListItem is the joined row shape used by task listings: the task
// plus the display names of its customer and assignee.
type TaskListItem struct {
	Task
	CustomerName     string  `json:"customer_name"`
	AssignedUserName *string `json:"assigned_user_name"`
}
