package handlers

import (
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
)

// Response shapes returned by the API. Sensitive fields (password hash)
// never appear here.

type UserResponse struct {
	ID        uuid.UUID   `json:"id"`
	Email     string      `json:"email"`
	FullName  string      `json:"full_name"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func userToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type TaskResponse struct {
	ID             uuid.UUID         `json:"id"`
	Title          string            `json:"title"`
	Description    *string           `json:"description"`
	Status         models.TaskStatus `json:"status"`
	Priority       int               `json:"priority"`
	EstimatedHours *float64          `json:"estimated_hours"`
	ActualHours    *float64          `json:"actual_hours"`
	DueDate        time.Time         `json:"due_date"`
	CompletedAt    *time.Time        `json:"completed_at"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	AssignedUserID *uuid.UUID        `json:"assigned_user_id"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func taskToResponse(task *models.Task) *TaskResponse {
	return &TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		EstimatedHours: task.EstimatedHours,
		ActualHours:    task.ActualHours,
		DueDate:        task.DueDate,
		CompletedAt:    task.CompletedAt,
		CustomerID:     task.CustomerID,
		AssignedUserID: task.AssignedUserID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

func tasksToResponses(tasks []*models.Task) []*TaskResponse {
	responses := make([]*TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}
