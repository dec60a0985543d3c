package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
)

type TaskCreateRequest struct {
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	DueDate        time.Time  `json:"due_date"`
	Priority       *int       `json:"priority"`
	EstimatedHours *float64   `json:"estimated_hours"`
}

// TaskUpdate carries partial-field changes; nil fields keep their current value.
type TaskUpdate struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	DueDate     *time.Time         `json:"due_date"`
	Priority    *int               `json:"priority"`
	Status      *models.TaskStatus `json:"status"`
}

type TaskService interface {
	Create(ctx context.Context, task *models.Task) error
	CreateFromRequest(ctx context.Context, req *TaskCreateRequest) (*models.Task, error)
	Update(ctx context.Context, id uuid.UUID, update *TaskUpdate) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, limit, offset int) ([]*models.TaskListItem, error)
	AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*models.Task, error)
	UpdateStatus(ctx context.Context, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error)
	FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	FindByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error)
	FindByDueDateBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	FindOverdue(ctx context.Context) ([]*models.Task, error)
	FindUpcoming(ctx context.Context, days int) ([]*models.Task, error)
	FindRecent(ctx context.Context, limit int) ([]*models.Task, error)
	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error)
	CountByAssignee(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) (int64, error)
	CountOverdue(ctx context.Context) (int64, error)
	LastSixMonthLabels() []string
	CompletedPerMonth(ctx context.Context) ([]int64, error)
	CreatedPerMonth(ctx context.Context) ([]int64, error)
}

type taskService struct {
	taskRepo     repositories.TaskRepository
	customerRepo repositories.CustomerRepository
	userRepo     repositories.UserRepository
	now          func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, customerRepo repositories.CustomerRepository, userRepo repositories.UserRepository) TaskService {
	return &taskService{
		taskRepo:     taskRepo,
		customerRepo: customerRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

func (s *taskService) Create(ctx context.Context, task *models.Task) error {
	if task.Title == "" {
		return errors.New("task title is required")
	}
	if task.CustomerID == uuid.Nil {
		return errors.New("task customer is required")
	}
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	return s.taskRepo.Create(ctx, task)
}

func (s *taskService) CreateFromRequest(ctx context.Context, req *TaskCreateRequest) (*models.Task, error) {
	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("customer not found with id: %s", req.CustomerID)
	}

	if req.AssignedUserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.AssignedUserID); err != nil {
			return nil, fmt.Errorf("user not found with id: %s", *req.AssignedUserID)
		}
	}

	task := &models.Task{
		ID:             uuid.New(),
		Title:          req.Title,
		Description:    req.Description,
		Status:         models.TaskPending,
		DueDate:        req.DueDate,
		CustomerID:     req.CustomerID,
		AssignedUserID: req.AssignedUserID,
		EstimatedHours: req.EstimatedHours,
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}

	if err := s.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, update *TaskUpdate) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task not found with id: %s", id)
	}

	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = update.Description
	}
	if update.DueDate != nil {
		task.DueDate = *update.DueDate
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.Status != nil {
		if !update.Status.IsValid() {
			return nil, fmt.Errorf("invalid task status: %s", *update.Status)
		}
		task.Status = *update.Status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !deleted {
		return fmt.Errorf("task not found with id: %s", id)
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("task not found with id: %s", id)
	}
	return task, nil
}

func (s *taskService) List(ctx context.Context, limit, offset int) ([]*models.TaskListItem, error) {
	return s.taskRepo.List(ctx, limit, offset)
}

// AssignTask sets the assignee. A PENDING task is promoted to IN_PROGRESS
// as a side effect; any other status is left untouched.
func (s *taskService) AssignTask(ctx context.Context, taskID, userID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, errors.New("task not found")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	task.AssignedUserID = &user.ID
	if task.Status == models.TaskPending {
		task.Status = models.TaskInProgress
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}
	return task, nil
}

// UpdateStatus sets the status directly; transitions are not guarded.
// Moving to COMPLETED stamps the completion time. The stamp is kept when
// the status later moves away from COMPLETED.
func (s *taskService) UpdateStatus(ctx context.Context, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid task status: %s", status)
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, errors.New("task not found")
	}

	task.Status = status
	if status == models.TaskCompleted {
		completedAt := s.now()
		task.CompletedAt = &completedAt
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return task, nil
}

func (s *taskService) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error) {
	return s.taskRepo.ListByCustomer(ctx, customerID)
}

func (s *taskService) FindByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	return s.taskRepo.ListByAssignee(ctx, userID)
}

func (s *taskService) FindByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	return s.taskRepo.ListByStatus(ctx, status)
}

func (s *taskService) FindByDueDateBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	return s.taskRepo.ListByDueDateBetween(ctx, start, end)
}

func (s *taskService) FindOverdue(ctx context.Context) ([]*models.Task, error) {
	return s.taskRepo.ListOverdue(ctx, s.now())
}

func (s *taskService) FindUpcoming(ctx context.Context, days int) ([]*models.Task, error) {
	now := s.now()
	return s.taskRepo.ListUpcoming(ctx, now, now.AddDate(0, 0, days))
}

func (s *taskService) FindRecent(ctx context.Context, limit int) ([]*models.Task, error) {
	return s.taskRepo.ListRecent(ctx, limit)
}

func (s *taskService) CountAll(ctx context.Context) (int64, error) {
	return s.taskRepo.Count(ctx)
}

func (s *taskService) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	return s.taskRepo.CountByStatus(ctx, status)
}

func (s *taskService) CountByAssignee(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.taskRepo.CountByAssignee(ctx, userID)
}

func (s *taskService) CountByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) (int64, error) {
	return s.taskRepo.CountByAssigneeAndStatus(ctx, userID, status)
}

func (s *taskService) CountOverdue(ctx context.Context) (int64, error) {
	return s.taskRepo.CountOverdue(ctx, s.now())
}

// monthBounds returns the first instant of the month i months before now
// and the last instant of that month.
func (s *taskService) monthBounds(i int) (time.Time, time.Time) {
	now := s.now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
	last := first.AddDate(0, 1, 0).Add(-time.Second)
	return first, last
}

// LastSixMonthLabels returns the trailing six month labels, oldest first.
func (s *taskService) LastSixMonthLabels() []string {
	labels := make([]string, 0, 6)
	for i := 5; i >= 0; i-- {
		first, _ := s.monthBounds(i)
		labels = append(labels, first.Format("Jan 2006"))
	}
	return labels
}

func (s *taskService) CompletedPerMonth(ctx context.Context) ([]int64, error) {
	counts := make([]int64, 0, 6)
	for i := 5; i >= 0; i-- {
		start, end := s.monthBounds(i)
		count, err := s.taskRepo.CountCompletedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, nil
}

func (s *taskService) CreatedPerMonth(ctx context.Context) ([]int64, error) {
	counts := make([]int64, 0, 6)
	for i := 5; i >= 0; i-- {
		start, end := s.monthBounds(i)
		count, err := s.taskRepo.CountCreatedBetween(ctx, start, end)
		if err != nil {
			return nil, err
		}
		counts = append(counts, count)
	}
	return counts, nil
}
