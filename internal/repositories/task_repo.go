package repositories

import (
	"context"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.TaskListItem, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	ListByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error)
	ListByDueDateBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.Task, error)
	ListUpcoming(ctx context.Context, start, end time.Time) ([]*models.Task, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Task, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error)
	CountByAssignee(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
	CountCompletedBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
}

type taskRepo struct {
	db DB
}

func NewTaskRepo(db DB) TaskRepository {
	return &taskRepo{db: db}
}

const taskColumns = `id, title, description, status, due_date, completed_at, priority,
	estimated_hours, actual_hours, customer_id, assigned_user_id, created_at, updated_at`

func scanTask(row pgx.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID, &task.Title, &task.Description, &task.Status, &task.DueDate,
		&task.CompletedAt, &task.Priority, &task.EstimatedHours, &task.ActualHours,
		&task.CustomerID, &task.AssignedUserID, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

func scanTasks(rows pgx.Rows) ([]*models.Task, error) {
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *taskRepo) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, title, description, status, due_date, completed_at, priority,
			estimated_hours, actual_hours, customer_id, assigned_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, task.ID, task.Title, task.Description, task.Status,
		task.DueDate, task.CompletedAt, task.Priority, task.EstimatedHours,
		task.ActualHours, task.CustomerID, task.AssignedUserID)
	return err
}

func (r *taskRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.db.QueryRow(ctx, query, id))
}

func (r *taskRepo) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, due_date = $4, completed_at = $5,
			priority = $6, estimated_hours = $7, actual_hours = $8, assigned_user_id = $9,
			updated_at = NOW()
		WHERE id = $10
	`
	_, err := r.db.Exec(ctx, query, task.Title, task.Description, task.Status,
		task.DueDate, task.CompletedAt, task.Priority, task.EstimatedHours,
		task.ActualHours, task.AssignedUserID, task.ID)
	return err
}

func (r *taskRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// List returns tasks newest-first with customer and assignee names joined in.
func (r *taskRepo) List(ctx context.Context, limit, offset int) ([]*models.TaskListItem, error) {
	query := `
		SELECT t.id, t.title, t.description, t.status, t.due_date, t.completed_at,
		       t.priority, t.estimated_hours, t.actual_hours, t.customer_id,
		       t.assigned_user_id, t.created_at, t.updated_at,
		       c.name AS customer_name, u.full_name AS assigned_user_name
		FROM tasks t
		JOIN customers c ON c.id = t.customer_id
		LEFT JOIN users u ON u.id = t.assigned_user_id
		ORDER BY t.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.TaskListItem
	for rows.Next() {
		item := &models.TaskListItem{}
		err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Status, &item.DueDate,
			&item.CompletedAt, &item.Priority, &item.EstimatedHours, &item.ActualHours,
			&item.CustomerID, &item.AssignedUserID, &item.CreatedAt, &item.UpdatedAt,
			&item.CustomerName, &item.AssignedUserName,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *taskRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE customer_id = $1 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assigned_user_id = $1 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListByStatus(ctx context.Context, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListByDueDateBetween(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE due_date BETWEEN $1 AND $2 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListOverdue(ctx context.Context, now time.Time) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status != $1 AND due_date < $2
		ORDER BY due_date
	`
	rows, err := r.db.Query(ctx, query, models.TaskCompleted, now)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListUpcoming(ctx context.Context, start, end time.Time) ([]*models.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE status != $1 AND due_date BETWEEN $2 AND $3
		ORDER BY due_date
	`
	rows, err := r.db.Query(ctx, query, models.TaskCompleted, start, end)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) ListRecent(ctx context.Context, limit int) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func (r *taskRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
	return count, err
}

func (r *taskRepo) CountByStatus(ctx context.Context, status models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&count)
	return count, err
}

func (r *taskRepo) CountByAssignee(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE assigned_user_id = $1`, userID).Scan(&count)
	return count, err
}

func (r *taskRepo) CountByAssigneeAndStatus(ctx context.Context, userID uuid.UUID, status models.TaskStatus) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM tasks WHERE assigned_user_id = $1 AND status = $2`
	err := r.db.QueryRow(ctx, query, userID, status).Scan(&count)
	return count, err
}

func (r *taskRepo) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM tasks WHERE status != $1 AND due_date < $2`
	err := r.db.QueryRow(ctx, query, models.TaskCompleted, now).Scan(&count)
	return count, err
}

func (r *taskRepo) CountCompletedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM tasks WHERE status = $1 AND completed_at BETWEEN $2 AND $3`
	err := r.db.QueryRow(ctx, query, models.TaskCompleted, start, end).Scan(&count)
	return count, err
}

func (r *taskRepo) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM tasks WHERE created_at BETWEEN $1 AND $2`
	err := r.db.QueryRow(ctx, query, start, end).Scan(&count)
	return count, err
}
