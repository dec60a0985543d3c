package repositories

import (
	"context"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, customer *models.Customer) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Customer, error)
	ListByNameContains(ctx context.Context, name string) ([]*models.Customer, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Customer, error)
	ListTopRecent(ctx context.Context, limit int) ([]*models.Customer, error)
	ListWithTaskCounts(ctx context.Context) ([]*models.CustomerTaskCount, error)
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type customerRepo struct {
	db DB
}

func NewCustomerRepo(db DB) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, name, email, phone, address, notes, is_active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	customer := &models.Customer{}
	err := row.Scan(
		&customer.ID, &customer.Name, &customer.Email, &customer.Phone,
		&customer.Address, &customer.Notes, &customer.IsActive,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func scanCustomers(rows pgx.Rows) ([]*models.Customer, error) {
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, phone, address, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.Name, customer.Email,
		customer.Phone, customer.Address, customer.Notes, customer.IsActive)
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, id))
}

func (r *customerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return scanCustomer(r.db.QueryRow(ctx, query, email))
}

func (r *customerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1)`
	err := r.db.QueryRow(ctx, query, email).Scan(&exists)
	return exists, err
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, address = $4, notes = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, customer.Name, customer.Email, customer.Phone,
		customer.Address, customer.Notes, customer.IsActive, customer.ID)
	return err
}

func (r *customerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (bool, error) {
	query := `UPDATE customers SET is_active = $1, updated_at = NOW() WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, active, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *customerRepo) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

func (r *customerRepo) ListActive(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

// Search matches the term case-insensitively against name, email and phone
// in a single OR-combined query.
func (r *customerRepo) Search(ctx context.Context, query string, limit, offset int) ([]*models.Customer, error) {
	sql := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE '%' || $1 || '%'
		   OR email ILIKE '%' || $1 || '%'
		   OR phone LIKE '%' || $1 || '%'
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, sql, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

func (r *customerRepo) ListByNameContains(ctx context.Context, name string) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, name)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

func (r *customerRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

func (r *customerRepo) ListTopRecent(ctx context.Context, limit int) ([]*models.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return scanCustomers(rows)
}

// ListWithTaskCounts returns every customer with its task count, busiest first.
func (r *customerRepo) ListWithTaskCounts(ctx context.Context) ([]*models.CustomerTaskCount, error) {
	query := `
		SELECT c.id, c.name, c.email, c.phone, c.address, c.notes, c.is_active,
		       c.created_at, c.updated_at, COUNT(t.id) AS task_count
		FROM customers c
		LEFT JOIN tasks t ON t.customer_id = c.id
		GROUP BY c.id
		ORDER BY task_count DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.CustomerTaskCount
	for rows.Next() {
		item := &models.CustomerTaskCount{}
		err := rows.Scan(
			&item.Customer.ID, &item.Customer.Name, &item.Customer.Email,
			&item.Customer.Phone, &item.Customer.Address, &item.Customer.Notes,
			&item.Customer.IsActive, &item.Customer.CreatedAt, &item.Customer.UpdatedAt,
			&item.TaskCount,
		)
		if err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, rows.Err()
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&count)
	return count, err
}

func (r *customerRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE is_active = TRUE`).Scan(&count)
	return count, err
}
