package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"crmhub/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CustomerRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CustomerRepository
	ctx     context.Context
	now     time.Time
	address *string
}

func (suite *CustomerRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewCustomerRepo(mock)
	suite.ctx = context.Background()
	suite.now = time.Now()
	suite.address = stringPtr("12 Main Street")
}

func (suite *CustomerRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestCustomerRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CustomerRepoTestSuite))
}

func (suite *CustomerRepoTestSuite) customerRow(c *models.Customer) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "notes", "is_active", "created_at", "updated_at"}).
		AddRow(c.ID, c.Name, c.Email, c.Phone, c.Address, c.Notes, c.IsActive, suite.now, suite.now)
}

func (suite *CustomerRepoTestSuite) TestCreate_Success() {
	customer := &models.Customer{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		Email:    "billing@acme.com",
		Phone:    "+1-555-0100",
		Address:  suite.address,
		IsActive: true,
	}

	suite.mock.ExpectExec(`
		INSERT INTO customers \(id, name, email, phone, address, notes, is_active, created_at, updated_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7, NOW\(\), NOW\(\)\)
	`).WithArgs(customer.ID, customer.Name, customer.Email, customer.Phone,
		customer.Address, customer.Notes, customer.IsActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.ctx, customer)
	assert.NoError(suite.T(), err)
}

func (suite *CustomerRepoTestSuite) TestGetByID_Success() {
	customer := &models.Customer{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		Email:    "billing@acme.com",
		Phone:    "+1-555-0100",
		IsActive: true,
	}

	suite.mock.ExpectQuery(`SELECT id, name, email, phone, address, notes, is_active, created_at, updated_at FROM customers WHERE id = \$1`).
		WithArgs(customer.ID).
		WillReturnRows(suite.customerRow(customer))

	result, err := suite.repo.GetByID(suite.ctx, customer.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), customer.ID, result.ID)
	assert.Equal(suite.T(), "Acme Corp", result.Name)
}

func (suite *CustomerRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT id, name, email, phone, address, notes, is_active, created_at, updated_at FROM customers WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.ctx, id)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), result)
}

func (suite *CustomerRepoTestSuite) TestExistsByEmail() {
	suite.mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM customers WHERE email = \$1\)`).
		WithArgs("billing@acme.com").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsByEmail(suite.ctx, "billing@acme.com")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *CustomerRepoTestSuite) TestSetActive_ReportsMissingRow() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE customers SET is_active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(false, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := suite.repo.SetActive(suite.ctx, id, false)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), updated)
}

func (suite *CustomerRepoTestSuite) TestSetActive_Success() {
	id := uuid.New()
	suite.mock.ExpectExec(`UPDATE customers SET is_active = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(true, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := suite.repo.SetActive(suite.ctx, id, true)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), updated)
}

func (suite *CustomerRepoTestSuite) TestSearch_MatchesAllThreeColumns() {
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "notes", "is_active", "created_at", "updated_at"}).
		AddRow(uuid.New(), "John Smith", "john@example.com", "+1-555-0101", nil, nil, true, suite.now, suite.now).
		AddRow(uuid.New(), "Jane Smithers", "jane@example.com", "+1-555-0102", nil, nil, true, suite.now, suite.now)

	suite.mock.ExpectQuery(`
		SELECT id, name, email, phone, address, notes, is_active, created_at, updated_at
		FROM customers
		WHERE name ILIKE '%' \|\| \$1 \|\| '%'
		   OR email ILIKE '%' \|\| \$1 \|\| '%'
		   OR phone LIKE '%' \|\| \$1 \|\| '%'
		ORDER BY created_at DESC
		LIMIT \$2 OFFSET \$3
	`).WithArgs("smith", 20, 0).
		WillReturnRows(rows)

	result, err := suite.repo.Search(suite.ctx, "smith", 20, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
}

func (suite *CustomerRepoTestSuite) TestListActive_FiltersInactive() {
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "notes", "is_active", "created_at", "updated_at"}).
		AddRow(uuid.New(), "Acme Corp", "billing@acme.com", "+1-555-0100", nil, nil, true, suite.now, suite.now)

	suite.mock.ExpectQuery(`
		SELECT id, name, email, phone, address, notes, is_active, created_at, updated_at
		FROM customers
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT \$1 OFFSET \$2
	`).WithArgs(10, 0).
		WillReturnRows(rows)

	result, err := suite.repo.ListActive(suite.ctx, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	assert.True(suite.T(), result[0].IsActive)
}

func (suite *CustomerRepoTestSuite) TestListWithTaskCounts_OrderedByCount() {
	rows := pgxmock.NewRows([]string{"id", "name", "email", "phone", "address", "notes", "is_active", "created_at", "updated_at", "task_count"}).
		AddRow(uuid.New(), "Busy Corp", "busy@example.com", "+1-555-0101", nil, nil, true, suite.now, suite.now, int64(14)).
		AddRow(uuid.New(), "Quiet Corp", "quiet@example.com", "+1-555-0102", nil, nil, true, suite.now, suite.now, int64(0))

	suite.mock.ExpectQuery(`
		SELECT c.id, c.name, c.email, c.phone, c.address, c.notes, c.is_active,
		       c.created_at, c.updated_at, COUNT\(t.id\) AS task_count
		FROM customers c
		LEFT JOIN tasks t ON t.customer_id = c.id
		GROUP BY c.id
		ORDER BY task_count DESC
	`).WillReturnRows(rows)

	result, err := suite.repo.ListWithTaskCounts(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 2)
	assert.Equal(suite.T(), int64(14), result[0].TaskCount)
	assert.Equal(suite.T(), "Busy Corp", result[0].Customer.Name)
	assert.Equal(suite.T(), int64(0), result[1].TaskCount)
}

func (suite *CustomerRepoTestSuite) TestCountActive() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM customers WHERE is_active = TRUE`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := suite.repo.CountActive(suite.ctx)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), count)
}

func (suite *CustomerRepoTestSuite) TestList_DatabaseError() {
	suite.mock.ExpectQuery(`
		SELECT id, name, email, phone, address, notes, is_active, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT \$1 OFFSET \$2
	`).WithArgs(20, 0).
		WillReturnError(errors.New("database connection failed"))

	result, err := suite.repo.List(suite.ctx, 20, 0)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), result)
}

// Helper function to create string pointer
func stringPtr(s string) *string {
	return &s
}
