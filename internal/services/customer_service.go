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

// CustomerUpdate carries partial-field changes; nil fields keep their
// current value. Email uniqueness is re-checked only when the email
// actually changes.
type CustomerUpdate struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type CustomerService interface {
	Create(ctx context.Context, customer *models.Customer) error
	Update(ctx context.Context, id uuid.UUID, update *CustomerUpdate) (*models.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Customer, error)
	Search(ctx context.Context, query string, limit, offset int) ([]*models.Customer, error)
	FindByNameContaining(ctx context.Context, name string) ([]*models.Customer, error)
	FindRecent(ctx context.Context, since time.Time) ([]*models.Customer, error)
	FindTop5Recent(ctx context.Context) ([]*models.Customer, error)
	ListWithTaskCounts(ctx context.Context) ([]*models.CustomerTaskCount, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type customerService struct {
	customerRepo repositories.CustomerRepository
}

func NewCustomerService(customerRepo repositories.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) Create(ctx context.Context, customer *models.Customer) error {
	if customer.Name == "" || customer.Email == "" || customer.Phone == "" {
		return errors.New("name, email and phone are required")
	}

	exists, err := s.customerRepo.ExistsByEmail(ctx, customer.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("customer with email %s already exists", customer.Email)
	}

	customer.ID = uuid.New()
	customer.IsActive = true

	return s.customerRepo.Create(ctx, customer)
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, update *CustomerUpdate) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found with id: %s", id)
	}

	if update.Email != nil && *update.Email != customer.Email {
		exists, err := s.customerRepo.ExistsByEmail(ctx, *update.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("customer with email %s already exists", *update.Email)
		}
		customer.Email = *update.Email
	}

	if update.Name != nil {
		customer.Name = *update.Name
	}
	if update.Phone != nil {
		customer.Phone = *update.Phone
	}
	if update.Address != nil {
		customer.Address = update.Address
	}
	if update.Notes != nil {
		customer.Notes = update.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

// Delete is a soft delete: the row stays, the active flag flips off.
func (s *customerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *customerService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, true)
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setActive(ctx, id, false)
}

func (s *customerService) setActive(ctx context.Context, id uuid.UUID, active bool) error {
	updated, err := s.customerRepo.SetActive(ctx, id, active)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if !updated {
		return fmt.Errorf("customer not found with id: %s", id)
	}
	return nil
}

func (s *customerService) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("customer not found with id: %s", id)
	}
	return customer, nil
}

func (s *customerService) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("customer not found with email: %s", email)
	}
	return customer, nil
}

func (s *customerService) List(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.List(ctx, limit, offset)
}

func (s *customerService) ListActive(ctx context.Context, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.ListActive(ctx, limit, offset)
}

func (s *customerService) Search(ctx context.Context, query string, limit, offset int) ([]*models.Customer, error) {
	return s.customerRepo.Search(ctx, query, limit, offset)
}

func (s *customerService) FindByNameContaining(ctx context.Context, name string) ([]*models.Customer, error) {
	return s.customerRepo.ListByNameContains(ctx, name)
}

func (s *customerService) FindRecent(ctx context.Context, since time.Time) ([]*models.Customer, error) {
	return s.customerRepo.ListCreatedSince(ctx, since)
}

func (s *customerService) FindTop5Recent(ctx context.Context) ([]*models.Customer, error) {
	return s.customerRepo.ListTopRecent(ctx, 5)
}

func (s *customerService) ListWithTaskCounts(ctx context.Context) ([]*models.CustomerTaskCount, error) {
	return s.customerRepo.ListWithTaskCounts(ctx)
}

func (s *customerService) CountAll(ctx context.Context) (int64, error) {
	return s.customerRepo.Count(ctx)
}

func (s *customerService) CountActive(ctx context.Context) (int64, error) {
	return s.customerRepo.CountActive(ctx)
}
