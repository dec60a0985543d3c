package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeder fills an empty store with synthetic development data.
type Seeder struct {
	userRepo     repositories.UserRepository
	customerRepo repositories.CustomerRepository
	taskRepo     repositories.TaskRepository
	rng          *rand.Rand
}

func NewSeeder(userRepo repositories.UserRepository, customerRepo repositories.CustomerRepository, taskRepo repositories.TaskRepository) *Seeder {
	return &Seeder{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		taskRepo:     taskRepo,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael",
	"Linda", "David", "Elizabeth", "William", "Barbara", "Richard", "Susan",
	"Joseph", "Jessica", "Thomas", "Sarah", "Charles", "Karen", "Daniel",
	"Lisa", "Matthew", "Nancy", "Anthony", "Betty", "Mark", "Margaret",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

var taskTitles = []string{
	"Follow up on quote", "Prepare contract renewal", "Schedule product demo",
	"Resolve billing dispute", "Onboard new account", "Quarterly account review",
	"Upsell premium plan", "Collect overdue invoice", "Update contact details",
	"Send proposal", "Negotiate terms", "Close support escalation",
}

// Run seeds users, customers and tasks when all three tables are empty.
// Any existing data makes it a no-op.
func (s *Seeder) Run(ctx context.Context) error {
	userCount, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	customerCount, err := s.customerRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	taskCount, err := s.taskRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tasks: %w", err)
	}
	if userCount > 0 || customerCount > 0 || taskCount > 0 {
		log.Println("Seed skipped: store is not empty")
		return nil
	}

	log.Println("Seeding development data...")

	users, err := s.seedUsers(ctx)
	if err != nil {
		return err
	}
	customers, err := s.seedCustomers(ctx)
	if err != nil {
		return err
	}
	if err := s.seedTasks(ctx, users, customers); err != nil {
		return err
	}

	log.Printf("Seed complete: %d users, %d customers, 150 tasks", len(users), len(customers))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	counts := []struct {
		role models.Role
		n    int
	}{
		{models.RoleAdmin, 3},
		{models.RoleManager, 5},
		{models.RoleUser, 12},
	}

	var users []*models.User
	seq := 0
	for _, rc := range counts {
		for i := 0; i < rc.n; i++ {
			seq++
			first := firstNames[s.rng.Intn(len(firstNames))]
			last := lastNames[s.rng.Intn(len(lastNames))]
			user := &models.User{
				ID:           uuid.New(),
				Email:        fmt.Sprintf("user%d@crmhub.dev", seq),
				PasswordHash: string(hash),
				FullName:     first + " " + last,
				Role:         rc.role,
				IsActive:     s.rng.Float64() < 0.75,
			}
			if err := s.userRepo.Create(ctx, user); err != nil {
				return nil, fmt.Errorf("failed to seed user %s: %w", user.Email, err)
			}
			users = append(users, user)
		}
	}
	return users, nil
}

func (s *Seeder) seedCustomers(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	for i := 1; i <= 50; i++ {
		first := firstNames[s.rng.Intn(len(firstNames))]
		last := lastNames[s.rng.Intn(len(lastNames))]
		address := fmt.Sprintf("%d Main Street, Springfield", 100+s.rng.Intn(900))

		customer := &models.Customer{
			ID:       uuid.New(),
			Name:     first + " " + last,
			Email:    fmt.Sprintf("customer%d@example.com", i),
			Phone:    fmt.Sprintf("+1-555-%04d", s.rng.Intn(10000)),
			Address:  &address,
			IsActive: s.rng.Float64() < 0.90,
		}
		if s.rng.Float64() < 0.30 {
			notes := "VIP customer"
			customer.Notes = &notes
		}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to seed customer %s: %w", customer.Email, err)
		}
		customers = append(customers, customer)
	}
	return customers, nil
}

func (s *Seeder) seedTasks(ctx context.Context, users []*models.User, customers []*models.Customer) error {
	statuses := []models.TaskStatus{
		models.TaskPending, models.TaskInProgress,
		models.TaskCompleted, models.TaskCancelled,
	}
	now := time.Now()

	for i := 0; i < 150; i++ {
		status := statuses[s.rng.Intn(len(statuses))]
		customer := customers[s.rng.Intn(len(customers))]

		task := &models.Task{
			ID:         uuid.New(),
			Title:      taskTitles[s.rng.Intn(len(taskTitles))],
			Status:     status,
			Priority:   1 + s.rng.Intn(3),
			CustomerID: customer.ID,
		}

		if s.rng.Float64() < 0.5 {
			description := fmt.Sprintf("Auto-generated task for %s", customer.Name)
			task.Description = &description
		}
		if s.rng.Float64() < 0.7 {
			user := users[s.rng.Intn(len(users))]
			task.AssignedUserID = &user.ID
		}
		if s.rng.Float64() < 0.6 {
			hours := float64(1 + s.rng.Intn(16))
			task.EstimatedHours = &hours
		}

		switch status {
		case models.TaskCompleted:
			// Spread completions across the trailing five months so the
			// monthly trend chart has a shape.
			completedAt := now.AddDate(0, 0, -s.rng.Intn(150))
			task.CompletedAt = &completedAt
			task.DueDate = completedAt.AddDate(0, 0, s.rng.Intn(14))
			if task.EstimatedHours != nil {
				actual := *task.EstimatedHours * (0.75 + s.rng.Float64()*0.5)
				task.ActualHours = &actual
			}
		case models.TaskCancelled:
			task.DueDate = now.AddDate(0, 0, -60+s.rng.Intn(120))
		default:
			// Roughly a quarter of open tasks land in the past and read
			// as overdue.
			task.DueDate = now.AddDate(0, 0, -7+s.rng.Intn(37))
		}

		if err := s.taskRepo.Create(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task %d: %w", i, err)
		}
	}
	return nil
}
