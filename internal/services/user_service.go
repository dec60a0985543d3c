package services

import (
	"context"
	"errors"
	"fmt"

	"crmhub/internal/models"
	"crmhub/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	FullName string       `json:"full_name"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Role     *models.Role `json:"role"` // optional, defaults to USER
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserUpdate carries partial-field profile changes; nil fields keep their
// current value.
type UserUpdate struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (string, error)
	Login(ctx context.Context, req *LoginRequest) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, email string, update *UserUpdate) (*models.User, error)
	ActivateUser(ctx context.Context, email string) error
	DeactivateUser(ctx context.Context, email string) error
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type userService struct {
	userRepo repositories.UserRepository
	tokens   TokenService
}

func NewUserService(userRepo repositories.UserRepository, tokens TokenService) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

func (s *userService) Register(ctx context.Context, req *RegisterRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", errors.New("email and password are required")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", errors.New("email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if req.Role != nil && req.Role.IsValid() {
		role = *req.Role
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return s.tokens.Generate(user.Email)
}

func (s *userService) Login(ctx context.Context, req *LoginRequest) (string, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", errors.New("user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", errors.New("invalid credentials")
	}

	if !user.IsActive {
		return "", errors.New("user account is disabled")
	}

	return s.tokens.Generate(user.Email)
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, email string, update *UserUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) ActivateUser(ctx context.Context, email string) error {
	return s.setActive(ctx, email, true)
}

func (s *userService) DeactivateUser(ctx context.Context, email string) error {
	return s.setActive(ctx, email, false)
}

func (s *userService) setActive(ctx context.Context, email string, active bool) error {
	updated, err := s.userRepo.SetActive(ctx, email, active)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if !updated {
		return errors.New("user not found")
	}
	return nil
}

func (s *userService) CountAll(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *userService) CountActive(ctx context.Context) (int64, error) {
	return s.userRepo.CountByActive(ctx, true)
}
