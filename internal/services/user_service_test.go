package services

import (
	"context"
	"errors"
	"testing"

	"crmhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// Mock repositories and services
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, email string, active bool) (bool, error) {
	args := m.Called(ctx, email, active)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountByActive(ctx context.Context, active bool) (int64, error) {
	args := m.Called(ctx, active)
	return args.Get(0).(int64), args.Error(1)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(email string) (string, error) {
	args := m.Called(email)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(token, email string) error {
	args := m.Called(token, email)
	return args.Error(0)
}

func (m *MockTokenService) Subject(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

type UserServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	mockTokens   *MockTokenService
	service      UserService
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.mockUserRepo = &MockUserRepository{}
	suite.mockTokens = &MockTokenService{}
	suite.service = NewUserService(suite.mockUserRepo, suite.mockTokens)
}

func (suite *UserServiceTestSuite) TearDownTest() {
	suite.mockUserRepo.AssertExpectations(suite.T())
	suite.mockTokens.AssertExpectations(suite.T())
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (suite *UserServiceTestSuite) TestRegister_Success() {
	suite.mockUserRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil).Once()
	suite.mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "alice@example.com" &&
			u.Role == models.RoleUser &&
			u.IsActive &&
			u.ID != uuid.Nil &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")) == nil
	})).Return(nil).Once()
	suite.mockTokens.On("Generate", "alice@example.com").Return("a.jwt.token", nil).Once()

	token, err := suite.service.Register(context.Background(), &RegisterRequest{
		FullName: "Alice Smith",
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "a.jwt.token", token)
}

func (suite *UserServiceTestSuite) TestRegister_ExplicitRole() {
	role := models.RoleManager
	suite.mockUserRepo.On("ExistsByEmail", mock.Anything, "bob@example.com").Return(false, nil).Once()
	suite.mockUserRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleManager
	})).Return(nil).Once()
	suite.mockTokens.On("Generate", "bob@example.com").Return("a.jwt.token", nil).Once()

	_, err := suite.service.Register(context.Background(), &RegisterRequest{
		FullName: "Bob Jones",
		Email:    "bob@example.com",
		Password: "secret123",
		Role:     &role,
	})

	assert.NoError(suite.T(), err)
}

func (suite *UserServiceTestSuite) TestRegister_DuplicateEmail() {
	suite.mockUserRepo.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(true, nil).Once()

	_, err := suite.service.Register(context.Background(), &RegisterRequest{
		FullName: "Alice Smith",
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "email already in use", err.Error())
}

func (suite *UserServiceTestSuite) TestRegister_MissingFields() {
	_, err := suite.service.Register(context.Background(), &RegisterRequest{Email: "alice@example.com"})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "email and password are required", err.Error())
}

func activeUser(email, password string) *models.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Test User",
		Role:         models.RoleUser,
		IsActive:     true,
	}
}

func (suite *UserServiceTestSuite) TestLogin_Success() {
	user := activeUser("alice@example.com", "secret123")
	suite.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()
	suite.mockTokens.On("Generate", "alice@example.com").Return("a.jwt.token", nil).Once()

	token, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "a.jwt.token", token)
}

func (suite *UserServiceTestSuite) TestLogin_WrongPassword() {
	user := activeUser("alice@example.com", "secret123")
	suite.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()

	_, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "invalid credentials", err.Error())
}

func (suite *UserServiceTestSuite) TestLogin_DisabledAccount() {
	user := activeUser("alice@example.com", "secret123")
	user.IsActive = false
	suite.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()

	_, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "secret123",
	})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "user account is disabled", err.Error())
}

func (suite *UserServiceTestSuite) TestLogin_UnknownUser() {
	suite.mockUserRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.New("no rows")).Once()

	_, err := suite.service.Login(context.Background(), &LoginRequest{
		Email:    "ghost@example.com",
		Password: "secret123",
	})

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "user not found", err.Error())
}

func (suite *UserServiceTestSuite) TestUpdateUser_PartialFields() {
	user := activeUser("alice@example.com", "secret123")
	originalHash := user.PasswordHash
	newName := "Alice Cooper"

	suite.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("Update", mock.Anything, user).Return(nil).Once()

	updated, err := suite.service.UpdateUser(context.Background(), "alice@example.com", &UserUpdate{
		FullName: &newName,
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Alice Cooper", updated.FullName)
	assert.Equal(suite.T(), originalHash, updated.PasswordHash)
}

func (suite *UserServiceTestSuite) TestUpdateUser_PasswordRehashed() {
	user := activeUser("alice@example.com", "secret123")
	newPassword := "newsecret456"

	suite.mockUserRepo.On("GetByEmail", mock.Anything, "alice@example.com").Return(user, nil).Once()
	suite.mockUserRepo.On("Update", mock.Anything, user).Return(nil).Once()

	updated, err := suite.service.UpdateUser(context.Background(), "alice@example.com", &UserUpdate{
		Password: &newPassword,
	})

	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newsecret456")))
}

func (suite *UserServiceTestSuite) TestDeactivateUser_NotFound() {
	suite.mockUserRepo.On("SetActive", mock.Anything, "ghost@example.com", false).Return(false, nil).Once()

	err := suite.service.DeactivateUser(context.Background(), "ghost@example.com")

	assert.Error(suite.T(), err)
	assert.Equal(suite.T(), "user not found", err.Error())
}

func (suite *UserServiceTestSuite) TestActivateUser_Success() {
	suite.mockUserRepo.On("SetActive", mock.Anything, "alice@example.com", true).Return(true, nil).Once()

	assert.NoError(suite.T(), suite.service.ActivateUser(context.Background(), "alice@example.com"))
}

func (suite *UserServiceTestSuite) TestCountActive() {
	suite.mockUserRepo.On("CountByActive", mock.Anything, true).Return(int64(7), nil).Once()

	count, err := suite.service.CountActive(context.Background())

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), count)
}
