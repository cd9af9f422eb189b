package user

import (
	"database/sql"
	"errors"
	"testing"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of UserRepositoryInterface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(tx *sql.Tx, user *User) error {
	args := m.Called(tx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(db *sql.DB, id string) (*User, error) {
	args := m.Called(db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(db *sql.DB, email string) (*User, error) {
	args := m.Called(db, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	args := m.Called(db, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockUserRepository) Update(tx *sql.Tx, user *User) error {
	args := m.Called(tx, user)
	return args.Error(0)
}

func newTestService(repo UserRepositoryInterface) UserServiceInterface {
	return NewUserService(repo, nil, auth.DefaultPasswordPolicy(), "service-test-secret")
}

func asAppErr(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	return appErr
}

func TestRegister_MissingFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo)

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"No username", "", "a@x.com", "Str0ng!Pass"},
		{"No email", "alice", "", "Str0ng!Pass"},
		{"No password", "alice", "a@x.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Register(tt.username, tt.email, tt.password)

			appErr := asAppErr(t, err)
			assert.Equal(t, 400, appErr.Code)
			assert.Equal(t, "All fields are required", appErr.Message)
		})
	}

	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestRegister_InvalidEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo)

	err := service.Register("alice", "not-an-email", "Str0ng!Pass")

	appErr := asAppErr(t, err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Email must be in correct format", appErr.Message)
}

func TestRegister_WeakPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo)

	err := service.Register("alice", "a@x.com", "password")

	appErr := asAppErr(t, err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Please enter a stronger password", appErr.Message)
}

func TestRegister_EmailConflict_CheckedFirst(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&User{ID: "u1", Email: "a@x.com"}, nil)
	service := newTestService(mockRepo)

	// Even if the username would also conflict, the email conflict wins.
	err := service.Register("alice2", "a@x.com", "Str0ng!Pass")

	appErr := asAppErr(t, err)
	assert.Equal(t, 409, appErr.Code)
	assert.Equal(t, "Email already exists", appErr.Message)
	mockRepo.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
}

func TestRegister_UsernameConflict(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "b@x.com").Return(nil, ErrNotFound)
	mockRepo.On("GetByUsername", mock.Anything, "alice").Return(&User{ID: "u1", Username: "alice"}, nil)
	service := newTestService(mockRepo)

	err := service.Register("alice", "b@x.com", "Str0ng!Pass")

	appErr := asAppErr(t, err)
	assert.Equal(t, 409, appErr.Code)
	assert.Equal(t, "Username already exists", appErr.Message)
}

func TestRegister_StoreFault(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(nil, errors.New("connection reset"))
	service := newTestService(mockRepo)

	err := service.Register("alice", "a@x.com", "Str0ng!Pass")

	appErr := asAppErr(t, err)
	assert.Equal(t, 500, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
}

func TestLogin_SameFailureForUnknownEmailAndWrongPassword(t *testing.T) {
	hash, err := auth.GeneratePasswordHash("Str0ng!Pass")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "missing@x.com").Return(nil, ErrNotFound)
	mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&User{
		ID:       "u1",
		Username: "alice",
		Email:    "a@x.com",
		Password: hash,
	}, nil)
	service := newTestService(mockRepo)

	_, _, unknownErr := service.Login("missing@x.com", "whatever")
	_, _, wrongErr := service.Login("a@x.com", "wrong-password")

	unknownApp := asAppErr(t, unknownErr)
	wrongApp := asAppErr(t, wrongErr)

	// Identical status and message: neither field leaks.
	assert.Equal(t, 400, unknownApp.Code)
	assert.Equal(t, unknownApp.Code, wrongApp.Code)
	assert.Equal(t, "Invalid email or password", unknownApp.Message)
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.GeneratePasswordHash("Str0ng!Pass")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(&User{
		ID:       "u1",
		Username: "alice",
		Email:    "a@x.com",
		Password: hash,
	}, nil)
	service := newTestService(mockRepo)

	token, publicUser, err := service.Login("a@x.com", "Str0ng!Pass")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, publicUser)
	assert.Equal(t, "u1", publicUser.ID)
	assert.Equal(t, "alice", publicUser.Name)
	assert.Equal(t, "a@x.com", publicUser.Email)

	// The issued token is verifiable and carries the user id
	claims, err := auth.ValidateToken(token, "service-test-secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestGetAccount_NotFound(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, ErrNotFound)
	service := newTestService(mockRepo)

	account, err := service.GetAccount("ghost")

	assert.Nil(t, account)
	appErr := asAppErr(t, err)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "User not found", appErr.Message)
}

func TestGetAccount_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, "u1").Return(&User{
		ID:       "u1",
		Username: "alice",
		Email:    "a@x.com",
		Password: "$2a$10$hash",
	}, nil)
	service := newTestService(mockRepo)

	account, err := service.GetAccount("u1")

	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "a@x.com", account.Email)
}

func TestUpdateAccount_MissingFields(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestService(mockRepo)

	err := service.UpdateAccount("u1", "", "a@x.com", "")

	appErr := asAppErr(t, err)
	assert.Equal(t, 400, appErr.Code)
	assert.Equal(t, "Username and email are required", appErr.Message)
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateAccount_UserGone(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, "ghost").Return(nil, ErrNotFound)
	service := newTestService(mockRepo)

	err := service.UpdateAccount("ghost", "alice", "a@x.com", "")

	appErr := asAppErr(t, err)
	assert.Equal(t, 404, appErr.Code)
}
