package user

import (
	"database/sql"
	"errors"
	"strings"

	"finance_tracker/internal/apperr"
	"finance_tracker/internal/auth"
	"finance_tracker/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const loginFailedMessage = "Invalid email or password"

type UserService struct {
	repo      UserRepositoryInterface
	db        *sql.DB
	policy    auth.PasswordPolicy
	jwtSecret string
	validate  *validator.Validate
}

type UserServiceInterface interface {
	Register(username, email, password string) error
	Login(email, password string) (string, *PublicUser, error)
	GetUserByID(id string) (*User, error)
	GetAccount(userID string) (*Account, error)
	UpdateAccount(userID, username, email, password string) error
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB, policy auth.PasswordPolicy, jwtSecret string) UserServiceInterface {
	return &UserService{
		repo:      repo,
		db:        db,
		policy:    policy,
		jwtSecret: jwtSecret,
		validate:  validator.New(),
	}
}

// Register validates, hashes and persists a new user. Uniqueness is
// pre-checked email first so conflicts carry a field-specific message;
// the store's unique constraints remain the backstop for racing
// registrations.
func (s *UserService) Register(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return apperr.Invalid("All fields are required")
	}

	if err := s.validate.Var(email, "required,email"); err != nil {
		return apperr.Invalid("Email must be in correct format")
	}

	if err := s.policy.Validate(password); err != nil {
		return apperr.Invalid("Please enter a stronger password")
	}

	if _, err := s.repo.GetByEmail(s.db, email); err == nil {
		return apperr.Conflict("Email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return apperr.Internal(err)
	}

	if _, err := s.repo.GetByUsername(s.db, username); err == nil {
		return apperr.Conflict("Username already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return apperr.Internal(err)
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return apperr.Internal(err)
	}

	newUser := &User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    email,
		Password: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Create(tx, newUser)
	}); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Internal(err)
	}

	return nil
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password report the identical failure so neither field
// leaks.
func (s *UserService) Login(email, password string) (string, *PublicUser, error) {
	u, err := s.repo.GetByEmail(s.db, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, apperr.Invalid(loginFailedMessage)
		}
		return "", nil, apperr.Internal(err)
	}

	if err := auth.ComparePasswordHash([]byte(u.Password), password); err != nil {
		return "", nil, apperr.Invalid(loginFailedMessage)
	}

	token, err := auth.GenerateToken(u.ID, s.jwtSecret)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}

	return token, u.Public(), nil
}

func (s *UserService) GetUserByID(id string) (*User, error) {
	return s.repo.GetByID(s.db, id)
}

func (s *UserService) GetAccount(userID string) (*Account, error) {
	u, err := s.repo.GetByID(s.db, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Internal(err)
	}

	return &Account{Username: u.Username, Email: u.Email}, nil
}

// UpdateAccount changes username/email and, when a non-blank password is
// supplied, re-hashes it. A blank password keeps the existing hash.
func (s *UserService) UpdateAccount(userID, username, email, password string) error {
	if username == "" || email == "" {
		return apperr.Invalid("Username and email are required")
	}

	u, err := s.repo.GetByID(s.db, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}

	u.Username = username
	u.Email = email

	if strings.TrimSpace(password) != "" {
		hashedPassword, err := auth.GeneratePasswordHash(password)
		if err != nil {
			return apperr.Internal(err)
		}
		u.Password = hashedPassword
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, u)
	}); err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		if errors.Is(err, ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Internal(err)
	}

	return nil
}
