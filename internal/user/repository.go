package user

import (
	"database/sql"
	"errors"

	"finance_tracker/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

var ErrNotFound = errors.New("user not found")

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *User) error
	GetByID(db *sql.DB, id string) (*User, error)
	GetByEmail(db *sql.DB, email string) (*User, error)
	GetByUsername(db *sql.DB, username string) (*User, error)
	Update(tx *sql.Tx, user *User) error
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

// Create inserts a new user. The username/email unique constraints are the
// authoritative uniqueness check; a violation surfaces as a conflict even
// when a concurrent registration slipped past the service-level pre-check.
func (r *UserRepository) Create(tx *sql.Tx, user *User) error {
	query := `
		INSERT INTO users (
			id, username, email, password, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`

	if _, err := tx.Exec(query, user.ID, user.Username, user.Email, user.Password); err != nil {
		if conflict := conflictFromUnique(err); conflict != nil {
			return conflict
		}
		logrus.WithError(err).Error("Failed to create user")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User created successfully")

	return nil
}

func (r *UserRepository) GetByID(db *sql.DB, id string) (*User, error) {
	return r.getBy(db, "id", id)
}

func (r *UserRepository) GetByEmail(db *sql.DB, email string) (*User, error) {
	return r.getBy(db, "email", email)
}

func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*User, error) {
	return r.getBy(db, "username", username)
}

func (r *UserRepository) getBy(db *sql.DB, column, value string) (*User, error) {
	query := `
		SELECT id, username, email, password, created_at, updated_at
		FROM users
		WHERE ` + column + ` = $1
	`

	user := &User{}
	err := db.QueryRow(query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logrus.WithError(err).Errorf("Failed to get user by %s", column)
		return nil, err
	}

	return user, nil
}

// Update persists username, email and password hash for an existing user.
func (r *UserRepository) Update(tx *sql.Tx, user *User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := tx.Exec(query, user.Username, user.Email, user.Password, user.ID)
	if err != nil {
		if conflict := conflictFromUnique(err); conflict != nil {
			return conflict
		}
		logrus.WithError(err).Error("Failed to update user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	logrus.WithField("user_id", user.ID).Info("User updated successfully")
	return nil
}

// conflictFromUnique translates a Postgres unique violation into the
// field-specific conflict the API reports.
func conflictFromUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}

	switch pgErr.ConstraintName {
	case "users_email_key":
		return apperr.Conflict("Email already exists")
	case "users_username_key":
		return apperr.Conflict("Username already exists")
	default:
		return apperr.Conflict("Duplicate value")
	}
}
