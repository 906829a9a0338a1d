package user

import (
	"database/sql"
	"errors"
	"fmt"

	"expense_tracker/internal/auth"
	"expense_tracker/internal/utils"

	"github.com/sirupsen/logrus"
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type UserServiceInterface interface {
	Register(username, password string) (*User, error)
	Login(username, password string) (*User, error)
	GetUserByID(id int) (*User, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(username, password string) (*User, error) {
	// Pre-check for a friendlier error; the unique index is the real guard.
	if existing, err := s.repo.GetByUsername(s.db, username); err == nil && existing != nil {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := auth.GeneratePasswordHash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		Username: username,
		Password: hashedPassword,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err := s.repo.Create(tx, user)
		if err != nil {
			return err
		}
		user.ID = id
		return nil
	}); err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		logrus.WithError(err).Error("Failed to register user")
		return nil, err
	}

	return user, nil
}

// Login validates the credentials and returns the user. Every failure
// collapses into ErrInvalidCredentials to avoid username enumeration.
func (s *UserService) Login(username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves user by ID
func (s *UserService) GetUserByID(id int) (*User, error) {
	return s.repo.GetByID(s.db, id)
}
