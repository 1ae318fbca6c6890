package service

import (
	"context"
	"errors"
	"fmt"

	"myblog/internal/model"

	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=users.go -destination=./user_storage_mock.go -package=service
type UserStorage interface {
	// CreateUser fails with ErrUsernameTaken when the username exists.
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
}

type UserService struct {
	userStorage UserStorage
	hashCost    int
}

// NewUserService uses bcrypt.DefaultCost when hashCost is out of range.
func NewUserService(userStorage UserStorage, hashCost int) *UserService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &UserService{
		userStorage: userStorage,
		hashCost:    hashCost,
	}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (model.User, error) {
	if err := checkRequest(req); err != nil {
		return model.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.userStorage.CreateUser(ctx, model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	})
}

func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	if username == "" || password == "" {
		return model.User{}, ErrInvalidCredentials
	}

	u, err := s.userStorage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, fmt.Errorf("userID must be > 0: %w", ErrInvalidRequest)
	}
	return s.userStorage.GetUserByID(ctx, userID)
}
