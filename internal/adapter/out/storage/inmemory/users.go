package inmemory

import (
	"context"
	"slices"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"
)

type UserStorage struct {
	db *DB
}

func NewUserStorage(db *DB) *UserStorage {
	return &UserStorage{db: db}
}

func (s *UserStorage) CreateUser(_ context.Context, u model.User) (model.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, taken := s.db.byUsername[u.Username]; taken {
		return model.User{}, service.ErrUsernameTaken
	}

	u.ID = int64(len(s.db.users))
	u.PasswordHash = slices.Clone(u.PasswordHash)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	s.db.users = append(s.db.users, u)
	s.db.byUsername[u.Username] = u.ID
	return u, nil
}

func (s *UserStorage) GetUserByID(_ context.Context, userID int64) (model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if userID <= 0 || int(userID) >= len(s.db.users) {
		return model.User{}, service.ErrNotFound
	}
	return s.db.users[userID], nil
}

func (s *UserStorage) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	id, ok := s.db.byUsername[username]
	if !ok {
		return model.User{}, service.ErrNotFound
	}
	return s.db.users[id], nil
}
