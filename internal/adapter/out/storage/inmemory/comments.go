package inmemory

import (
	"context"
	"slices"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"
)

type CommentStorage struct {
	db *DB
}

func NewCommentStorage(db *DB) *CommentStorage {
	return &CommentStorage{db: db}
}

func (s *CommentStorage) AddComment(_ context.Context, postID int64, c model.Comment) (model.Comment, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.post(postID)
	if !ok {
		return model.Comment{}, service.ErrNotFound
	}

	c.ID = int64(len(s.db.comments))
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	s.db.comments = append(s.db.comments, c)

	p.CommentIDs = append(slices.Clone(p.CommentIDs), c.ID)
	s.db.posts[postID] = p

	return c, nil
}

func (s *CommentStorage) DeleteComment(_ context.Context, postID, commentID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.post(postID)
	if !ok {
		return service.ErrNotFound
	}
	idx := slices.Index(p.CommentIDs, commentID)
	if idx < 0 {
		return service.ErrNotFound
	}

	p.CommentIDs = slices.Delete(slices.Clone(p.CommentIDs), idx, idx+1)
	s.db.posts[postID] = p
	s.db.comments[commentID] = model.Comment{}
	return nil
}

func (s *CommentStorage) GetCommentByID(_ context.Context, commentID int64) (model.Comment, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if c, ok := s.db.comment(commentID); ok {
		return c, nil
	}
	return model.Comment{}, service.ErrNotFound
}

func (s *CommentStorage) GetCommentAuthorID(_ context.Context, commentID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	c, ok := s.db.comment(commentID)
	if !ok {
		return 0, service.ErrNotFound
	}
	return c.UserID, nil
}
