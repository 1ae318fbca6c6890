package inmemory

import (
	"context"
	"slices"
	"time"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/internal/service"
)

type PostStorage struct {
	db *DB
}

func NewPostStorage(db *DB) *PostStorage {
	return &PostStorage{db: db}
}

func (s *PostStorage) CreatePost(_ context.Context, in model.Post) (model.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	in.ID = int64(len(s.db.posts))
	in.CommentIDs = []int64{}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now()
	}
	s.db.posts = append(s.db.posts, in)
	return clonePost(in), nil
}

func (s *PostStorage) UpdatePost(_ context.Context, postID int64, fields model.PostFields) (model.Post, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.post(postID)
	if !ok {
		return model.Post{}, service.ErrNotFound
	}
	p.Title = fields.Title
	p.Description = fields.Description
	s.db.posts[postID] = p
	return clonePost(p), nil
}

func (s *PostStorage) DeletePost(_ context.Context, postID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	p, ok := s.db.post(postID)
	if !ok {
		return service.ErrNotFound
	}
	for _, cid := range p.CommentIDs {
		if _, ok := s.db.comment(cid); ok {
			s.db.comments[cid] = model.Comment{}
		}
	}
	s.db.posts[postID] = model.Post{}
	return nil
}

func (s *PostStorage) GetPostByID(_ context.Context, postID int64) (model.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if p, ok := s.db.post(postID); ok {
		return clonePost(p), nil
	}
	return model.Post{}, service.ErrNotFound
}

func (s *PostStorage) GetPostWithComments(_ context.Context, postID int64) (model.PostDetails, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.post(postID)
	if !ok {
		return model.PostDetails{}, service.ErrNotFound
	}

	out := model.PostDetails{
		Post:     clonePost(p),
		Author:   s.db.user(p.UserID),
		Comments: make([]model.CommentDetails, 0, len(p.CommentIDs)),
	}
	for _, cid := range p.CommentIDs {
		c, ok := s.db.comment(cid)
		if !ok {
			continue
		}
		out.Comments = append(out.Comments, model.CommentDetails{
			Comment: c,
			Author:  s.db.user(c.UserID),
		})
	}
	return out, nil
}

func (s *PostStorage) GetPosts(_ context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		limit = service.DefaultPostsLimit
	}

	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	n := len(s.db.posts) - 1
	if n <= 0 {
		return nil, nil
	}

	out := make([]model.Post, 0, min(limit, n))
	for id := n; id >= 1 && len(out) < limit; id-- {
		p := s.db.posts[id]
		if p.ID != 0 {
			out = append(out, clonePost(p))
		}
	}
	return out, nil
}

func (s *PostStorage) GetPostsWithCursor(_ context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = service.DefaultPostsLimit
	}

	out := make([]model.Post, 0, limit)

	switch params.Direction {
	case storage.DirectionAfter:
		for id := min(int(params.Cursor.ID)-1, len(s.db.posts)-1); id >= 1 && len(out) < limit; id-- {
			p := s.db.posts[id]
			if p.ID != 0 {
				out = append(out, clonePost(p))
			}
		}
		return out, nil

	case storage.DirectionBefore:
		for id := max(int(params.Cursor.ID)+1, 1); id <= len(s.db.posts)-1 && len(out) < limit; id++ {
			p := s.db.posts[id]
			if p.ID != 0 {
				out = append(out, clonePost(p))
			}
		}
		slices.Reverse(out)
		return out, nil

	default:
		return nil, storage.ErrDirectionUnset
	}
}

func (s *PostStorage) GetPostAuthorID(_ context.Context, postID int64) (int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.post(postID)
	if !ok {
		return 0, service.ErrNotFound
	}
	return p.UserID, nil
}
