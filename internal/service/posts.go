package service

import (
	"context"
	"fmt"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/pkg/pagination"
)

const (
	DefaultPostsLimit = 20
	MaxPostsLimit     = 100
)

//go:generate mockgen -source=posts.go -destination=./post_storage_mock.go -package=service
type PostStorage interface {
	CreatePost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, postID int64, fields model.PostFields) (model.Post, error)
	// DeletePost removes the post together with every comment it references.
	DeletePost(ctx context.Context, postID int64) error
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	GetPostWithComments(ctx context.Context, postID int64) (model.PostDetails, error)
	GetPosts(ctx context.Context, limit int) ([]model.Post, error)
	GetPostsWithCursor(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error)
	GetPostAuthorID(ctx context.Context, postID int64) (int64, error)
}

type PostService struct {
	postStorage PostStorage
}

func NewPostService(postStorage PostStorage) *PostService {
	return &PostService{
		postStorage: postStorage,
	}
}

func (s *PostService) CreatePost(ctx context.Context, req CreatePostRequest) (model.Post, error) {
	if err := checkRequest(req); err != nil {
		return model.Post{}, err
	}
	return s.postStorage.CreatePost(ctx, model.Post{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
}

// UpdatePost changes title and description only. Authorization is the
// caller's job.
func (s *PostService) UpdatePost(ctx context.Context, req UpdatePostRequest) (model.Post, error) {
	if err := checkRequest(req); err != nil {
		return model.Post{}, err
	}
	return s.postStorage.UpdatePost(ctx, req.PostID, model.PostFields{
		Title:       req.Title,
		Description: req.Description,
	})
}

func (s *PostService) DeletePost(ctx context.Context, postID int64) error {
	if postID <= 0 {
		return fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.DeletePost(ctx, postID)
}

func (s *PostService) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	if postID <= 0 {
		return model.Post{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	p, err := s.postStorage.GetPostByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	return p, nil
}

func (s *PostService) GetPostWithComments(ctx context.Context, postID int64) (model.PostDetails, error) {
	if postID <= 0 {
		return model.PostDetails{}, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.GetPostWithComments(ctx, postID)
}

func (s *PostService) GetPostAuthorID(ctx context.Context, postID int64) (int64, error) {
	if postID <= 0 {
		return 0, fmt.Errorf("postID must be > 0: %w", ErrInvalidRequest)
	}
	return s.postStorage.GetPostAuthorID(ctx, postID)
}

// GetPosts returns one page of posts, newest first.
func (s *PostService) GetPosts(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error) {
	var (
		posts []model.Post
		err   error
		page  pagination.Page[model.Post]
	)

	if err := validatePagination(in); err != nil {
		return page, err
	}

	limit := in.Limit
	if limit <= 0 {
		limit = DefaultPostsLimit
	}
	if limit > MaxPostsLimit {
		limit = MaxPostsLimit
	}
	peek := limit + 1

	afterProvided := in.AfterCursor != nil && *in.AfterCursor != ""
	beforeProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""

	switch {
	case !afterProvided && !beforeProvided:
		posts, err = s.postStorage.GetPosts(ctx, peek)
		if err != nil {
			return page, err
		}
		if len(posts) > limit {
			page.HasNextPage = true
			posts = posts[:limit]
		}

	case afterProvided:
		params, err := toGetPostsParams(in)
		if err != nil {
			return page, err
		}
		params.Limit = peek
		posts, err = s.postStorage.GetPostsWithCursor(ctx, params)
		if err != nil {
			return page, err
		}
		page.HasPreviousPage = true
		if len(posts) > limit {
			page.HasNextPage = true
			posts = posts[:limit]
		}

	default:
		params, err := toGetPostsParams(in)
		if err != nil {
			return page, err
		}
		params.Limit = peek
		posts, err = s.postStorage.GetPostsWithCursor(ctx, params)
		if err != nil {
			return page, err
		}
		page.HasNextPage = true
		if len(posts) > limit {
			page.HasPreviousPage = true
			posts = posts[len(posts)-limit:]
		}
	}

	if len(posts) == 0 {
		page.Items = nil
		page.Count = 0
		page.StartCursor = nil
		page.EndCursor = nil
		return page, nil
	}

	page.Items = posts
	page.Count = len(posts)

	startCursor := pagination.Cursor{
		CreatedAt: posts[0].CreatedAt,
		ID:        posts[0].ID,
	}
	endCursor := pagination.Cursor{
		CreatedAt: posts[len(posts)-1].CreatedAt,
		ID:        posts[len(posts)-1].ID,
	}

	page.StartCursor, page.EndCursor = startCursor.Encode(), endCursor.Encode()
	return page, nil
}
