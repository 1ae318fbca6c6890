package service

import (
	"context"
	"fmt"

	"myblog/internal/model"
)

//go:generate mockgen -source=comments.go -destination=./comment_storage_mock.go -package=service
type CommentStorage interface {
	// AddComment stores the comment and appends its id to the post's list as
	// one operation.
	AddComment(ctx context.Context, postID int64, comment model.Comment) (model.Comment, error)
	// DeleteComment removes the comment and its id from the post's list as
	// one operation.
	DeleteComment(ctx context.Context, postID, commentID int64) error
	GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error)
	GetCommentAuthorID(ctx context.Context, commentID int64) (int64, error)
}

type CommentService struct {
	commentStorage CommentStorage
}

func NewCommentService(commentStorage CommentStorage) *CommentService {
	return &CommentService{
		commentStorage: commentStorage,
	}
}

func (s *CommentService) AddComment(ctx context.Context, req CreateCommentRequest) (model.Comment, error) {
	if err := checkRequest(req); err != nil {
		return model.Comment{}, err
	}
	return s.commentStorage.AddComment(ctx, req.PostID, model.Comment{
		UserID: req.UserID,
		Body:   req.Body,
	})
}

func (s *CommentService) DeleteComment(ctx context.Context, postID, commentID int64) error {
	if postID <= 0 || commentID <= 0 {
		return fmt.Errorf("postID and commentID must be > 0: %w", ErrInvalidRequest)
	}
	return s.commentStorage.DeleteComment(ctx, postID, commentID)
}

func (s *CommentService) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	if commentID <= 0 {
		return model.Comment{}, ErrInvalidRequest
	}
	return s.commentStorage.GetCommentByID(ctx, commentID)
}

func (s *CommentService) GetCommentAuthorID(ctx context.Context, commentID int64) (int64, error) {
	if commentID <= 0 {
		return 0, ErrInvalidRequest
	}
	return s.commentStorage.GetCommentAuthorID(ctx, commentID)
}
