package service

import (
	"fmt"

	"myblog/internal/adapter/out/storage"
	"myblog/pkg/pagination"
)

type CreatePostRequest struct {
	UserID      int64  `validate:"required,gt=0"`
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

type UpdatePostRequest struct {
	PostID      int64  `validate:"required,gt=0"`
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

type CreateCommentRequest struct {
	PostID int64  `validate:"required,gt=0"`
	UserID int64  `validate:"required,gt=0"`
	Body   string `validate:"required"`
}

func validatePagination(in pagination.PageRequest) error {
	beforeCursorProvided := in.BeforeCursor != nil && *in.BeforeCursor != ""
	afterCursorProvided := in.AfterCursor != nil && *in.AfterCursor != ""

	if beforeCursorProvided && afterCursorProvided {
		return fmt.Errorf("both cursors provided: %w", ErrInvalidRequest)
	}
	return nil
}

func toGetPostsParams(in pagination.PageRequest) (storage.GetPostsParams, error) {
	if err := validatePagination(in); err != nil {
		return storage.GetPostsParams{}, err
	}

	if in.Limit <= 0 {
		in.Limit = DefaultPostsLimit
	}
	in.Limit = min(in.Limit, MaxPostsLimit)

	before, err := pagination.Decode(in.BeforeCursor)
	if err != nil {
		return storage.GetPostsParams{}, fmt.Errorf("error decoding before-cursor: %w: %w", ErrInvalidRequest, err)
	}

	after, err := pagination.Decode(in.AfterCursor)
	if err != nil {
		return storage.GetPostsParams{}, fmt.Errorf("error decoding after-cursor: %w: %w", ErrInvalidRequest, err)
	}

	if before == nil && after == nil {
		return storage.GetPostsParams{}, fmt.Errorf("cursor is required: %w", ErrInvalidRequest)
	}

	var params storage.GetPostsParams
	params.Limit = in.Limit

	if before != nil {
		params.Cursor = *before
		params.Direction = storage.DirectionBefore
	} else {
		params.Cursor = *after
		params.Direction = storage.DirectionAfter
	}
	return params, nil
}
