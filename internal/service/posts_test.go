package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/pkg/pagination"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		req     CreatePostRequest
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "validation error",
			req:     CreatePostRequest{UserID: 7, Description: "x"},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "storage error",
			req:  CreatePostRequest{UserID: 7, Title: "t", Description: "x"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{UserID: 7, Title: "t", Description: "x"}).
					Return(model.Post{}, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
		{
			name: "success",
			req:  CreatePostRequest{UserID: 7, Title: "t", Description: "x"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					CreatePost(gomock.Any(), model.Post{UserID: 7, Title: "t", Description: "x"}).
					Return(model.Post{ID: 10, UserID: 7, Title: "t", Description: "x", CreatedAt: now}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			svc := NewPostService(m)
			got, err := svc.CreatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrInvalidRequest) {
					require.ErrorIs(t, err, ErrInvalidRequest)
				}
				return
			}

			require.NoError(t, err)
			require.Equal(t, int64(10), got.ID)
			require.Equal(t, int64(7), got.UserID)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     UpdatePostRequest
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "invalid id",
			req:     UpdatePostRequest{Title: "t", Description: "d"},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "empty description",
			req:     UpdatePostRequest{PostID: 3, Title: "t"},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "not found",
			req:  UpdatePostRequest{PostID: 3, Title: "t", Description: "d"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					UpdatePost(gomock.Any(), int64(3), model.PostFields{Title: "t", Description: "d"}).
					Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "success passes only editable fields",
			req:  UpdatePostRequest{PostID: 3, Title: "t", Description: "d"},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					UpdatePost(gomock.Any(), int64(3), model.PostFields{Title: "t", Description: "d"}).
					Return(model.Post{ID: 3, UserID: 1, Title: "t", Description: "d"}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			got, err := NewPostService(m).UpdatePost(context.Background(), tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "t", got.Title)
			require.Equal(t, int64(1), got.UserID)
		})
	}
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockPostStorage(ctrl)
	svc := NewPostService(m)

	require.ErrorIs(t, svc.DeletePost(context.Background(), 0), ErrInvalidRequest)

	m.EXPECT().DeletePost(gomock.Any(), int64(5)).Return(nil)
	require.NoError(t, svc.DeletePost(context.Background(), 5))

	m.EXPECT().DeletePost(gomock.Any(), int64(6)).Return(ErrNotFound)
	require.ErrorIs(t, svc.DeletePost(context.Background(), 6), ErrNotFound)
}

func TestPostService_GetPostByID(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		postID  int64
		setup   func(m *MockPostStorage)
		wantErr error
	}{
		{
			name:    "invalid id",
			postID:  0,
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:   "storage error",
			postID: 123,
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostByID(gomock.Any(), int64(123)).
					Return(model.Post{}, ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name:   "success",
			postID: 5,
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostByID(gomock.Any(), int64(5)).
					Return(model.Post{ID: 5, Title: "a", Description: "b", UserID: 1, CreatedAt: now}, nil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			got, err := NewPostService(m).GetPostByID(context.Background(), tt.postID)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.postID, got.ID)
			require.WithinDuration(t, now, got.CreatedAt, time.Second)
		})
	}
}

func TestPostService_GetPostWithComments(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockPostStorage(ctrl)
	svc := NewPostService(m)

	_, err := svc.GetPostWithComments(context.Background(), -1)
	require.ErrorIs(t, err, ErrInvalidRequest)

	details := model.PostDetails{
		Post:   model.Post{ID: 2, UserID: 1, CommentIDs: []int64{9}},
		Author: model.User{ID: 1, Username: "u1"},
		Comments: []model.CommentDetails{
			{Comment: model.Comment{ID: 9, UserID: 2, Body: "nice post"}, Author: model.User{ID: 2, Username: "u2"}},
		},
	}
	m.EXPECT().GetPostWithComments(gomock.Any(), int64(2)).Return(details, nil)

	got, err := svc.GetPostWithComments(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, details, got)
}

func TestPostService_GetPostAuthorID(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	m := NewMockPostStorage(ctrl)
	svc := NewPostService(m)

	_, err := svc.GetPostAuthorID(context.Background(), 0)
	require.ErrorIs(t, err, ErrInvalidRequest)

	m.EXPECT().GetPostAuthorID(gomock.Any(), int64(4)).Return(int64(77), nil)
	id, err := svc.GetPostAuthorID(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, int64(77), id)
}

func mkPosts(ids ...int64) []model.Post {
	base := time.Date(2025, 9, 24, 12, 0, 0, 0, time.UTC)
	out := make([]model.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Post{ID: id, CreatedAt: base.Add(time.Duration(id) * time.Minute)})
	}
	return out
}

func TestPostService_GetPosts(t *testing.T) {
	t.Parallel()

	cur := pagination.Cursor{ID: 5, CreatedAt: time.Date(2025, 9, 24, 12, 5, 0, 0, time.UTC)}
	enc := cur.Encode()
	bad := "@@@"

	tests := []struct {
		name     string
		in       pagination.PageRequest
		setup    func(m *MockPostStorage)
		wantErr  error
		wantIDs  []int64
		wantNext bool
		wantPrev bool
	}{
		{
			name:    "both cursors",
			in:      pagination.PageRequest{AfterCursor: enc, BeforeCursor: enc},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "broken cursor",
			in:      pagination.PageRequest{AfterCursor: &bad},
			setup:   func(_ *MockPostStorage) {},
			wantErr: ErrInvalidRequest,
		},
		{
			name: "first page with more available",
			in:   pagination.PageRequest{Limit: 2},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPosts(gomock.Any(), 3).Return(mkPosts(9, 8, 7), nil)
			},
			wantIDs:  []int64{9, 8},
			wantNext: true,
		},
		{
			name: "empty",
			in:   pagination.PageRequest{},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPosts(gomock.Any(), DefaultPostsLimit+1).Return(nil, nil)
			},
		},
		{
			name: "limit clamped",
			in:   pagination.PageRequest{Limit: MaxPostsLimit * 10},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPosts(gomock.Any(), MaxPostsLimit+1).Return(mkPosts(1), nil)
			},
			wantIDs: []int64{1},
		},
		{
			name: "after cursor",
			in:   pagination.PageRequest{Limit: 2, AfterCursor: enc},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostsWithCursor(gomock.Any(), storage.GetPostsParams{
						Cursor:    cur,
						Direction: storage.DirectionAfter,
						Limit:     3,
					}).
					Return(mkPosts(4, 3), nil)
			},
			wantIDs:  []int64{4, 3},
			wantPrev: true,
		},
		{
			name: "before cursor drops the newest extra row",
			in:   pagination.PageRequest{Limit: 2, BeforeCursor: enc},
			setup: func(m *MockPostStorage) {
				m.EXPECT().
					GetPostsWithCursor(gomock.Any(), storage.GetPostsParams{
						Cursor:    cur,
						Direction: storage.DirectionBefore,
						Limit:     3,
					}).
					Return(mkPosts(8, 7, 6), nil)
			},
			wantIDs:  []int64{7, 6},
			wantNext: true,
			wantPrev: true,
		},
		{
			name: "storage error",
			in:   pagination.PageRequest{},
			setup: func(m *MockPostStorage) {
				m.EXPECT().GetPosts(gomock.Any(), gomock.Any()).Return(nil, ErrInternalError)
			},
			wantErr: ErrInternalError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			m := NewMockPostStorage(ctrl)
			tt.setup(m)

			page, err := NewPostService(m).GetPosts(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]int64, 0, len(page.Items))
			for _, p := range page.Items {
				ids = append(ids, p.ID)
			}
			if len(tt.wantIDs) == 0 {
				require.Empty(t, ids)
				require.Nil(t, page.StartCursor)
				require.Nil(t, page.EndCursor)
			} else {
				require.Equal(t, tt.wantIDs, ids)
				require.Equal(t, len(tt.wantIDs), page.Count)

				start, err := pagination.Decode(page.StartCursor)
				require.NoError(t, err)
				require.Equal(t, tt.wantIDs[0], start.ID)

				end, err := pagination.Decode(page.EndCursor)
				require.NoError(t, err)
				require.Equal(t, tt.wantIDs[len(tt.wantIDs)-1], end.ID)
			}
			require.Equal(t, tt.wantNext, page.HasNextPage)
			require.Equal(t, tt.wantPrev, page.HasPreviousPage)
		})
	}
}
