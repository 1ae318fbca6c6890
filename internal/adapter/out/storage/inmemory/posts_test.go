package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/pagination"

	"github.com/stretchr/testify/require"
)

func TestPostStorage_CreateAndGetByID(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewDB())

	tests := []struct {
		name   string
		input  model.Post
		wantID int64
	}{
		{
			name:   "first post",
			input:  model.Post{UserID: 1, Title: "t1", Description: "d1"},
			wantID: 1,
		},
		{
			name:   "second post ignores supplied comment ids",
			input:  model.Post{UserID: 2, Title: "t2", Description: "d2", CommentIDs: []int64{9}},
			wantID: 2,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			out, err := st.CreatePost(context.Background(), tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.wantID, out.ID)
			require.Equal(t, tt.input.UserID, out.UserID)
			require.Equal(t, tt.input.Title, out.Title)
			require.Equal(t, tt.input.Description, out.Description)
			require.Empty(t, out.CommentIDs)
			require.WithinDuration(t, time.Now(), out.CreatedAt, time.Second)

			got, err := st.GetPostByID(context.Background(), tt.wantID)
			require.NoError(t, err)
			require.Equal(t, out, got)
		})
	}
}

func TestPostStorage_GetPostByID_NotFound(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewDB())

	for _, id := range []int64{-1, 0, 10} {
		_, err := st.GetPostByID(context.Background(), id)
		require.ErrorIs(t, err, service.ErrNotFound)
	}
}

func TestPostStorage_UpdatePost(t *testing.T) {
	t.Parallel()

	db := NewDB()
	st := NewPostStorage(db)
	cs := NewCommentStorage(db)
	ctx := context.Background()

	_, err := st.UpdatePost(ctx, 1, model.PostFields{Title: "x", Description: "y"})
	require.ErrorIs(t, err, service.ErrNotFound)

	p, err := st.CreatePost(ctx, model.Post{UserID: 7, Title: "sample", Description: "lorem"})
	require.NoError(t, err)
	c, err := cs.AddComment(ctx, p.ID, model.Comment{UserID: 8, Body: "nice post"})
	require.NoError(t, err)

	upd, err := st.UpdatePost(ctx, p.ID, model.PostFields{Title: "edited", Description: "ipsum"})
	require.NoError(t, err)
	require.Equal(t, "edited", upd.Title)
	require.Equal(t, "ipsum", upd.Description)
	require.Equal(t, int64(7), upd.UserID)
	require.Equal(t, []int64{c.ID}, upd.CommentIDs)
	require.Equal(t, p.CreatedAt, upd.CreatedAt)
}

func TestPostStorage_DeletePost_Cascades(t *testing.T) {
	t.Parallel()

	db := NewDB()
	st := NewPostStorage(db)
	cs := NewCommentStorage(db)
	ctx := context.Background()

	p, err := st.CreatePost(ctx, model.Post{UserID: 1, Title: "t", Description: "d"})
	require.NoError(t, err)
	other, err := st.CreatePost(ctx, model.Post{UserID: 1, Title: "o", Description: "d"})
	require.NoError(t, err)

	var ids []int64
	for i := 0; i < 3; i++ {
		c, err := cs.AddComment(ctx, p.ID, model.Comment{UserID: 2, Body: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}
	kept, err := cs.AddComment(ctx, other.ID, model.Comment{UserID: 2, Body: "stays"})
	require.NoError(t, err)

	require.NoError(t, st.DeletePost(ctx, p.ID))

	_, err = st.GetPostByID(ctx, p.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	for _, id := range ids {
		_, err := cs.GetCommentByID(ctx, id)
		require.ErrorIs(t, err, service.ErrNotFound)
	}

	got, err := cs.GetCommentByID(ctx, kept.ID)
	require.NoError(t, err)
	require.Equal(t, "stays", got.Body)

	require.ErrorIs(t, st.DeletePost(ctx, p.ID), service.ErrNotFound)
}

func TestPostStorage_GetPostWithComments(t *testing.T) {
	t.Parallel()

	db := NewDB()
	ps := NewPostStorage(db)
	cs := NewCommentStorage(db)
	us := NewUserStorage(db)
	ctx := context.Background()

	u1, err := us.CreateUser(ctx, model.User{Username: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	u2, err := us.CreateUser(ctx, model.User{Username: "u2", Email: "u2@example.com"})
	require.NoError(t, err)

	p, err := ps.CreatePost(ctx, model.Post{UserID: u1.ID, Title: "sample", Description: "lorem"})
	require.NoError(t, err)
	_, err = cs.AddComment(ctx, p.ID, model.Comment{UserID: u2.ID, Body: "nice post"})
	require.NoError(t, err)
	_, err = cs.AddComment(ctx, p.ID, model.Comment{UserID: u1.ID, Body: "thanks"})
	require.NoError(t, err)

	got, err := ps.GetPostWithComments(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, "u1", got.Author.Username)
	require.Len(t, got.Comments, 2)
	require.Equal(t, "nice post", got.Comments[0].Body)
	require.Equal(t, "u2", got.Comments[0].Author.Username)
	require.Equal(t, "thanks", got.Comments[1].Body)
	require.Equal(t, "u1", got.Comments[1].Author.Username)

	_, err = ps.GetPostWithComments(ctx, 99)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestPostStorage_GetPosts_NewestFirst(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewDB())
	ctx := context.Background()

	got, err := st.GetPosts(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, got)

	for i := 1; i <= 5; i++ {
		_, err := st.CreatePost(ctx, model.Post{UserID: 1, Title: fmt.Sprintf("t%d", i), Description: "d"})
		require.NoError(t, err)
	}
	require.NoError(t, st.DeletePost(ctx, 4))

	got, err = st.GetPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []int64{5, 3, 2}, postIDs(got))
}

func TestPostStorage_GetPostsWithCursor(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewDB())
	ctx := context.Background()
	for i := 1; i <= 6; i++ {
		_, err := st.CreatePost(ctx, model.Post{UserID: 1, Title: fmt.Sprintf("t%d", i), Description: "d"})
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		params  storage.GetPostsParams
		want    []int64
		wantErr bool
	}{
		{
			name:   "after walks to older posts",
			params: storage.GetPostsParams{Cursor: pagination.Cursor{ID: 5}, Direction: storage.DirectionAfter, Limit: 2},
			want:   []int64{4, 3},
		},
		{
			name:   "after near the end",
			params: storage.GetPostsParams{Cursor: pagination.Cursor{ID: 2}, Direction: storage.DirectionAfter, Limit: 5},
			want:   []int64{1},
		},
		{
			name:   "before walks to newer posts, result newest first",
			params: storage.GetPostsParams{Cursor: pagination.Cursor{ID: 2}, Direction: storage.DirectionBefore, Limit: 2},
			want:   []int64{4, 3},
		},
		{
			name:   "before the newest is empty",
			params: storage.GetPostsParams{Cursor: pagination.Cursor{ID: 6}, Direction: storage.DirectionBefore, Limit: 2},
			want:   []int64{},
		},
		{
			name:    "direction unset",
			params:  storage.GetPostsParams{Cursor: pagination.Cursor{ID: 3}, Limit: 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := st.GetPostsWithCursor(ctx, tt.params)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, postIDs(got))
		})
	}
}

func TestPostStorage_GetPostAuthorID(t *testing.T) {
	t.Parallel()

	st := NewPostStorage(NewDB())
	ctx := context.Background()

	_, err := st.GetPostAuthorID(ctx, 1)
	require.ErrorIs(t, err, service.ErrNotFound)

	p, err := st.CreatePost(ctx, model.Post{UserID: 42, Title: "t", Description: "d"})
	require.NoError(t, err)

	got, err := st.GetPostAuthorID(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}

func postIDs(posts []model.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
