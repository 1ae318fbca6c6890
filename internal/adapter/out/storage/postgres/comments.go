package postgres

import (
	"context"
	"errors"
	"fmt"

	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

type CommentStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
	txm    TxManager
}

func NewCommentStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter, txm TxManager) *CommentStorage {
	return &CommentStorage{
		db:     db,
		getter: getter,
		txm:    txm,
	}
}

// AddComment stores the comment and appends its id to the post's list. The
// list is mutated in place by the database so concurrent appends are never
// lost.
func (s *CommentStorage) AddComment(ctx context.Context, postID int64, in model.Comment) (model.Comment, error) {
	var out model.Comment

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		query, args, err := sq.
			Insert(tableinfo.CommentsTableName).
			Columns(
				tableinfo.CommentBodyColumn,
				tableinfo.CommentUserIDColumn,
			).
			Values(in.Body, in.UserID).
			Suffix(fmt.Sprintf("RETURNING %s, %s, %s, %s",
				tableinfo.CommentIDColumn,
				tableinfo.CommentBodyColumn,
				tableinfo.CommentUserIDColumn,
				tableinfo.CommentCreatedAtColumn,
			)).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		tr := s.getter.DefaultTrOrDB(ctx, s.db)
		if err := tr.QueryRow(ctx, query, args...).Scan(
			&out.ID,
			&out.Body,
			&out.UserID,
			&out.CreatedAt,
		); err != nil {
			return fmt.Errorf("exec error creating comment: %w", err)
		}

		query, args, err = sq.
			Update(tableinfo.PostsTableName).
			Set(tableinfo.PostCommentIDsColumn,
				sq.Expr(fmt.Sprintf("array_append(%s, ?)", tableinfo.PostCommentIDsColumn), out.ID)).
			Where(sq.Eq{tableinfo.PostIDColumn: postID}).
			Suffix("RETURNING " + tableinfo.PostIDColumn).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		var dummy int64
		if err := tr.QueryRow(ctx, query, args...).Scan(&dummy); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return service.ErrNotFound
			}
			return fmt.Errorf("exec append comment id: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return out, nil
}

// DeleteComment detaches the comment from the post and removes it. A comment
// that the post does not reference is reported as not found.
func (s *CommentStorage) DeleteComment(ctx context.Context, postID, commentID int64) error {
	return s.txm.Do(ctx, func(ctx context.Context) error {
		query, args, err := sq.
			Update(tableinfo.PostsTableName).
			Set(tableinfo.PostCommentIDsColumn,
				sq.Expr(fmt.Sprintf("array_remove(%s, ?)", tableinfo.PostCommentIDsColumn), commentID)).
			Where(sq.Eq{tableinfo.PostIDColumn: postID}).
			Where(sq.Expr(fmt.Sprintf("? = ANY(%s)", tableinfo.PostCommentIDsColumn), commentID)).
			Suffix("RETURNING " + tableinfo.PostIDColumn).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		tr := s.getter.DefaultTrOrDB(ctx, s.db)

		var dummy int64
		if err := tr.QueryRow(ctx, query, args...).Scan(&dummy); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return service.ErrNotFound
			}
			return fmt.Errorf("exec remove comment id: %w", err)
		}

		query, args, err = sq.
			Delete(tableinfo.CommentsTableName).
			Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		if _, err := tr.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("exec delete comment: %w", err)
		}
		return nil
	})
}

func (s *CommentStorage) GetCommentByID(ctx context.Context, commentID int64) (model.Comment, error) {
	var out model.Comment

	query, args, err := sq.
		Select(
			tableinfo.CommentIDColumn,
			tableinfo.CommentBodyColumn,
			tableinfo.CommentUserIDColumn,
			tableinfo.CommentCreatedAtColumn,
		).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(
		&out.ID,
		&out.Body,
		&out.UserID,
		&out.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec select comment by id: %w", err)
	}
	return out, nil
}

func (s *CommentStorage) GetCommentAuthorID(ctx context.Context, commentID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.CommentUserIDColumn).
		From(tableinfo.CommentsTableName).
		Where(sq.Eq{tableinfo.CommentIDColumn: commentID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	var authorID int64
	if err := tr.QueryRow(ctx, query, args...).Scan(&authorID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, service.ErrNotFound
		}
		return 0, fmt.Errorf("exec select comment user_id: %w", err)
	}
	return authorID, nil
}
