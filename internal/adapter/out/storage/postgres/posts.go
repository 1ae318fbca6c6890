package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var postColumns = []string{
	tableinfo.PostIDColumn,
	tableinfo.PostTitleColumn,
	tableinfo.PostDescriptionColumn,
	tableinfo.PostUserIDColumn,
	tableinfo.PostCommentIDsColumn,
	tableinfo.PostCreatedAtColumn,
}

var returningPost = "RETURNING " + strings.Join(postColumns, ", ")

type PostStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
	txm    TxManager
}

func NewPostStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter, txm TxManager) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
		txm:    txm,
	}
}

func scanPost(row pgx.Row, p *model.Post) error {
	return row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.UserID,
		&p.CommentIDs,
		&p.CreatedAt,
	)
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	var out model.Post

	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostTitleColumn,
			tableinfo.PostDescriptionColumn,
			tableinfo.PostUserIDColumn,
		).
		Values(in.Title, in.Description, in.UserID).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		return out, fmt.Errorf("exec error creating post: %w", err)
	}
	return out, nil
}

func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, fields model.PostFields) (model.Post, error) {
	var out model.Post

	query, args, err := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTitleColumn, fields.Title).
		Set(tableinfo.PostDescriptionColumn, fields.Description).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix(returningPost).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec update post: %w", err)
	}
	return out, nil
}

// DeletePost removes the post and the comments it references in a single
// transaction.
func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	return s.txm.Do(ctx, func(ctx context.Context) error {
		query, args, err := sq.
			Delete(tableinfo.PostsTableName).
			Where(sq.Eq{tableinfo.PostIDColumn: postID}).
			Suffix("RETURNING " + tableinfo.PostCommentIDsColumn).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		tr := s.getter.DefaultTrOrDB(ctx, s.db)

		var commentIDs []int64
		if err := tr.QueryRow(ctx, query, args...).Scan(&commentIDs); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return service.ErrNotFound
			}
			return fmt.Errorf("exec delete post: %w", err)
		}
		if len(commentIDs) == 0 {
			return nil
		}

		query, args, err = sq.
			Delete(tableinfo.CommentsTableName).
			Where(sq.Expr(tableinfo.CommentIDColumn+" = ANY(?)", commentIDs)).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		if _, err := tr.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("exec delete post comments: %w", err)
		}
		return nil
	})
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	var out model.Post

	query, args, err := sq.
		Select(postColumns...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanPost(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec select post by id: %w", err)
	}
	return out, nil
}

// GetPostWithComments loads the post, its author and its comments in the
// order they were added.
func (s *PostStorage) GetPostWithComments(ctx context.Context, postID int64) (model.PostDetails, error) {
	var out model.PostDetails

	err := s.txm.Do(ctx, func(ctx context.Context) error {
		query, args, err := sq.
			Select(
				qualified("p", tableinfo.PostIDColumn),
				qualified("p", tableinfo.PostTitleColumn),
				qualified("p", tableinfo.PostDescriptionColumn),
				qualified("p", tableinfo.PostUserIDColumn),
				qualified("p", tableinfo.PostCommentIDsColumn),
				qualified("p", tableinfo.PostCreatedAtColumn),
				qualified("u", tableinfo.UserUsernameColumn),
				qualified("u", tableinfo.UserEmailColumn),
				qualified("u", tableinfo.UserCreatedAtColumn),
			).
			From(tableinfo.PostsTableName + " p").
			Join(fmt.Sprintf("%s u ON u.%s = p.%s",
				tableinfo.UsersTableName, tableinfo.UserIDColumn, tableinfo.PostUserIDColumn)).
			Where(sq.Eq{qualified("p", tableinfo.PostIDColumn): postID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
		}

		tr := s.getter.DefaultTrOrDB(ctx, s.db)

		p := &out.Post
		if err := tr.QueryRow(ctx, query, args...).Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.UserID,
			&p.CommentIDs,
			&p.CreatedAt,
			&out.Author.Username,
			&out.Author.Email,
			&out.Author.CreatedAt,
		); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return service.ErrNotFound
			}
			return fmt.Errorf("exec select post details: %w", err)
		}
		out.Author.ID = p.UserID

		out.Comments, err = s.getCommentDetails(ctx, tr, p.CommentIDs)
		return err
	})
	if err != nil {
		return model.PostDetails{}, err
	}
	return out, nil
}

func (s *PostStorage) getCommentDetails(ctx context.Context, tr trmpgx.Tr, ids []int64) ([]model.CommentDetails, error) {
	out := make([]model.CommentDetails, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := sq.
		Select(
			qualified("c", tableinfo.CommentIDColumn),
			qualified("c", tableinfo.CommentBodyColumn),
			qualified("c", tableinfo.CommentUserIDColumn),
			qualified("c", tableinfo.CommentCreatedAtColumn),
			qualified("u", tableinfo.UserUsernameColumn),
			qualified("u", tableinfo.UserEmailColumn),
			qualified("u", tableinfo.UserCreatedAtColumn),
		).
		From(tableinfo.CommentsTableName + " c").
		Join(fmt.Sprintf("%s u ON u.%s = c.%s",
			tableinfo.UsersTableName, tableinfo.UserIDColumn, tableinfo.CommentUserIDColumn)).
		Where(sq.Expr(qualified("c", tableinfo.CommentIDColumn)+" = ANY(?)", ids)).
		OrderByClause("array_position(?::bigint[], "+qualified("c", tableinfo.CommentIDColumn)+")", ids).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select post comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c model.CommentDetails
		if err := rows.Scan(
			&c.ID,
			&c.Body,
			&c.UserID,
			&c.CreatedAt,
			&c.Author.Username,
			&c.Author.Email,
			&c.Author.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		c.Author.ID = c.UserID
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPosts(ctx context.Context, limit int) ([]model.Post, error) {
	if limit <= 0 {
		limit = service.DefaultPostsLimit
	}
	query, args, err := sq.
		Select(postColumns...).
		From(tableinfo.PostsTableName).
		OrderBy(
			tableinfo.PostCreatedAtColumn+" DESC",
			tableinfo.PostIDColumn+" DESC",
		).
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	return collectPosts(rows, limit)
}

func getPostsQueryBuilder(params storage.GetPostsParams) (sq.SelectBuilder, error) {
	qb := sq.
		Select(postColumns...).
		From(tableinfo.PostsTableName).
		PlaceholderFormat(sq.Dollar)

	keyset := fmt.Sprintf("(%s, %s)", tableinfo.PostCreatedAtColumn, tableinfo.PostIDColumn)

	switch params.Direction {
	case storage.DirectionAfter:
		qb = qb.
			Where(sq.Expr(keyset+" < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)).
			OrderBy(
				tableinfo.PostCreatedAtColumn+" DESC",
				tableinfo.PostIDColumn+" DESC",
			)
	case storage.DirectionBefore:
		qb = qb.
			Where(sq.Expr(keyset+" > (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)).
			OrderBy(
				tableinfo.PostCreatedAtColumn+" ASC",
				tableinfo.PostIDColumn+" ASC",
			)
	default:
		return qb, storage.ErrDirectionUnset
	}

	if params.Limit > 0 {
		qb = qb.Limit(uint64(params.Limit))
	}
	return qb, nil
}

// GetPostsWithCursor returns posts newest first regardless of direction.
func (s *PostStorage) GetPostsWithCursor(ctx context.Context, params storage.GetPostsParams) ([]model.Post, error) {
	if params.Limit <= 0 {
		params.Limit = service.DefaultPostsLimit
	}

	qb, err := getPostsQueryBuilder(params)
	if err != nil {
		return nil, err
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)

	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	out, err := collectPosts(rows, params.Limit)
	if err != nil {
		return nil, err
	}
	if params.Direction == storage.DirectionBefore {
		slices.Reverse(out)
	}
	return out, nil
}

func collectPosts(rows pgx.Rows, capacity int) ([]model.Post, error) {
	out := make([]model.Post, 0, capacity)
	for rows.Next() {
		var p model.Post
		if err := scanPost(rows, &p); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

func (s *PostStorage) GetPostAuthorID(ctx context.Context, postID int64) (int64, error) {
	query, args, err := sq.
		Select(tableinfo.PostUserIDColumn).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
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
		return 0, fmt.Errorf("exec select user_id: %w", err)
	}
	return authorID, nil
}
