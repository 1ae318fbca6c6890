package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var userColumns = []string{
	tableinfo.UserIDColumn,
	tableinfo.UserUsernameColumn,
	tableinfo.UserEmailColumn,
	tableinfo.UserPasswordHashColumn,
	tableinfo.UserCreatedAtColumn,
}

type UserStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		db:     db,
		getter: getter,
	}
}

func scanUser(row pgx.Row, u *model.User) error {
	return row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	)
}

func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	var out model.User

	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserUsernameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserPasswordHashColumn,
		).
		Values(in.Username, in.Email, in.PasswordHash).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanUser(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if isUniqueViolation(err) {
			return out, service.ErrUsernameTaken
		}
		return out, fmt.Errorf("exec error creating user: %w", err)
	}
	return out, nil
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.getUser(ctx, sq.Eq{tableinfo.UserUsernameColumn: username})
}

func (s *UserStorage) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	var out model.User

	query, args, err := sq.
		Select(userColumns...).
		From(tableinfo.UsersTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := scanUser(tr.QueryRow(ctx, query, args...), &out); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return out, service.ErrNotFound
		}
		return out, fmt.Errorf("exec select user: %w", err)
	}
	return out, nil
}
