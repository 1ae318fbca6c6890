package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

// TxManager runs fn in a transaction that is carried by the context passed to
// fn. Nested calls join the outer transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func qualified(alias, column string) string {
	return alias + "." + column
}
