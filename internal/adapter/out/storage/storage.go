package storage

import (
	"errors"

	"myblog/pkg/pagination"
)

type Direction int

const (
	DirectionUnspecified Direction = iota
	DirectionAfter
	DirectionBefore
)

var (
	ErrDirectionUnset = errors.New("direction must be set")
)

// GetPostsParams selects a page of posts relative to Cursor. Posts are listed
// newest first: DirectionAfter walks towards older posts, DirectionBefore
// towards newer ones.
type GetPostsParams struct {
	Cursor    pagination.Cursor
	Direction Direction
	Limit     int
}
