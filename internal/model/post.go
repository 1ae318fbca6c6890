package model

import "time"

type Post struct {
	ID          int64
	Title       string
	Description string
	UserID      int64
	// CommentIDs keeps insertion order, which is also display order.
	CommentIDs []int64
	CreatedAt  time.Time
}

// PostFields are the only columns an update may touch.
type PostFields struct {
	Title       string
	Description string
}

// PostDetails is a post with its author and comments resolved.
type PostDetails struct {
	Post
	Author   User
	Comments []CommentDetails
}
