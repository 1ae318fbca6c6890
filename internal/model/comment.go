package model

import "time"

type Comment struct {
	ID        int64
	UserID    int64
	Body      string
	CreatedAt time.Time
}

type CommentDetails struct {
	Comment
	Author User
}
