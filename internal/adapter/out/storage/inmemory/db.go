package inmemory

import (
	"slices"
	"sync"

	"myblog/internal/model"
)

// DB holds every entity behind one lock so that operations touching a post
// and its comments are observed by readers either entirely or not at all.
// Slot 0 of each slice is unused; a deleted post leaves a zero value behind.
type DB struct {
	mu sync.RWMutex

	users      []model.User
	byUsername map[string]int64

	posts    []model.Post
	comments []model.Comment
}

func NewDB() *DB {
	return &DB{
		users:      []model.User{{}},
		byUsername: make(map[string]int64),
		posts:      []model.Post{{}},
		comments:   []model.Comment{{}},
	}
}

// post must be called with mu held.
func (db *DB) post(postID int64) (model.Post, bool) {
	if postID <= 0 || int(postID) >= len(db.posts) {
		return model.Post{}, false
	}
	p := db.posts[postID]
	return p, p.ID != 0
}

// comment must be called with mu held.
func (db *DB) comment(commentID int64) (model.Comment, bool) {
	if commentID <= 0 || int(commentID) >= len(db.comments) {
		return model.Comment{}, false
	}
	c := db.comments[commentID]
	return c, c.ID != 0
}

// user must be called with mu held. Unknown ids resolve to a stub carrying
// only the id.
func (db *DB) user(userID int64) model.User {
	if userID <= 0 || int(userID) >= len(db.users) {
		return model.User{ID: userID}
	}
	return db.users[userID]
}

func clonePost(p model.Post) model.Post {
	p.CommentIDs = slices.Clone(p.CommentIDs)
	if p.CommentIDs == nil {
		p.CommentIDs = []int64{}
	}
	return p
}
