package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"myblog/internal/service"
)

const (
	noticeSignIn        = "You must be signed in"
	noticeForbidden     = "You do not have permission to do that!"
	noticePostNotFound  = "Cannot find that post!"
	noticeCommentAbsent = "Cannot find that comment!"
)

// Guard decides whether the request may reach the handler body. It returns
// nil to allow, a *Denial to refuse, or any other error when the decision
// itself failed. Guards never mutate entities.
type Guard func(r *http.Request, rc *RequestContext) error

// Denial is a refused request: the notice is shown after redirecting to
// RedirectTo.
type Denial struct {
	Err        error
	Notice     string
	RedirectTo string
	// ReturnTo is remembered so that a later login can resume the request.
	ReturnTo string
}

func (d *Denial) Error() string {
	return fmt.Sprintf("%v: redirect to %s", d.Err, d.RedirectTo)
}

func (d *Denial) Unwrap() error {
	return d.Err
}

type PostAuthorFinder interface {
	GetPostAuthorID(ctx context.Context, postID int64) (int64, error)
}

type CommentAuthorFinder interface {
	GetCommentAuthorID(ctx context.Context, commentID int64) (int64, error)
}

func RequireAuthenticated() Guard {
	return func(r *http.Request, rc *RequestContext) error {
		if rc.Actor != nil {
			return nil
		}
		d := &Denial{
			Err:        service.ErrUnauthenticated,
			Notice:     noticeSignIn,
			RedirectTo: "/login",
		}
		if r.Method == http.MethodGet {
			d.ReturnTo = r.URL.RequestURI()
		}
		return d
	}
}

// RequirePostOwner allows only the author of the post named by {id}. A missing
// post is reported as not found rather than forbidden.
func RequirePostOwner(posts PostAuthorFinder) Guard {
	return func(r *http.Request, rc *RequestContext) error {
		if rc.Actor == nil {
			return RequireAuthenticated()(r, rc)
		}

		postID, err := pathID(r, "id")
		if err != nil {
			return postNotFound(err)
		}

		authorID, err := posts.GetPostAuthorID(r.Context(), postID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return postNotFound(err)
			}
			return fmt.Errorf("load post author: %w", err)
		}

		if authorID != rc.Actor.ID {
			return &Denial{
				Err:        service.ErrForbidden,
				Notice:     noticeForbidden,
				RedirectTo: postURL(postID),
			}
		}
		return nil
	}
}

// RequireCommentOwner allows only the author of the comment named by
// {commentID}; denials lead back to the post {id}.
func RequireCommentOwner(comments CommentAuthorFinder) Guard {
	return func(r *http.Request, rc *RequestContext) error {
		if rc.Actor == nil {
			return RequireAuthenticated()(r, rc)
		}

		postID, err := pathID(r, "id")
		if err != nil {
			return postNotFound(err)
		}

		commentID, err := pathID(r, "commentID")
		if err != nil {
			return commentNotFound(err, postID)
		}

		authorID, err := comments.GetCommentAuthorID(r.Context(), commentID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return commentNotFound(err, postID)
			}
			return fmt.Errorf("load comment author: %w", err)
		}

		if authorID != rc.Actor.ID {
			return &Denial{
				Err:        service.ErrForbidden,
				Notice:     noticeForbidden,
				RedirectTo: postURL(postID),
			}
		}
		return nil
	}
}

func postNotFound(err error) *Denial {
	return &Denial{
		Err:        err,
		Notice:     noticePostNotFound,
		RedirectTo: "/posts",
	}
}

func commentNotFound(err error, postID int64) *Denial {
	return &Denial{
		Err:        err,
		Notice:     noticeCommentAbsent,
		RedirectTo: postURL(postID),
	}
}
