package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/logger"
	"myblog/pkg/pagination"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
)

type PostService interface {
	CreatePost(ctx context.Context, req service.CreatePostRequest) (model.Post, error)
	UpdatePost(ctx context.Context, req service.UpdatePostRequest) (model.Post, error)
	DeletePost(ctx context.Context, postID int64) error
	GetPostByID(ctx context.Context, postID int64) (model.Post, error)
	GetPostWithComments(ctx context.Context, postID int64) (model.PostDetails, error)
	GetPostAuthorID(ctx context.Context, postID int64) (int64, error)
	GetPosts(ctx context.Context, in pagination.PageRequest) (pagination.Page[model.Post], error)
}

type CommentService interface {
	AddComment(ctx context.Context, req service.CreateCommentRequest) (model.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID int64) error
	GetCommentAuthorID(ctx context.Context, commentID int64) (int64, error)
}

type UserService interface {
	Register(ctx context.Context, req service.RegisterRequest) (model.User, error)
	Authenticate(ctx context.Context, username, password string) (model.User, error)
	GetUserByID(ctx context.Context, userID int64) (model.User, error)
}

// Handler serves the HTML interface of the blog.
type Handler struct {
	posts    PostService
	comments CommentService
	users    UserService
	sessions sessions.Store
	views    *views
}

func NewHandler(posts PostService, comments CommentService, users UserService, store sessions.Store) (*Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return &Handler{
		posts:    posts,
		comments: comments,
		users:    users,
		sessions: store,
		views:    v,
	}, nil
}

// handlerFunc is a route body. A returned error is rendered by the error
// page; redirects and renders are done by the body itself.
type handlerFunc func(w http.ResponseWriter, r *http.Request, rc *RequestContext) error

// Routes builds the router wrapped in method override and request logging.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()

	authenticated := RequireAuthenticated()
	postOwner := RequirePostOwner(h.posts)
	commentOwner := RequireCommentOwner(h.comments)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)
	r.Handle("/", h.chain(h.home)).Methods(http.MethodGet)

	r.Handle("/register", h.chain(h.registerForm)).Methods(http.MethodGet)
	r.Handle("/register", h.chain(h.register)).Methods(http.MethodPost)
	r.Handle("/login", h.chain(h.loginForm)).Methods(http.MethodGet)
	r.Handle("/login", h.chain(h.login)).Methods(http.MethodPost)
	r.Handle("/logout", h.chain(h.logout)).Methods(http.MethodGet)

	r.Handle("/posts", h.chain(h.listPosts)).Methods(http.MethodGet)
	r.Handle("/posts", h.chain(h.createPost, authenticated)).Methods(http.MethodPost)
	r.Handle("/posts/new", h.chain(h.newPost, authenticated)).Methods(http.MethodGet)
	r.Handle("/posts/{id}", h.chain(h.showPost)).Methods(http.MethodGet)
	r.Handle("/posts/{id}", h.chain(h.updatePost, authenticated, postOwner)).Methods(http.MethodPut)
	r.Handle("/posts/{id}", h.chain(h.deletePost, authenticated, postOwner)).Methods(http.MethodDelete)
	r.Handle("/posts/{id}/edit", h.chain(h.editPost, authenticated, postOwner)).Methods(http.MethodGet)
	r.Handle("/posts/{id}/comments", h.chain(h.addComment, authenticated)).Methods(http.MethodPost)
	r.Handle("/posts/{id}/comments/{commentID}",
		h.chain(h.deleteComment, authenticated, commentOwner)).Methods(http.MethodDelete)

	notFound := h.chain(func(http.ResponseWriter, *http.Request, *RequestContext) error {
		return &HTTPError{Status: http.StatusNotFound, Message: "Page not found"}
	})
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return withRequestLogger(
		handlers.CustomLoggingHandler(io.Discard,
			handlers.HTTPMethodOverrideHandler(r),
			logRequest,
		),
	)
}

// chain runs the guards in order and then fn. A denial ends the request with
// a redirect; fn never runs.
func (h *Handler) chain(fn handlerFunc, guards ...Guard) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, err := h.requestContext(r)
		if err != nil {
			h.renderError(w, r, rc, err)
			return
		}

		for _, g := range guards {
			if err := g(r, rc); err != nil {
				var d *Denial
				if errors.As(err, &d) {
					h.deny(w, r, rc, d)
					return
				}
				h.renderError(w, r, rc, err)
				return
			}
		}

		if err := fn(w, r, rc); err != nil {
			h.renderError(w, r, rc, err)
		}
	})
}

func (h *Handler) deny(w http.ResponseWriter, r *http.Request, rc *RequestContext, d *Denial) {
	logger.FromContext(r.Context()).Info("request denied", "reason", d.Err, "redirect", d.RedirectTo)

	rc.Error(d.Notice)
	if d.ReturnTo != "" {
		rc.setReturnTo(d.ReturnTo)
	}
	if err := h.redirect(w, r, rc, d.RedirectTo); err != nil {
		h.renderError(w, r, rc, err)
	}
}

// redirect persists the session and answers with 302.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, rc *RequestContext, to string) error {
	if err := rc.save(w, r); err != nil {
		return err
	}
	http.Redirect(w, r, to, http.StatusFound)
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func withRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context()).With(
			"request_id", uuid.NewString(),
			"method", r.Method,
			"path", r.URL.Path,
		)
		next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), log)))
	})
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	logger.FromContext(p.Request.Context()).Info("request completed",
		"effective_method", p.Request.Method,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
	)
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s %q: %w", key, raw, service.ErrNotFound)
	}
	return id, nil
}

func postURL(postID int64) string {
	return "/posts/" + strconv.FormatInt(postID, 10)
}
