package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"myblog/internal/service"
	"myblog/pkg/pagination"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	h.render(w, r, rc, http.StatusOK, "home", "Home", nil)
	return nil
}

func (h *Handler) listPosts(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	q := r.URL.Query()

	req := pagination.PageRequest{}
	if v := q.Get("after"); v != "" {
		req.AfterCursor = &v
	}
	if v := q.Get("before"); v != "" {
		req.BeforeCursor = &v
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("limit %q: %w", v, service.ErrInvalidRequest)
		}
		req.Limit = limit
	}

	page, err := h.posts.GetPosts(r.Context(), req)
	if err != nil {
		return err
	}

	h.render(w, r, rc, http.StatusOK, "index", "All posts", page)
	return nil
}

func (h *Handler) newPost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	h.render(w, r, rc, http.StatusOK, "new", "New post", nil)
	return nil
}

func (h *Handler) createPost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", service.ErrInvalidRequest)
	}

	payload, err := service.ParsePostPayload(r.PostForm)
	if err != nil {
		return err
	}

	post, err := h.posts.CreatePost(r.Context(), service.CreatePostRequest{
		UserID:      rc.ActorID(),
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		return err
	}

	rc.Success("successfully made a new post")
	return h.redirect(w, r, rc, postURL(post.ID))
}

func (h *Handler) showPost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}

	details, err := h.posts.GetPostWithComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.postMissing(w, r, rc)
		}
		return err
	}

	h.render(w, r, rc, http.StatusOK, "show", details.Title, showPage{
		PostDetails: details,
		CanEdit:     rc.ActorID() == details.UserID,
	})
	return nil
}

func (h *Handler) editPost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}

	post, err := h.posts.GetPostByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.postMissing(w, r, rc)
		}
		return err
	}

	h.render(w, r, rc, http.StatusOK, "edit", "Edit post", post)
	return nil
}

func (h *Handler) updatePost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", service.ErrInvalidRequest)
	}

	payload, err := service.ParsePostPayload(r.PostForm)
	if err != nil {
		return err
	}

	post, err := h.posts.UpdatePost(r.Context(), service.UpdatePostRequest{
		PostID:      postID,
		Title:       payload.Title,
		Description: payload.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.postMissing(w, r, rc)
		}
		return err
	}

	rc.Success("Successfully updated post!")
	return h.redirect(w, r, rc, postURL(post.ID))
}

func (h *Handler) deletePost(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}

	if err := h.posts.DeletePost(r.Context(), postID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.postMissing(w, r, rc)
		}
		return err
	}

	rc.Success("Successfully deleted a post!")
	return h.redirect(w, r, rc, "/posts")
}

func (h *Handler) postMissing(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	rc.Error(noticePostNotFound)
	return h.redirect(w, r, rc, "/posts")
}
