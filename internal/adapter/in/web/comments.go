package web

import (
	"errors"
	"fmt"
	"net/http"

	"myblog/internal/service"
)

func (h *Handler) addComment(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", service.ErrInvalidRequest)
	}

	payload, err := service.ParseCommentPayload(r.PostForm)
	if err != nil {
		return err
	}

	_, err = h.comments.AddComment(r.Context(), service.CreateCommentRequest{
		PostID: postID,
		UserID: rc.ActorID(),
		Body:   payload.Body,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return h.postMissing(w, r, rc)
		}
		return err
	}

	rc.Success("Created new comment!")
	return h.redirect(w, r, rc, postURL(postID))
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	postID, err := pathID(r, "id")
	if err != nil {
		return h.postMissing(w, r, rc)
	}
	commentID, err := pathID(r, "commentID")
	if err != nil {
		rc.Error(noticeCommentAbsent)
		return h.redirect(w, r, rc, postURL(postID))
	}

	if err := h.comments.DeleteComment(r.Context(), postID, commentID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			rc.Error(noticeCommentAbsent)
			return h.redirect(w, r, rc, postURL(postID))
		}
		return err
	}

	rc.Success("Successfully deleted a comment!")
	return h.redirect(w, r, rc, postURL(postID))
}
