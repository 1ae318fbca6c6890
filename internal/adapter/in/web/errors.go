package web

import (
	"errors"
	"net/http"

	"myblog/internal/service"
	"myblog/pkg/logger"
)

const defaultErrorMessage = "Something went wrong"

// HTTPError is an error with an explicit status and user-facing message.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// translate maps err to a status and a message that is safe to render.
func translate(err error) (int, string) {
	var (
		verr    *service.ValidationError
		httpErr *HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return verr.Status(), verr.Error()
	case errors.As(err, &httpErr):
		status, msg := httpErr.Status, httpErr.Message
		if status == 0 {
			status = http.StatusInternalServerError
		}
		if msg == "" {
			msg = defaultErrorMessage
		}
		return status, msg
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Page not found"
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, "Invalid request"
	default:
		return http.StatusInternalServerError, defaultErrorMessage
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, rc *RequestContext, err error) {
	status, msg := translate(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
	} else {
		log.Info("request rejected", "status", status, "error", err)
	}

	h.render(w, r, rc, status, "error", msg, errorPage{Status: status, Message: msg})
}
