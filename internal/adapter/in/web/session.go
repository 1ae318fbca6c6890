package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/logger"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "session"

	userIDKey   = "user_id"
	returnToKey = "return_to"

	flashSuccess = "success"
	flashError   = "error"
)

// RequestContext is the per-request state shared by guards and handlers: the
// actor bound to the session, if any, and the one-shot notices.
type RequestContext struct {
	Actor   *model.User
	session *sessions.Session
}

// NewFilesystemSessionStore keeps session data on disk; the cookie carries
// only the signed session id.
func NewFilesystemSessionStore(dir, secret string, maxAge int) *sessions.FilesystemStore {
	store := sessions.NewFilesystemStore(dir, []byte(secret))
	store.Options = sessionOptions(maxAge)
	return store
}

// NewCookieSessionStore keeps session data in the signed cookie itself.
func NewCookieSessionStore(secret string, maxAge int) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = sessionOptions(maxAge)
	return store
}

func sessionOptions(maxAge int) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) requestContext(r *http.Request) (*RequestContext, error) {
	sess, err := h.sessions.Get(r, sessionName)
	if err != nil {
		logger.FromContext(r.Context()).Warn("discarding unreadable session", "error", err)
	}
	if sess == nil {
		sess = sessions.NewSession(h.sessions, sessionName)
	}
	rc := &RequestContext{session: sess}

	userID, ok := sess.Values[userIDKey].(int64)
	if !ok {
		return rc, nil
	}

	u, err := h.users.GetUserByID(r.Context(), userID)
	switch {
	case errors.Is(err, service.ErrNotFound):
		delete(sess.Values, userIDKey)
		return rc, nil
	case err != nil:
		return rc, fmt.Errorf("load session user: %w", err)
	}

	rc.Actor = &u
	return rc, nil
}

func (rc *RequestContext) ActorID() int64 {
	if rc.Actor == nil {
		return 0
	}
	return rc.Actor.ID
}

func (rc *RequestContext) Success(msg string) {
	rc.session.AddFlash(msg, flashSuccess)
}

func (rc *RequestContext) Error(msg string) {
	rc.session.AddFlash(msg, flashError)
}

// logIn binds u to the session. The server-side id is rotated so a session id
// issued before authentication is never reused after it.
func (rc *RequestContext) logIn(u model.User) {
	rc.session.ID = ""
	rc.session.Values[userIDKey] = u.ID
	rc.Actor = &u
}

func (rc *RequestContext) logOut() {
	delete(rc.session.Values, userIDKey)
	delete(rc.session.Values, returnToKey)
	rc.Actor = nil
}

func (rc *RequestContext) setReturnTo(path string) {
	rc.session.Values[returnToKey] = path
}

// popReturnTo returns the remembered local path, or fallback.
func (rc *RequestContext) popReturnTo(fallback string) string {
	to, _ := rc.session.Values[returnToKey].(string)
	delete(rc.session.Values, returnToKey)
	if !strings.HasPrefix(to, "/") || strings.HasPrefix(to, "//") {
		return fallback
	}
	return to
}

// notices drains the pending flashes. The session must be saved afterwards.
func (rc *RequestContext) notices() (success, failure []string) {
	return flashStrings(rc.session.Flashes(flashSuccess)), flashStrings(rc.session.Flashes(flashError))
}

func (rc *RequestContext) save(w http.ResponseWriter, r *http.Request) error {
	if err := rc.session.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func flashStrings(in []any) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
