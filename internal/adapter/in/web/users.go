package web

import (
	"errors"
	"fmt"
	"net/http"

	"myblog/internal/model"
	"myblog/internal/service"
)

func (h *Handler) registerForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	h.render(w, r, rc, http.StatusOK, "register", "Register", nil)
	return nil
}

// register creates the account and logs it in. Validation failures and a taken
// username are reported back on the registration form.
func (h *Handler) register(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", service.ErrInvalidRequest)
	}

	req, err := service.ParseRegisterPayload(r.PostForm)
	if err == nil {
		var user model.User
		if user, err = h.users.Register(r.Context(), req); err == nil {
			rc.logIn(user)
			rc.Success("Welcome to Blog!")
			return h.redirect(w, r, rc, "/posts")
		}
	}

	var verr *service.ValidationError
	if !errors.As(err, &verr) && !errors.Is(err, service.ErrUsernameTaken) {
		return err
	}
	rc.Error(err.Error())
	return h.redirect(w, r, rc, "/register")
}

func (h *Handler) loginForm(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	h.render(w, r, rc, http.StatusOK, "login", "Login", nil)
	return nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("parse form: %w", service.ErrInvalidRequest)
	}

	user, err := h.users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			rc.Error("Password or username is incorrect")
			return h.redirect(w, r, rc, "/login")
		}
		return err
	}

	to := rc.popReturnTo("/posts")
	rc.logIn(user)
	rc.Success("Welcome back")
	return h.redirect(w, r, rc, to)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request, rc *RequestContext) error {
	rc.logOut()
	rc.Success("Goodbye")
	return h.redirect(w, r, rc, "/posts")
}
