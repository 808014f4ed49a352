package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/web/middleware"
)

func (h *Handlers) ViewLogin(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"logged_in":       sess.LoggedIn(),
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	u, err := h.accounts.Authenticate(r.Context(), r.PostFormValue("email"), r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		sess.SetError(auth.ErrInvalidCredentials.Error())
		h.commit(w, r, sess)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("[Web] Login failed: %v", err)
		sess.SetError("could not log in, please try again")
		h.commit(w, r, sess)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.signIn(sess, u)
	h.commit(w, r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	u, err := h.accounts.Register(r.Context(),
		r.PostFormValue("name"),
		r.PostFormValue("email"),
		r.PostFormValue("password"),
	)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, user.ErrInvalidName),
			errors.Is(err, user.ErrInvalidEmail):
			sess.SetError(err.Error())
		default:
			log.Printf("[Web] Signup failed: %v", err)
			sess.SetError("could not create your account, please try again")
		}
		h.commit(w, r, sess)
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	// Signup logs the new account straight in; the cart carries over.
	h.signIn(sess, u)
	sess.SetSuccess("welcome, your account is ready")
	h.commit(w, r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	sess.Logout()
	h.commit(w, r, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) signIn(sess *session.Session, u *user.User) {
	sess.User = &session.UserInfo{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
