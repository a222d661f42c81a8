package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/flowtada/crm/internal/infra/http/middleware"
	"github.com/flowtada/crm/internal/usecase"
)

// AuthHandler implements the portal login/logout gate. Login accepts both a
// JSON body (AJAX, {email,password}) and a classic form post
// ({username,password}); the two shapes must produce equivalent outcomes.
type AuthHandler struct {
	Auth     *usecase.AuthUseCase
	Sessions *middleware.SessionManager
	Pages    *PagesHandler
}

func NewAuthHandler(auth *usecase.AuthUseCase, sessions *middleware.SessionManager, pages *PagesHandler) *AuthHandler {
	return &AuthHandler{Auth: auth, Sessions: sessions, Pages: pages}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /portal/login/.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		h.loginJSON(w, r)
		return
	}
	h.loginForm(w, r)
}

func (h *AuthHandler) loginJSON(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, Response{Status: "error", Message: "Invalid data format"})
		return
	}

	user, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// Always the same body, regardless of which check failed.
		middleware.RecordPortalLogin("failure")
		writeJSON(w, http.StatusOK, Response{Status: "error", Message: usecase.ErrInvalidCredentials.Error()})
		return
	}

	cookie, err := h.Sessions.IssueCookie(user.Email)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Response{Status: "error", Message: genericErrorMessage})
		return
	}

	middleware.RecordPortalLogin("success")
	http.SetCookie(w, cookie)
	writeJSON(w, http.StatusOK, Response{Status: "success", Redirect: "/portal/dashboard/"})
}

func (h *AuthHandler) loginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.RenderLogin(w, "Invalid data format")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := h.Auth.Login(r.Context(), username, password)
	if err != nil {
		middleware.RecordPortalLogin("failure")
		h.Pages.RenderLogin(w, usecase.ErrInvalidCredentials.Error())
		return
	}

	cookie, err := h.Sessions.IssueCookie(user.Email)
	if err != nil {
		h.Pages.RenderLogin(w, genericErrorMessage)
		return
	}

	middleware.RecordPortalLogin("success")
	http.SetCookie(w, cookie)
	http.Redirect(w, r, "/portal/dashboard/", http.StatusSeeOther)
}

// LoginPage handles GET /portal/login/.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil {
		if _, verr := h.Sessions.Verify(cookie.Value); verr == nil {
			http.Redirect(w, r, "/portal/dashboard/", http.StatusSeeOther)
			return
		}
	}
	h.Pages.RenderLogin(w, "")
}

// Logout handles GET/POST /portal/logout/.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.Sessions.ClearCookie())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

// SetPassword handles POST /portal/password/. The session established by the
// one-time token is what authorizes choosing the real password.
func (h *AuthHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	email := middleware.SessionEmail(r.Context())

	var req setPasswordRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, Response{Status: "error", Message: "Invalid data format."})
			return
		}
		req.Password = r.PostFormValue("password")
	}

	if err := h.Auth.SetPassword(r.Context(), email, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{Status: "success", Message: "Password updated successfully!"})
}
