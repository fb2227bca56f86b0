package server

import (
	"net/http"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input loginInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.auth.Authenticate(r.Context(), input.Email, input.Password)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	encoded, err := s.cookie.Encode(s.config.CookieName, user.ID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.config.SessionMaxAgeSec,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.config.Environment != "development",
	})

	s.respond(w, http.StatusOK, "logged in", user)
}

func (s *Service) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	s.respond(w, http.StatusOK, "logged out", nil)
}
