package server

import (
	"net/http"

	"max.ks1230/expenses-tracker/internal/model/customerr"
	"max.ks1230/expenses-tracker/internal/model/users"
)

type registrationRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (s *Server) toRegistration(req registrationRequest) users.Registration {
	return users.Registration{
		Username:  s.sanitize.Sanitize(req.Username),
		Password:  req.Password,
		FirstName: s.sanitize.Sanitize(req.FirstName),
		LastName:  s.sanitize.Sanitize(req.LastName),
		Email:     s.sanitize.Sanitize(req.Email),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type clientResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleAPIRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}

	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	created, err := s.users.Register(r.Context(), s.toRegistration(req))
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, clientResponse{
		ID:        created.ID,
		FirstName: created.FirstName,
		LastName:  created.LastName,
		Email:     created.Email,
	})
}

func (s *Server) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	_, c, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := s.auth.GenerateToken(c.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: token})
}

func (s *Server) handleShowRegistrationForm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{
		"userFound": r.URL.Query().Has("userFound"),
	})
}

// handleProcessRegistration is the form flow twin of handleAPIRegister.
// A taken username bounces back to the registration form with the
// userFound flag, the way the form flow reports it.
func (s *Server) handleProcessRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}

	var req registrationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	_, err := s.users.Register(r.Context(), s.toRegistration(req))
	if customerr.IsValidation(err) {
		http.Redirect(w, r, "/showRegistrationForm?userFound", http.StatusFound)
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	http.Redirect(w, r, "/showLoginPage?registered", http.StatusFound)
}

func (s *Server) handleShowLoginPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondMethodNotAllowed(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{
		"registered": r.URL.Query().Has("registered"),
	})
}

func (s *Server) handleAuthenticateTheUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondMethodNotAllowed(w)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	_, c, err := s.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := s.sessions.Create(c.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		s.sessions.Delete(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/showLoginPage", http.StatusFound)
}
