package http

import (
	"log/slog"
	"net/http"
	"strings"

	"kharcha/internal/auth"
	"kharcha/internal/core"
)

type registerRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

type loginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	verr := &core.ValidationError{}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || len(req.Name) > 100 {
		verr.Messages = append(verr.Messages, "name must be between 1 and 100 characters")
	}
	if !core.ValidMobile(req.Mobile) {
		verr.Messages = append(verr.Messages, "please enter a valid mobile number")
	}
	if len(req.Password) < 8 {
		verr.Messages = append(verr.Messages, "password must be at least 8 characters")
	}
	if len(verr.Messages) > 0 {
		writeError(w, http.StatusBadRequest, "Validation failed", verr.Messages)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := s.users.CreateUser(r.Context(), req.Name, req.Mobile, hash)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := s.tokens.Generate(core.Owner{ID: user.ID, Mobile: user.Mobile})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Name: user.Name, Mobile: user.Mobile},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, found, err := s.users.UserByMobile(r.Context(), req.Mobile)
	if err != nil {
		respondError(w, r, err)
		return
	}
	// Same answer for unknown mobile and wrong password.
	if !found || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		slog.WarnContext(r.Context(), "Login failed", "mobile", req.Mobile)
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := s.tokens.Generate(core.Owner{ID: user.ID, Mobile: user.Mobile})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Name: user.Name, Mobile: user.Mobile},
	})
}
