package server

import (
	"encoding/json"
	"net/http"

	"distr/core/account"
	"distr/model"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// handleLogin authenticates credentials and issues a token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAuthError(w, "invalid request body")
		return
	}

	user, token, err := s.accounts.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeAuthError(w, "invalid login or password")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

// handleRegister creates an account. Anonymous callers can register artist
// and label accounts; staff roles require a privileged token.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.accounts.CreateUser(r.Context(), currentUser(r), account.CreateUserInput{
		Login:    req.Login,
		Password: req.Password,
		Type:     req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}
