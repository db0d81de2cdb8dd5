package server

import (
	"encoding/json"
	"net/http"

	"distr/core/account"
)

type updateUserRequest struct {
	Login    *string `json:"login"`
	Password *string `json:"password"`
	Type     *string `json:"type"`
}

// handleCurrentUser returns the authenticated account.
func (s *Server) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentUser(r))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	user, err := s.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleListUsers returns a page of users. The login query parameter looks up
// a single account; the type parameter filters by role.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if login := r.URL.Query().Get("login"); login != "" {
		user, err := s.accounts.GetUserByLogin(r.Context(), login)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
		return
	}
	if typeName := r.URL.Query().Get("type"); typeName != "" {
		users, err := s.accounts.UsersByType(r.Context(), typeName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.accounts.ListUsers(r.Context(), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := s.accounts.UpdateUser(r.Context(), currentUser(r), id, account.UpdateUserInput{
		Login:    req.Login,
		Password: req.Password,
		Type:     req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}

	if err := s.accounts.DeleteUser(r.Context(), currentUser(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
