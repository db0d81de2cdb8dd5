package server

import (
	"encoding/json"
	"net/http"

	"distr/core/moderation"
	"distr/logger"
	"distr/model"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type moderateRequest struct {
	ReleaseID int64  `json:"releaseId"`
	State     string `json:"state"`
	Comment   string `json:"comment"`
}

type createModeratorRequest struct {
	Name   string `json:"name"`
	UserID int64  `json:"userId"`
}

// handlePendingReleases returns the moderation queue.
func (s *Server) handlePendingReleases(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := pageParams(r)
	page, err := s.moderation.PendingReleases(r.Context(), currentUser(r), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleModerate applies one moderation decision to a release.
func (s *Server) handleModerate(w http.ResponseWriter, r *http.Request) {
	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.ReleaseID <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "releaseId is required"})
		return
	}

	release, err := s.moderation.Moderate(r.Context(), currentUser(r), req.ReleaseID, moderation.DecisionInput{
		State:   req.State,
		Comment: req.Comment,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// handleModerationHistory returns the audit trail of a release.
func (s *Server) handleModerationHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "releaseId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	records, err := s.moderation.History(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleCreateModerator(w http.ResponseWriter, r *http.Request) {
	var req createModeratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	moderator, err := s.moderation.CreateModerator(r.Context(), currentUser(r), req.Name, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, moderator)
}

// handleModeratorID resolves a user id to its reviewer profile.
func (s *Server) handleModeratorID(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid user id"})
		return
	}
	moderator, err := s.moderation.ModeratorByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moderator)
}

// handleModerationEvents upgrades to websocket and subscribes the caller to
// the moderation event feed. Reviewers only.
func (s *Server) handleModerationEvents(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.Type != model.UserTypeModerator && user.Type != model.UserTypeAdmin {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "not allowed to subscribe to moderation events"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", logger.ErrorField(err))
		return
	}
	s.hub.Serve(conn)
}
