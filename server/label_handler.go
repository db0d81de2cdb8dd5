package server

import (
	"encoding/json"
	"net/http"

	"distr/core/catalog"
)

type createLabelRequest struct {
	Country     string `json:"country"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
}

// handleCreateLabel creates a label profile owned by the caller.
func (s *Server) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	var req createLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	label, err := s.labels.CreateLabel(r.Context(), catalog.CreateLabelInput{
		Country:     req.Country,
		ContactName: req.ContactName,
		Phone:       req.Phone,
		UserID:      currentUser(r).ID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, label)
}

func (s *Server) handleGetLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid label id"})
		return
	}

	label, err := s.labels.GetLabel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

// handleCurrentLabel returns the label profile owned by the caller.
func (s *Server) handleCurrentLabel(w http.ResponseWriter, r *http.Request) {
	label, err := s.labels.LabelByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, label)
}

func (s *Server) handleListLabels(w http.ResponseWriter, r *http.Request) {
	labels, err := s.labels.ListLabels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, labels)
}

func (s *Server) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid label id"})
		return
	}

	if err := s.labels.DeleteLabel(r.Context(), currentUser(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleArtistsByLabel returns a page of artists signed to a label.
func (s *Server) handleArtistsByLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid label id"})
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.artists.ArtistsByLabel(r.Context(), id, pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleReleasesByLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid label id"})
		return
	}

	releases, err := s.releases.ReleasesByLabel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, releases)
}

// handleLabelRoyaltyTotal returns the summed earnings of a label.
func (s *Server) handleLabelRoyaltyTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid label id"})
		return
	}

	total, err := s.royalties.TotalByLabel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"total": total})
}
