package server

import (
	"encoding/json"
	"net/http"

	"distr/core/royalty"
)

type createPlatformRequest struct {
	Name string `json:"name"`
}

type createReportRequest struct {
	ReleaseUPC int64  `json:"releaseUpc"`
	PlatformID int64  `json:"platformId"`
	Period     string `json:"period"`
}

type addRoyaltyRequest struct {
	SongID int64   `json:"songId"`
	Amount float64 `json:"amount"`
}

func (s *Server) handleCreatePlatform(w http.ResponseWriter, r *http.Request) {
	var req createPlatformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	platform, err := s.royalties.CreatePlatform(r.Context(), currentUser(r), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, platform)
}

func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.royalties.ListPlatforms(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, platforms)
}

// handleCreateReport opens a royalty statement.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	report, err := s.royalties.CreateReport(r.Context(), currentUser(r), royalty.CreateReportInput{
		ReleaseUPC: req.ReleaseUPC,
		PlatformID: req.PlatformID,
		Period:     req.Period,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

// handleAddRoyalty appends one royalty line to a report.
func (s *Server) handleAddRoyalty(w http.ResponseWriter, r *http.Request) {
	reportID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid report id"})
		return
	}

	var req addRoyaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	line, err := s.royalties.AddRoyalty(r.Context(), currentUser(r), royalty.AddRoyaltyInput{
		ReportID: reportID,
		SongID:   req.SongID,
		Amount:   req.Amount,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, line)
}
