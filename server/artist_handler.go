package server

import (
	"encoding/json"
	"net/http"

	"distr/core/catalog"
)

type createArtistRequest struct {
	Name     string `json:"name"`
	RealName string `json:"realName"`
	Country  string `json:"country"`
	LabelID  int64  `json:"labelId"`
}

type updateArtistRequest struct {
	Name     *string `json:"name"`
	RealName *string `json:"realName"`
	Country  *string `json:"country"`
	LabelID  *int64  `json:"labelId"`
}

// handleCreateArtist creates an artist profile owned by the caller.
func (s *Server) handleCreateArtist(w http.ResponseWriter, r *http.Request) {
	var req createArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	artist, err := s.artists.CreateArtist(r.Context(), catalog.CreateArtistInput{
		Name:     req.Name,
		RealName: req.RealName,
		Country:  req.Country,
		LabelID:  req.LabelID,
		UserID:   currentUser(r).ID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, artist)
}

func (s *Server) handleGetArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	artist, err := s.artists.GetArtist(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// handleCurrentArtist returns the artist profile owned by the caller.
func (s *Server) handleCurrentArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.artists.ArtistByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

// handleListArtists returns a page of artists, or all artists from one
// country when the country query parameter is set.
func (s *Server) handleListArtists(w http.ResponseWriter, r *http.Request) {
	if country := r.URL.Query().Get("country"); country != "" {
		artists, err := s.artists.ArtistsByCountry(r.Context(), country)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, artists)
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.artists.ListArtists(r.Context(), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	var req updateArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	artist, err := s.artists.UpdateArtist(r.Context(), currentUser(r), id, catalog.UpdateArtistInput{
		Name:     req.Name,
		RealName: req.RealName,
		Country:  req.Country,
		LabelID:  req.LabelID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}

func (s *Server) handleDeleteArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	if err := s.artists.DeleteArtist(r.Context(), currentUser(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleReleasesByArtist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid artist id"})
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.releases.ReleasesByArtist(r.Context(), id, pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
