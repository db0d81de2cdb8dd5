package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"distr/core/apperr"
	"distr/core/catalog"
	"distr/core/media"
	"distr/logger"
)

const maxCoverUploadBytes = 20 << 20 // 20 MiB

type createReleaseRequest struct {
	Name        string `json:"name"`
	ArtistID    int64  `json:"artistId"`
	Genre       string `json:"genre"`
	ReleaseType string `json:"releaseType"`
}

type updateReleaseRequest struct {
	Name        *string    `json:"name"`
	Genre       *string    `json:"genre"`
	ReleaseType *string    `json:"releaseType"`
	Date        *time.Time `json:"date"`
}

// handleCreateRelease creates a draft release.
func (s *Server) handleCreateRelease(w http.ResponseWriter, r *http.Request) {
	var req createReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	release, err := s.releases.CreateDraft(r.Context(), currentUser(r), catalog.CreateReleaseInput{
		Name:        req.Name,
		ArtistID:    req.ArtistID,
		Genre:       req.Genre,
		ReleaseType: req.ReleaseType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, release)
}

// handleGetRelease returns one release, by id or by UPC when the upc query
// parameter is set.
func (s *Server) handleGetRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	release, err := s.releases.GetRelease(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (s *Server) handleListReleases(w http.ResponseWriter, r *http.Request) {
	if state := r.URL.Query().Get("state"); state != "" {
		pageNumber, pageSize := pageParams(r)
		page, err := s.releases.ReleasesByState(r.Context(), state, pageNumber, pageSize)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, page)
		return
	}

	if raw := r.URL.Query().Get("upc"); raw != "" {
		code, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid upc"})
			return
		}
		release, err := s.releases.GetReleaseByUPC(r.Context(), code)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, release)
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.releases.ListReleases(r.Context(), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdateRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	var req updateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	release, err := s.releases.UpdateRelease(r.Context(), currentUser(r), id, catalog.UpdateReleaseInput{
		Name:        req.Name,
		Genre:       req.Genre,
		ReleaseType: req.ReleaseType,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (s *Server) handleDeleteRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	if err := s.releases.DeleteRelease(r.Context(), currentUser(r), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleUploadCover accepts a multipart cover image, stores it and binds the
// object key to the release.
func (s *Server) handleUploadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverUploadBytes)
	if err := r.ParseMultipartForm(maxCoverUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("cover")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "cover file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeError(w, apperr.BusinessRule("cover must be an image, got %q", contentType))
		return
	}

	key := media.CoverKey(id, header.Filename)
	if err := s.store.Put(r.Context(), s.store.CoversBucket, key, file, header.Size, contentType); err != nil {
		writeError(w, err)
		return
	}

	release, err := s.releases.UpdateCover(r.Context(), currentUser(r), id, key)
	if err != nil {
		// The release update failed, do not leave the object orphaned.
		if rmErr := s.store.Remove(r.Context(), s.store.CoversBucket, key); rmErr != nil {
			logger.Warn("failed to remove orphaned cover",
				logger.String("key", key),
				logger.ErrorField(rmErr))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

// handleDownloadCover streams the cover image of a release.
func (s *Server) handleDownloadCover(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	release, err := s.releases.GetRelease(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if release.CoverPath == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "release has no cover"})
		return
	}

	stat, err := s.store.Stat(r.Context(), s.store.CoversBucket, *release.CoverPath)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "cover not found"})
		return
	}

	object, err := s.store.Get(r.Context(), s.store.CoversBucket, *release.CoverPath)
	if err != nil {
		writeError(w, err)
		return
	}
	defer object.Close()

	contentType := stat.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(stat.Size, 10))
	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("failed to stream cover",
			logger.Int64("releaseId", id),
			logger.ErrorField(err))
	}
}

// handleRequestModeration submits a release for review.
func (s *Server) handleRequestModeration(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	release, err := s.releases.RequestModeration(r.Context(), currentUser(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, release)
}

func (s *Server) handleRoyaltiesByRelease(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	pageNumber, pageSize := pageParams(r)
	page, err := s.royalties.RoyaltiesByRelease(r.Context(), id, pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleReleaseRoyaltyTotal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	total, err := s.royalties.TotalByRelease(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"total": total})
}
