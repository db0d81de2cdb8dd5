package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"

	"distr/core/catalog"
	"distr/core/media"
	"distr/logger"
)

const maxSongUploadBytes = 200 << 20 // 200 MiB

type createSongRequest struct {
	Title            string                 `json:"title"`
	ArtistIDs        []int64                `json:"artistIds"`
	MusicAuthor      string                 `json:"musicAuthor"`
	ParentalAdvisory bool                   `json:"parentalAdvisory"`
	Metadata         map[string]interface{} `json:"metadata"`
}

// handleAddSong attaches a new song to a release.
func (s *Server) handleAddSong(w http.ResponseWriter, r *http.Request) {
	releaseID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	var req createSongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	song, err := s.songs.AddSong(r.Context(), currentUser(r), catalog.CreateSongInput{
		ReleaseID:        releaseID,
		Title:            req.Title,
		ArtistIDs:        req.ArtistIDs,
		MusicAuthor:      req.MusicAuthor,
		ParentalAdvisory: req.ParentalAdvisory,
		Metadata:         req.Metadata,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, song)
}

func (s *Server) handleSongsByRelease(w http.ResponseWriter, r *http.Request) {
	releaseID, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid release id"})
		return
	}

	songs, err := s.songs.SongsByRelease(r.Context(), releaseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleGetSong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	song, err := s.songs.GetSong(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := pageParams(r)
	page, err := s.songs.ListSongs(r.Context(), pageNumber, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleUploadSongFile accepts a multipart audio file, probes its duration,
// stores it and binds it to the song. The upload is spooled to a temp file so
// ffprobe can inspect it before anything is committed.
func (s *Server) handleUploadSongFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSongUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "audio file is required"})
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "song-upload-*")
	if err != nil {
		writeError(w, err)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		writeError(w, err)
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, err)
		return
	}

	duration, err := s.prober.Duration(r.Context(), tmpPath)
	if err != nil {
		writeError(w, err)
		return
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		writeError(w, err)
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := media.SongKey(id, header.Filename)
	if err := s.store.Put(r.Context(), s.store.SongsBucket, key, src, header.Size, contentType); err != nil {
		writeError(w, err)
		return
	}

	song, err := s.songs.BindFile(r.Context(), currentUser(r), id, key, duration)
	if err != nil {
		if rmErr := s.store.Remove(r.Context(), s.store.SongsBucket, key); rmErr != nil {
			logger.Warn("failed to remove orphaned audio file",
				logger.String("key", key),
				logger.ErrorField(rmErr))
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, song)
}

// handleDownloadSongFile streams the bound audio file of a song.
func (s *Server) handleDownloadSongFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	song, err := s.songs.GetSong(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if song.PathToFile == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "song has no audio file"})
		return
	}

	stat, err := s.store.Stat(r.Context(), s.store.SongsBucket, *song.PathToFile)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "audio file not found"})
		return
	}

	object, err := s.store.Get(r.Context(), s.store.SongsBucket, *song.PathToFile)
	if err != nil {
		writeError(w, err)
		return
	}
	defer object.Close()

	contentType := stat.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(stat.Size, 10))
	if _, err := io.Copy(w, object); err != nil {
		logger.Warn("failed to stream audio file",
			logger.Int64("songId", id),
			logger.ErrorField(err))
	}
}

// handlePlaySong registers one playback.
func (s *Server) handlePlaySong(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid song id"})
		return
	}

	if err := s.songs.RegisterPlay(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
