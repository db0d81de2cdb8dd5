package catalog

import (
	"context"
	"fmt"

	"distr/cache"
	"distr/core/apperr"
	"distr/core/upc"
	"distr/logger"
	"distr/model"
	"distr/repository"
)

// CreateSongInput carries the fields for a new song.
type CreateSongInput struct {
	ReleaseID        int64
	Title            string
	ArtistIDs        []int64
	MusicAuthor      string
	ParentalAdvisory bool
	Metadata         map[string]interface{}
}

// SongService manages songs within releases.
type SongService struct {
	songs    repository.SongRepository
	releases *ReleaseService
	upc      *upc.Allocator
	cache    *cache.ReleaseCache
}

// NewSongService creates a song service.
func NewSongService(songs repository.SongRepository, releases *ReleaseService, allocator *upc.Allocator, releaseCache *cache.ReleaseCache) *SongService {
	return &SongService{songs: songs, releases: releases, upc: allocator, cache: releaseCache}
}

// AddSong attaches a new song to a release. Each song gets its own product
// code at creation; the audio file is bound separately.
func (s *SongService) AddSong(ctx context.Context, actor *model.User, input CreateSongInput) (*model.Song, error) {
	if input.Title == "" {
		return nil, apperr.Validation("song title is required")
	}

	release, err := s.releases.mustGetFresh(ctx, input.ReleaseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.releases.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to add songs to release %d", input.ReleaseID)
	}

	code, err := s.upc.Allocate(ctx, s.songs.ExistsByUPC)
	if err != nil {
		return nil, err
	}

	artistIDs := input.ArtistIDs
	if len(artistIDs) == 0 {
		artistIDs = []int64{release.ArtistID}
	}

	song := &model.Song{
		ReleaseID:        release.ID,
		Title:            input.Title,
		ArtistIDs:        artistIDs,
		MusicAuthor:      input.MusicAuthor,
		ParentalAdvisory: input.ParentalAdvisory,
		SongUPC:          code,
		Metadata:         input.Metadata,
	}
	if err := s.songs.Create(ctx, song); err != nil {
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	logger.Info("song added",
		logger.Int64("songId", song.ID),
		logger.Int64("releaseId", song.ReleaseID))
	return song, nil
}

// GetSong returns a song by id.
func (s *SongService) GetSong(ctx context.Context, id int64) (*model.Song, error) {
	song, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %w", err)
	}
	if song == nil {
		return nil, apperr.NotFound("song %d not found", id)
	}
	return song, nil
}

// SongsByRelease returns all songs of one release in track order.
func (s *SongService) SongsByRelease(ctx context.Context, releaseID int64) ([]*model.Song, error) {
	songs, err := s.songs.ListByRelease(ctx, releaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	return songs, nil
}

// ListSongs returns a page of all songs.
func (s *SongService) ListSongs(ctx context.Context, pageNumber, pageSize int) (model.Page[*model.Song], error) {
	songs, total, err := s.songs.List(ctx, pageNumber, pageSize)
	if err != nil {
		return model.Page[*model.Song]{}, fmt.Errorf("failed to list songs: %w", err)
	}
	return model.NewPage(songs, pageNumber, pageSize, total), nil
}

// BindFile records the audio object key and probed duration for a song. A
// song's file is bound exactly once; re-binding is rejected.
func (s *SongService) BindFile(ctx context.Context, actor *model.User, id int64, objectKey string, durationSeconds int) (*model.Song, error) {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	release, err := s.releases.mustGetFresh(ctx, song.ReleaseID)
	if err != nil {
		return nil, err
	}
	allowed, err := s.releases.canManage(ctx, actor, release)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperr.PermissionDenied("not allowed to upload files for song %d", id)
	}

	if song.PathToFile != nil {
		return nil, apperr.BusinessRule("song %d already has an audio file", id)
	}
	if durationSeconds <= 0 {
		return nil, apperr.Validation("duration must be positive")
	}

	song.PathToFile = &objectKey
	song.DurationSeconds = &durationSeconds
	if err := s.songs.Update(ctx, song); err != nil {
		return nil, fmt.Errorf("failed to update song: %w", err)
	}

	logger.Info("audio file bound",
		logger.Int64("songId", song.ID),
		logger.String("key", objectKey))
	return song, nil
}

// RegisterPlay bumps the play counter. The database column is authoritative;
// the cache counter only feeds dashboards.
func (s *SongService) RegisterPlay(ctx context.Context, id int64) error {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return err
	}
	if err := s.songs.IncrementPlayCount(ctx, song.ID); err != nil {
		return fmt.Errorf("failed to increment play count: %w", err)
	}
	s.cache.IncrementPlayCount(ctx, song.ID)
	return nil
}
