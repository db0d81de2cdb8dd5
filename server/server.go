package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"distr/cache"
	"distr/config"
	"distr/core/account"
	"distr/core/audio"
	"distr/core/auth"
	"distr/core/catalog"
	"distr/core/moderation"
	"distr/core/notify"
	"distr/core/royalty"
	"distr/core/upc"
	"distr/db"
	"distr/logger"
	"distr/model"
	"distr/repository"
	"distr/storage"

	"github.com/gorilla/mux"
)

// Server wires the services behind the HTTP API.
type Server struct {
	cfg    *config.Config
	issuer *auth.TokenIssuer
	users  repository.UserRepository
	store  *storage.Store
	prober *audio.FFProbe
	hub    *notify.Hub

	accounts   *account.Service
	labels     *catalog.LabelService
	artists    *catalog.ArtistService
	releases   *catalog.ReleaseService
	songs      *catalog.SongService
	moderation *moderation.Service
	royalties  *royalty.Service
}

// Start initializes dependencies and runs the HTTP server until a shutdown
// signal arrives.
func Start() {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutputPath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		// The cache layer degrades to no-ops without Redis.
		logger.Warn("redis unavailable, running without cache", logger.ErrorField(err))
	} else {
		defer db.CloseRedis()
	}

	store, err := storage.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.AutoMigrateModels(model.AllModels()...); err != nil {
		logger.Fatal("failed to migrate database schema", logger.ErrorField(err))
	}

	srv := NewServer(cfg, store)
	go srv.hub.Run()
	defer srv.hub.Stop()

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server listening", logger.String("addr", cfg.ServerAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", logger.ErrorField(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", logger.ErrorField(err))
	}
}

// NewServer builds the full service graph over the global DB and Redis
// connections.
func NewServer(cfg *config.Config, store *storage.Store) *Server {
	gormDB := db.GormDB

	userRepo := repository.NewGormUserRepository(gormDB)
	labelRepo := repository.NewGormLabelRepository(gormDB)
	artistRepo := repository.NewGormArtistRepository(gormDB)
	releaseRepo := repository.NewGormReleaseRepository(gormDB)
	songRepo := repository.NewGormSongRepository(gormDB)
	moderationRepo := repository.NewGormModerationRepository(gormDB)
	royaltyRepo := repository.NewGormRoyaltyRepository(gormDB)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	allocator := upc.NewAllocator()
	releaseCache := cache.NewReleaseCache(db.RedisClient)
	hub := notify.NewHub()

	releaseService := catalog.NewReleaseService(
		gormDB, releaseRepo, songRepo, artistRepo, labelRepo, moderationRepo,
		allocator, releaseCache, hub)

	return &Server{
		cfg:    cfg,
		issuer: issuer,
		users:  userRepo,
		store:  store,
		prober: audio.NewFFProbe(cfg.FFprobePath),
		hub:    hub,

		accounts:   account.NewService(userRepo, issuer),
		labels:     catalog.NewLabelService(labelRepo, userRepo, releaseService),
		artists:    catalog.NewArtistService(artistRepo, labelRepo, userRepo, releaseService),
		releases:   releaseService,
		songs:      catalog.NewSongService(songRepo, releaseService, allocator, releaseCache),
		moderation: moderation.NewService(gormDB, releaseRepo, moderationRepo, userRepo, releaseCache, hub),
		royalties:  royalty.NewService(royaltyRepo, releaseRepo, songRepo),
	}
}

// Router assembles all API routes.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(requestLogger)

	api := router.PathPrefix("/api").Subrouter()

	// Authentication.
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.Handle("/auth/register", s.authOptional(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)

	// Users.
	api.Handle("/users", s.authOptional(http.HandlerFunc(s.handleRegister))).Methods(http.MethodPost)
	api.Handle("/users", s.authRequired(http.HandlerFunc(s.handleListUsers))).Methods(http.MethodGet)
	api.Handle("/users/me", s.authRequired(http.HandlerFunc(s.handleCurrentUser))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleGetUser))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleUpdateUser))).Methods(http.MethodPut)
	api.Handle("/users/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleDeleteUser))).Methods(http.MethodDelete)

	// Labels.
	api.Handle("/labels", s.authRequired(http.HandlerFunc(s.handleCreateLabel))).Methods(http.MethodPost)
	api.HandleFunc("/labels", s.handleListLabels).Methods(http.MethodGet)
	api.Handle("/labels/me", s.authRequired(http.HandlerFunc(s.handleCurrentLabel))).Methods(http.MethodGet)
	api.HandleFunc("/labels/{id:[0-9]+}", s.handleGetLabel).Methods(http.MethodGet)
	api.Handle("/labels/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleDeleteLabel))).Methods(http.MethodDelete)
	api.HandleFunc("/labels/{id:[0-9]+}/artists", s.handleArtistsByLabel).Methods(http.MethodGet)
	api.HandleFunc("/labels/{id:[0-9]+}/releases", s.handleReleasesByLabel).Methods(http.MethodGet)
	api.Handle("/labels/{id:[0-9]+}/royalties/total", s.authRequired(http.HandlerFunc(s.handleLabelRoyaltyTotal))).Methods(http.MethodGet)

	// Artists.
	api.Handle("/artists", s.authRequired(http.HandlerFunc(s.handleCreateArtist))).Methods(http.MethodPost)
	api.HandleFunc("/artists", s.handleListArtists).Methods(http.MethodGet)
	api.Handle("/artists/me", s.authRequired(http.HandlerFunc(s.handleCurrentArtist))).Methods(http.MethodGet)
	api.HandleFunc("/artists/{id:[0-9]+}", s.handleGetArtist).Methods(http.MethodGet)
	api.Handle("/artists/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleUpdateArtist))).Methods(http.MethodPut)
	api.Handle("/artists/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleDeleteArtist))).Methods(http.MethodDelete)
	api.HandleFunc("/artists/{id:[0-9]+}/releases", s.handleReleasesByArtist).Methods(http.MethodGet)

	// Releases.
	api.Handle("/releases", s.authRequired(http.HandlerFunc(s.handleCreateRelease))).Methods(http.MethodPost)
	api.HandleFunc("/releases", s.handleListReleases).Methods(http.MethodGet)
	api.HandleFunc("/releases/{id:[0-9]+}", s.handleGetRelease).Methods(http.MethodGet)
	api.Handle("/releases/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleUpdateRelease))).Methods(http.MethodPut)
	api.Handle("/releases/{id:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleDeleteRelease))).Methods(http.MethodDelete)
	api.Handle("/releases/{id:[0-9]+}/cover", s.authRequired(http.HandlerFunc(s.handleUploadCover))).Methods(http.MethodPost)
	api.HandleFunc("/releases/{id:[0-9]+}/cover", s.handleDownloadCover).Methods(http.MethodGet)
	api.Handle("/releases/{id:[0-9]+}/request-moderation", s.authRequired(http.HandlerFunc(s.handleRequestModeration))).Methods(http.MethodPost)
	api.Handle("/releases/{id:[0-9]+}/songs", s.authRequired(http.HandlerFunc(s.handleAddSong))).Methods(http.MethodPost)
	api.HandleFunc("/releases/{id:[0-9]+}/songs", s.handleSongsByRelease).Methods(http.MethodGet)
	api.Handle("/releases/{id:[0-9]+}/royalties", s.authRequired(http.HandlerFunc(s.handleRoyaltiesByRelease))).Methods(http.MethodGet)
	api.Handle("/releases/{id:[0-9]+}/royalties/total", s.authRequired(http.HandlerFunc(s.handleReleaseRoyaltyTotal))).Methods(http.MethodGet)

	// Songs.
	api.HandleFunc("/songs", s.handleListSongs).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id:[0-9]+}", s.handleGetSong).Methods(http.MethodGet)
	api.Handle("/songs/{id:[0-9]+}/file", s.authRequired(http.HandlerFunc(s.handleUploadSongFile))).Methods(http.MethodPost)
	api.HandleFunc("/songs/{id:[0-9]+}/download", s.handleDownloadSongFile).Methods(http.MethodGet)
	api.HandleFunc("/songs/{id:[0-9]+}/play", s.handlePlaySong).Methods(http.MethodPost)

	// Moderation.
	api.Handle("/moderation", s.authRequired(http.HandlerFunc(s.handleModerate))).Methods(http.MethodPost)
	api.Handle("/moderation/pending", s.authRequired(http.HandlerFunc(s.handlePendingReleases))).Methods(http.MethodGet)
	api.Handle("/moderation/history/{releaseId:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleModerationHistory))).Methods(http.MethodGet)
	api.Handle("/moderation/moderators", s.authRequired(http.HandlerFunc(s.handleCreateModerator))).Methods(http.MethodPost)
	api.Handle("/moderation/moderator-id/{userId:[0-9]+}", s.authRequired(http.HandlerFunc(s.handleModeratorID))).Methods(http.MethodGet)
	api.Handle("/moderation/events", s.authRequired(http.HandlerFunc(s.handleModerationEvents))).Methods(http.MethodGet)

	// Royalties.
	api.Handle("/platforms", s.authRequired(http.HandlerFunc(s.handleCreatePlatform))).Methods(http.MethodPost)
	api.Handle("/platforms", s.authRequired(http.HandlerFunc(s.handleListPlatforms))).Methods(http.MethodGet)
	api.Handle("/royalty-reports", s.authRequired(http.HandlerFunc(s.handleCreateReport))).Methods(http.MethodPost)
	api.Handle("/royalty-reports/{id:[0-9]+}/royalties", s.authRequired(http.HandlerFunc(s.handleAddRoyalty))).Methods(http.MethodPost)

	return router
}
