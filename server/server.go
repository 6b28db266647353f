package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"wavelib/config"
	"wavelib/core/auth"
	"wavelib/core/bsky"
	"wavelib/core/ocremix"
	"wavelib/db"
	"wavelib/logger"
	"wavelib/repository"
)

// Start wires the whole application together and serves it until SIGINT or
// SIGTERM.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})
	defer logger.Sync()

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	sessions := auth.NewSessionStore(
		db.RedisClient,
		cfg.SessionSecret,
		time.Duration(cfg.SessionMaxAge)*time.Second,
		cfg.Scheme == "https",
	)

	handler := NewAPIHandler(
		repository.NewMySQLSongRepository(),
		repository.NewMySQLAlbumRepository(),
		repository.NewMySQLListenerRepository(),
		repository.NewMySQLElectionRepository(),
		sessions,
		ocremix.NewClient(cfg.OCRemixCatalogURL),
		bsky.NewClient(cfg),
		cfg,
	)

	router := mux.NewRouter()
	router.Use(handler.SessionMiddleware)

	// Public surface: the landing page, the sign-in round trip, and the
	// read-only elections report.
	router.HandleFunc("/", handler.index).Methods(http.MethodGet)
	router.HandleFunc("/sign-in", handler.signIn).Methods(http.MethodGet)
	router.HandleFunc("/authorize", handler.authorize).Methods(http.MethodGet)
	router.HandleFunc("/sign-out", handler.signOut).Methods(http.MethodGet)
	router.HandleFunc("/api/elections", handler.electionsJSON).Methods(http.MethodGet)
	router.HandleFunc("/favicon.svg", handler.favicon).Methods(http.MethodGet)

	// Everything else is staff only.
	staff := handler.RequireStaff
	router.HandleFunc("/assume-member", staff(handler.assumeMember)).Methods(http.MethodGet)
	router.HandleFunc("/bluesky", staff(handler.blueskyPost)).Methods(http.MethodPost)

	router.HandleFunc("/songs", staff(handler.songsIndex)).Methods(http.MethodGet)
	router.HandleFunc("/songs/rows", staff(handler.songsRows)).Methods(http.MethodPost)
	router.HandleFunc("/songs.xlsx", staff(handler.songsXlsx)).Methods(http.MethodPost)
	router.HandleFunc("/songs/{id:[0-9]+}", staff(handler.songDetail)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/edit", staff(handler.songEdit)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/edit", staff(handler.songEditSave)).Methods(http.MethodPost)
	router.HandleFunc("/songs/{id:[0-9]+}/play", staff(handler.songPlay)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/stream", staff(handler.songStream)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/download", staff(handler.songDownload)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/remove", staff(handler.songRemove)).Methods(http.MethodGet)
	router.HandleFunc("/songs/{id:[0-9]+}/remove", staff(handler.songRemoveSave)).Methods(http.MethodPost)

	router.HandleFunc("/albums", staff(handler.albumsIndex)).Methods(http.MethodGet)
	router.HandleFunc("/albums/rows", staff(handler.albumsRows)).Methods(http.MethodPost)

	router.HandleFunc("/listeners", staff(handler.listenersIndex)).Methods(http.MethodGet)
	router.HandleFunc("/listeners/rows", staff(handler.listenersRows)).Methods(http.MethodPost)
	router.HandleFunc("/listeners/{id:[0-9]+}", staff(handler.listenerDetail)).Methods(http.MethodGet)
	router.HandleFunc("/listeners/{id:[0-9]+}/edit", staff(handler.listenerEdit)).Methods(http.MethodGet)
	router.HandleFunc("/listeners/{id:[0-9]+}/edit", staff(handler.listenerEditSave)).Methods(http.MethodPost)

	router.HandleFunc("/get-ocremix", staff(handler.ocremixStart)).Methods(http.MethodGet)
	router.HandleFunc("/get-ocremix/fetch", staff(handler.ocremixFetch)).Methods(http.MethodPost)
	router.HandleFunc("/get-ocremix/target-file", staff(handler.ocremixTargetFile)).Methods(http.MethodPost)
	router.HandleFunc("/get-ocremix/download", staff(handler.ocremixDownload)).Methods(http.MethodPost)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", logger.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", logger.ErrorField(err))
	}
	logger.Info("Server stopped")
}
