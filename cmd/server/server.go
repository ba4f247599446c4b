package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"healthwatch/internal/admin"
	"healthwatch/internal/alert"
	"healthwatch/internal/auth"
	"healthwatch/internal/config"
	"healthwatch/internal/httpx"
	"healthwatch/internal/models"
	"healthwatch/internal/outbreak"
	"healthwatch/internal/quiz"
	"healthwatch/internal/textgen"
	"healthwatch/pkg/cache"
	"healthwatch/pkg/websocket"
)

type handlers struct {
	auth     *auth.Handler
	alerts   *alert.Handler
	outbreak *outbreak.Handler
	quiz     *quiz.Handler
	admin    *admin.Handler
	hub      *websocket.Hub
	health   http.HandlerFunc
}

func runServer(cfg *config.Config, logger zerolog.Logger) error {
	if cfg.IsDev() && cfg.JWTSecret == "" {
		logger.Warn().Msg("JWT_SECRET is empty; every token will be rejected")
	}

	db, err := openDatabase(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open database")
		return err
	}
	logger.Info().Msg("connected to database")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	redisCache := cache.NewRedisCache(cfg.RedisAddr)
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable; continuing without cache")
	}

	wsHub := websocket.NewHub(logger)
	go wsHub.Run(ctx)

	var completer textgen.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = textgen.NewOpenAIClient(textgen.ClientConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
			Timeout: cfg.TextGenTimeout,
		})
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set; alerts use template copy and diseases get no drafted questions")
	}
	drafter := textgen.NewDrafter(completer, logger)

	// Repositories
	authRepo := auth.NewRepository(db)
	alertRepo := alert.NewRepository(db)
	outbreakRepo := outbreak.NewRepository(db)
	quizRepo := quiz.NewRepository(db)
	adminRepo := admin.NewRepository(db)

	// Services
	authService := auth.NewService(authRepo, logger)
	alertService := alert.NewService(alertRepo, wsHub, logger)
	outbreakService := outbreak.NewService(outbreakRepo, alertService, drafter, redisCache, logger)
	quizService := quiz.NewService(quizRepo, drafter, redisCache, logger)
	adminService := admin.NewService(adminRepo, logger)

	router := newRouter(cfg.JWTSecret, authService, handlers{
		auth:     auth.NewHandler(),
		alerts:   alert.NewHandler(alertService),
		outbreak: outbreak.NewHandler(outbreakService),
		quiz:     quiz.NewHandler(quizService),
		admin:    admin.NewHandler(adminService),
		hub:      wsHub,
		health:   healthHandler(db, redisCache),
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     httpx.Logging(logger)(corsMiddleware.Handler(router)),
		ReadTimeout: 15 * time.Second,
		// Prescription submission can wait on text generation.
		WriteTimeout: cfg.TextGenTimeout + 15*time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func newRouter(jwtSecret string, authService *auth.Service, h handlers) *mux.Router {
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/health", h.health).Methods(http.MethodGet)
	router.HandleFunc("/ws/alerts", h.hub.HandleWebSocket)
	router.HandleFunc("/api/alerts/active", h.alerts.GetActive).Methods(http.MethodGet)
	router.HandleFunc("/api/diseases", h.quiz.ListDiseases).Methods(http.MethodGet)
	router.HandleFunc("/api/diseases/{id:[0-9]+}", h.quiz.GetDisease).Methods(http.MethodGet)
	router.HandleFunc("/api/quiz/{diseaseId:[0-9]+}", h.quiz.GetQuestions).Methods(http.MethodGet)
	router.HandleFunc("/api/leaderboard", h.quiz.GetLeaderboard).Methods(http.MethodGet)

	// Authenticated routes
	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.JWTMiddleware(jwtSecret, authService))

	clinician := auth.RequireRole(models.RoleDoctor, models.RoleAdmin)
	doctor := auth.RequireRole(models.RoleDoctor)
	adminOnly := auth.RequireRole(models.RoleAdmin)

	api.HandleFunc("/auth/user", h.auth.CurrentUser).Methods(http.MethodGet)
	api.HandleFunc("/quiz/answer", h.quiz.SubmitAnswer).Methods(http.MethodPost)
	api.HandleFunc("/progress", h.quiz.GetProgress).Methods(http.MethodGet)

	api.Handle("/prescriptions", clinician(http.HandlerFunc(h.outbreak.SubmitPrescription))).Methods(http.MethodPost)
	api.Handle("/prescriptions/recent", doctor(http.HandlerFunc(h.outbreak.GetRecent))).Methods(http.MethodGet)
	api.Handle("/doctor/stats", doctor(http.HandlerFunc(h.outbreak.GetDoctorStats))).Methods(http.MethodGet)

	api.Handle("/alerts", adminOnly(http.HandlerFunc(h.alerts.Create))).Methods(http.MethodPost)
	api.Handle("/alerts/{id}/deactivate", adminOnly(http.HandlerFunc(h.alerts.Deactivate))).Methods(http.MethodPatch)
	api.Handle("/diseases", adminOnly(http.HandlerFunc(h.quiz.CreateDisease))).Methods(http.MethodPost)
	api.Handle("/admin/stats", adminOnly(http.HandlerFunc(h.admin.GetStats))).Methods(http.MethodGet)
	api.Handle("/admin/alerts", adminOnly(http.HandlerFunc(h.alerts.GetAdminAlerts))).Methods(http.MethodGet)
	api.Handle("/admin/recent-activity", adminOnly(http.HandlerFunc(h.admin.GetRecentActivity))).Methods(http.MethodGet)

	return router
}

// healthHandler reports database reachability; redis is optional.
func healthHandler(db *gorm.DB, redisCache *cache.RedisCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok", "database": "ok", "redis": "ok"}
		code := http.StatusOK

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			status["status"], status["database"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
		if err := redisCache.Ping(r.Context()); err != nil {
			status["redis"] = "unreachable"
		}
		httpx.JSON(w, code, status)
	}
}
