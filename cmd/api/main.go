package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"couponhub-backend/config"
	"couponhub-backend/db/migrations"
	"couponhub-backend/internal/delivery/http/middleware"
	v1 "couponhub-backend/internal/delivery/http/v1"
	"couponhub-backend/internal/infrastructure/cache"
	pgrepo "couponhub-backend/internal/repository/pg"
	"couponhub-backend/internal/session"
	"couponhub-backend/internal/usecase"
	"couponhub-backend/pkg/logger"
	"couponhub-backend/pkg/utils"

	"github.com/NYTimes/gziphandler"
	"golang.org/x/time/rate"
)

func main() {
	cfg := config.LoadConfig()
	utils.SetSecret(cfg.JWTSecret)

	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	if err := pgrepo.RunMigrations(cfg.DBUrl, migrations.FS); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pgxPool, err := pgrepo.NewPgxPool(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pgxPool.Close()
	log.Info().Msg("Successfully connected to PostgreSQL")

	// Repositories
	userRepo := pgrepo.NewUserRepository(pgxPool)
	storeRepo := pgrepo.NewStoreRepository(pgxPool)
	couponRepo := pgrepo.NewCouponRepository(pgxPool)
	codeRepo := pgrepo.NewCouponCodeRepository(pgxPool)
	txManager := pgrepo.NewTransactionManager(pgxPool)

	// In-memory cache backs both the store-name lookups and the draft store
	memCache := cache.NewMemoryCache(cfg.StoreCacheTTL, time.Hour)
	draftStore := session.NewDraftStore(memCache, cfg.DraftTTL)

	// Usecases
	authUC := usecase.NewAuthUsecase(userRepo, storeRepo, txManager, cfg.AccessTokenExpiry)
	storeUC := usecase.NewStoreUsecase(storeRepo, memCache, cfg.StoreCacheTTL)
	couponUC := usecase.NewCouponUsecase(couponRepo, draftStore, storeUC, txManager)
	issueUC := usecase.NewIssueUsecase(couponRepo, codeRepo, txManager, cfg.CodeLength, cfg.IssueMaxAttempts)
	redeemUC := usecase.NewRedeemUsecase(couponRepo, codeRepo, txManager)
	codeUC := usecase.NewCodeUsecase(couponRepo, codeRepo, storeUC)

	// Handlers
	authHandler := v1.NewAuthHandler(authUC, cfg)
	couponHandler := v1.NewCouponHandler(couponUC, issueUC)
	codeHandler := v1.NewCodeHandler(codeUC)
	verifyHandler := v1.NewVerifyHandler(redeemUC)

	mux := http.NewServeMux()

	// Auth
	mux.HandleFunc("POST /api/v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/auth/me", middleware.AuthMiddleware(http.HandlerFunc(authHandler.Me)))

	// Coupons (owner, protected)
	mux.Handle("GET /api/v1/coupons", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.List)))
	mux.Handle("POST /api/v1/coupons/draft", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.SaveDraft)))
	mux.Handle("GET /api/v1/coupons/draft", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.GetDraft)))
	mux.Handle("DELETE /api/v1/coupons/draft", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.DiscardDraft)))
	mux.Handle("POST /api/v1/coupons/confirm", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.Confirm)))
	mux.Handle("GET /api/v1/coupons/{id}", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.Detail)))
	mux.Handle("DELETE /api/v1/coupons/{id}", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.Delete)))
	mux.Handle("POST /api/v1/coupons/{id}/issue", middleware.AuthMiddleware(http.HandlerFunc(couponHandler.Issue)))

	// Issued codes (owner, protected)
	mux.Handle("GET /api/v1/codes/{id}", middleware.AuthMiddleware(http.HandlerFunc(codeHandler.Detail)))

	// Customer page (public)
	mux.HandleFunc("GET /api/v1/view/{uuid}", codeHandler.CustomerView)

	// In-store verification (protected)
	mux.Handle("POST /api/v1/verify/qr/{uuid}", middleware.AuthMiddleware(http.HandlerFunc(verifyHandler.VerifyQR)))
	mux.Handle("POST /api/v1/verify/manual/{code}", middleware.AuthMiddleware(http.HandlerFunc(verifyHandler.VerifyManual)))

	// Health Check
	healthHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	}
	mux.HandleFunc("GET /api/v1/health", healthHandler)
	mux.HandleFunc("GET /health", healthHandler) // Support root health check for Load Balancers

	addr := fmt.Sprintf(":%s", cfg.Port)

	rateLimiter := middleware.NewRateLimiter(
		context.Background(),
		rate.Limit(cfg.RateLimitPerSecond),
		cfg.RateLimitBurst,
		time.Minute,   // cleanup period
		3*time.Minute, // client TTL
	)

	// CORS (config injected), request logging, rate limit, gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	log.Info().Msgf("Server starting on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
