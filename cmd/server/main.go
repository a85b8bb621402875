package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourorg/roombook/internal/handler"
	"github.com/yourorg/roombook/internal/infrastructure/logger"
	"github.com/yourorg/roombook/internal/infrastructure/redis"
	"github.com/yourorg/roombook/internal/observability/metrics"
	"github.com/yourorg/roombook/internal/observability/tracing"
	"github.com/yourorg/roombook/internal/repository"
	"github.com/yourorg/roombook/internal/security"
	"github.com/yourorg/roombook/internal/security/audit"
	"github.com/yourorg/roombook/internal/security/auth"
	"github.com/yourorg/roombook/internal/security/middleware"
	"github.com/yourorg/roombook/internal/security/ratelimit"
	"github.com/yourorg/roombook/internal/service"
	"github.com/yourorg/roombook/pkg/config"
	"github.com/yourorg/roombook/pkg/database"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting roombook server", slog.String("environment", cfg.Environment))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Initialize tracing (no-op unless OTEL_EXPORTER_OTLP_ENDPOINT is set)
	shutdownTracing, err := tracing.Init(ctx, log, "roombook", cfg.Environment)
	if err != nil {
		log.Error("failed to initialize tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Initialize Redis client
	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	// 5. Initialize Postgres connection pool
	dbCfg := database.DefaultConfig()
	dbCfg.Host = cfg.DBHost
	dbCfg.Port = cfg.DBPort
	dbCfg.User = cfg.DBUser
	dbCfg.Password = cfg.DBPassword
	dbCfg.Database = cfg.DBName
	dbCfg.SSLMode = cfg.DBSSLMode

	pool, err := database.NewConnectionPool(ctx, dbCfg, log)
	if err != nil {
		log.Error("failed to connect to Postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()
	db := pool.GetDB()

	// 6. Initialize repositories
	userRepo := repository.NewPostgresUserRepository(db, log)
	roomRepo := repository.NewPostgresRoomRepository(db, log)
	memberRepo := repository.NewPostgresMemberRepository(db, log)
	bookingRepo := repository.NewPostgresBookingRepository(db, log)

	// 7. Initialize security components
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, "roombook")
	rateLimiter := ratelimit.NewLimiter(cfg.RateLimitPerMinute, time.Minute)
	auditLogger := audit.NewLogger(log)
	authz := security.NewAuthorizationService(log)

	// 8. Initialize services
	roomLocks := redis.NewRoomLock(redisClient, time.Duration(cfg.RoomLockTTLSeconds)*time.Second, log)
	authService := service.NewAuthService(userRepo, tokenManager, time.Duration(cfg.TokenTTLMinutes)*time.Minute, log)
	roomService := service.NewRoomService(roomRepo, memberRepo, userRepo, roomLocks, authz, log)
	bookingService := service.NewBookingService(roomRepo, memberRepo, bookingRepo, roomLocks, authz, log)

	// 9. Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	roomHandler := handler.NewRoomHandler(roomService, log)
	memberHandler := handler.NewMemberHandler(roomService, log)
	bookingHandler := handler.NewBookingHandler(bookingService, log)
	healthHandler := handler.NewHealthHandler(pool, redisClient, log)

	// 10. Setup HTTP routes
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/change-password", authHandler.ChangePassword)

	mux.HandleFunc("GET /api/rooms", roomHandler.List)
	mux.HandleFunc("POST /api/rooms", roomHandler.Create)
	mux.HandleFunc("GET /api/rooms/{id}", roomHandler.Get)
	mux.HandleFunc("PATCH /api/rooms/{id}", roomHandler.Update)
	mux.HandleFunc("DELETE /api/rooms/{id}", roomHandler.Delete)
	mux.HandleFunc("GET /api/me/rooms", roomHandler.ListMine)

	mux.HandleFunc("GET /api/rooms/{id}/members", memberHandler.List)
	mux.HandleFunc("POST /api/rooms/{id}/members", memberHandler.Add)
	mux.HandleFunc("DELETE /api/rooms/{id}/members/{memberId}", memberHandler.Remove)

	mux.HandleFunc("GET /api/rooms/{id}/bookings", bookingHandler.List)
	mux.HandleFunc("POST /api/rooms/{id}/bookings", bookingHandler.Create)
	mux.HandleFunc("PUT /api/rooms/{id}/bookings/{bookingId}", bookingHandler.Update)
	mux.HandleFunc("DELETE /api/rooms/{id}/bookings/{bookingId}", bookingHandler.Delete)

	mux.HandleFunc("GET /healthz", healthHandler.Health)
	mux.HandleFunc("GET /readyz", healthHandler.Ready)
	mux.Handle("/metrics", promhttp.Handler())

	// JWT runs first so the rate limiter and audit log see the claims.
	protected := middleware.JWTMiddleware(tokenManager, log)(
		middleware.RateLimitMiddleware(rateLimiter, log)(
			middleware.AuditMiddleware(auditLogger)(
				middleware.ValidateJSONContentType(log)(mux),
			),
		),
	)

	// CORS middleware honoring configured origins. Preflight requests are
	// answered here, before authentication.
	handlerWithCORS := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(cfg.CORSAllowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else if len(cfg.CORSAllowedOrigins) > 0 {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins[0])
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		protected.ServeHTTP(w, r)
	})

	// Chain: request ID -> metrics -> CORS -> auth -> rate limit -> audit ->
	// content type -> routes
	rootHandler := withRequestID(metrics.HTTPMetricsMiddleware(handlerWithCORS), log)

	// 11. Start HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      otelhttp.NewHandler(rootHandler, "roombook"),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.String("auth", "jwt"),
		slog.Int("rate_limit", cfg.RateLimitPerMinute),
		slog.String("rate_limit_window", "1m"),
	)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.String("error", err.Error()))
		}
	}()

	<-sigChan
	log.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown error", slog.String("error", err.Error()))
	}

	rateLimiter.Stop()
	log.Info("server stopped")
}

type requestIDKey struct{}

// withRequestID attaches a request ID to the context and response headers for traceability
func withRequestID(next http.Handler, log *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := generateRequestID()
		w.Header().Set("X-Request-ID", reqID)

		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		start := time.Now()

		next.ServeHTTP(w, r.WithContext(ctx))

		log.Info("request completed",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration_ms", time.Since(start)),
		)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func generateRequestID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err == nil {
		return hex.EncodeToString(buf)
	}
	return fmt.Sprintf("req-%d", time.Now().UnixNano())
}
