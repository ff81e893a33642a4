package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"

	"github.com/turtlethecat2/projectrift/internal/config"
	"github.com/turtlethecat2/projectrift/internal/database"
	"github.com/turtlethecat2/projectrift/internal/handlers"
	"github.com/turtlethecat2/projectrift/internal/middleware"
	"github.com/turtlethecat2/projectrift/internal/models"
	"github.com/turtlethecat2/projectrift/internal/repository"
	"github.com/turtlethecat2/projectrift/internal/service"
)

// Metrics
var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rift_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rift_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// registerMetrics enregistre les métriques Prometheus
func registerMetrics() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
}

// setupDatabase ouvre la connection et exécute les migrations
func setupDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// newIngestService câble le service d'ingestion avec la fenêtre de doublons
func newIngestService(eventRepo repository.EventRepository, ruleRepo repository.RuleRepository) service.IngestService {
	return service.NewIngestService(eventRepo, ruleRepo, config.DuplicateWindow)
}

// newHealthHandler câble le handler de santé sur la connection DB
func newHealthHandler(cfg *config.Config, db *database.DB) *handlers.HealthHandler {
	return handlers.NewHealthHandler(cfg, db)
}

// validateRuleCoverage vérifie au démarrage que chaque type d'événement
// énuméré possède une règle configurée
func validateRuleCoverage(ruleRepo repository.RuleRepository, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := ruleRepo.ValidateCoverage(ctx, models.AllowedEventTypes); err != nil {
		return fmt.Errorf("gamification rule table is incomplete: %w", err)
	}

	logger.WithField("event_types", len(models.AllowedEventTypes)).Info("Gamification rule coverage validated")
	return nil
}

// setupRouter configure le routeur Gin
func setupRouter(
	cfg *config.Config,
	webhookHandler *handlers.WebhookHandler,
	statsHandler *handlers.StatsHandler,
	healthHandler *handlers.HealthHandler,
	adminHandler *handlers.AdminHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware globaux
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())

	// Middleware de métriques
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		status := fmt.Sprintf("%d", c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(duration)
	})

	// Routes de santé et monitoring
	router.GET(cfg.Monitoring.HealthPath, healthHandler.HealthCheck)
	router.GET("/health/ready", healthHandler.Readiness)
	router.GET(cfg.Monitoring.MetricsPath, healthHandler.Metrics)
	router.GET("/status", healthHandler.Status)
	router.GET("/version", healthHandler.Version)

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.RateLimit(cfg.RateLimit))
	{
		// Ingestion webhook (secret partagé)
		webhook := v1.Group("/webhook")
		webhook.Use(middleware.ValidateContentType())
		webhook.Use(middleware.WebhookAuth(cfg.Auth.WebhookSecret))
		{
			webhook.POST("/ingest", webhookHandler.IngestEvent)
		}

		// Statistiques dérivées
		stats := v1.Group("/stats")
		{
			stats.GET("/current", statsHandler.CurrentStats)
			stats.GET("/daily", statsHandler.DailyStats)
		}

		// Maintenance (authentification JWT requise)
		admin := v1.Group("/admin")
		admin.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/events/cleanup", adminHandler.CleanupEvents)
			admin.GET("/rules", adminHandler.ListRules)
		}
	}

	return router
}

// startServer démarre le serveur HTTP
func startServer(lifecycle fx.Lifecycle, router *gin.Engine, cfg *config.Config, db *database.DB, logger *logrus.Logger) {
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.WithFields(logrus.Fields{
				"host": cfg.Server.Host,
				"port": cfg.Server.Port,
				"env":  cfg.Server.Environment,
			}).Info("Rift ingestion service starting...")

			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Rift ingestion service shutting down...")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return db.Close()
		},
	})
}

func main() {
	// Enregistrer les métriques Prometheus
	registerMetrics()

	// Charger la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Configurer le logger
	logger := logrus.StandardLogger()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)
	if cfg.Server.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Créer l'application FX
	app := fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			func() *logrus.Logger { return logger },
			setupDatabase,
			// Repositories
			repository.NewEventRepository,
			repository.NewRuleRepository,
			// Services
			newIngestService,
			service.NewStatsService,
			service.NewRetentionService,
			// Handlers
			handlers.NewWebhookHandler,
			handlers.NewStatsHandler,
			newHealthHandler,
			handlers.NewAdminHandler,
			// Router
			setupRouter,
		),
		fx.Invoke(validateRuleCoverage),
		fx.Invoke(startServer),
	)

	// Démarrer l'application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Attendre l'interruption
	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Fatalf("Failed to stop application: %v", err)
	}
}
