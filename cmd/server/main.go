package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/facilityos/backend/internal/application/access"
	facilityapp "github.com/facilityos/backend/internal/application/facility"
	identityapp "github.com/facilityos/backend/internal/application/identity"
	"github.com/facilityos/backend/internal/domain/identity"
	"github.com/facilityos/backend/internal/domain/shared"
	"github.com/facilityos/backend/internal/infrastructure/audit"
	"github.com/facilityos/backend/internal/infrastructure/auth"
	"github.com/facilityos/backend/internal/infrastructure/config"
	"github.com/facilityos/backend/internal/infrastructure/logger"
	"github.com/facilityos/backend/internal/infrastructure/persistence"
	"github.com/facilityos/backend/internal/infrastructure/session"
	"github.com/facilityos/backend/internal/infrastructure/storage"
	"github.com/facilityos/backend/internal/interfaces/http/handler"
	"github.com/facilityos/backend/internal/interfaces/http/middleware"
	"github.com/facilityos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting FacilityOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Identity repositories run on the raw connection: they resolve the
	// principal before the tenant carrier exists. Facility repositories
	// go through the tenant-scoped view.
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	siteRepo := persistence.NewGormSiteRepository(db.Scoped)
	assetRepo := persistence.NewGormAssetRepository(db.Scoped)
	vendorRepo := persistence.NewGormVendorRepository(db.Scoped)
	documentRepo := persistence.NewGormDocumentRepository(db.Scoped)

	if err := ensureAdminRole(context.Background(), roleRepo); err != nil {
		log.Fatal("Failed to ensure admin role", zap.Error(err))
	}

	// Session coordination: Redis when configured, otherwise in-process.
	var (
		locker   session.Locker
		notifier session.Notifier
		throttle session.ActivityThrottle
	)
	if cfg.Redis.Enabled {
		client, err := session.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		locker = session.NewRedisLocker(client)
		notifier = session.NewRedisNotifier(client)
		throttle = session.NewRedisActivityThrottle(client)
		log.Info("Session coordination backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		locker = session.NewInMemoryLocker()
		notifier = session.NewInMemoryNotifier()
		throttle = session.NewInMemoryActivityThrottle()
		log.Warn("Session coordination is in-process; run a single instance")
	}

	// Document payloads live on the local filesystem
	documentStore, err := storage.NewLocalDocumentStorage(cfg.Storage.DocumentsDir)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}

	auditSink := audit.NewLogSink(log)

	sweeper := session.NewSweeper(sessionRepo, session.SweeperConfig{
		Interval:  cfg.Session.SweepInterval,
		Retention: cfg.Session.SweepRetention,
	}, log)
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatal("Failed to start session sweeper", zap.Error(err))
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := sweeper.Stop(stopCtx); err != nil {
			log.Error("Error stopping session sweeper", zap.Error(err))
		}
	}()

	// Application services
	sessionService := identityapp.NewSessionService(
		sessionRepo, userRepo, locker, notifier, throttle, cfg.Session, log)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, sessionService, log)
	tokenService := auth.NewServiceTokenService(cfg.JWT)

	resolver := access.NewResolver()
	siteService := facilityapp.NewSiteService(siteRepo, resolver, auditSink, log)
	assetService := facilityapp.NewAssetService(assetRepo, siteRepo, vendorRepo, resolver, auditSink, log)
	vendorService := facilityapp.NewVendorService(vendorRepo, resolver, log)
	documentService := facilityapp.NewDocumentService(documentRepo, assetRepo, documentStore, resolver, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	siteHandler := handler.NewSiteHandler(siteService)
	assetHandler := handler.NewAssetHandler(assetService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	documentHandler := handler.NewDocumentHandler(documentService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Env)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID(log))
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	if cfg.Tracing.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			Enabled:     true,
		}))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Every API route below requires a principal except login and the
	// system probes. Tenant context follows from the resolved principal.
	r.Use(middleware.Auth(middleware.AuthConfig{
		Sessions:   sessionService,
		Users:      userRepo,
		Tokens:     tokenService,
		CookieName: cfg.Cookie.Name,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}))
	r.Use(middleware.Tenant())

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	facilityRoutes := router.NewDomainGroup("facility", "/facility")
	facilityRoutes.POST("/sites", siteHandler.Create)
	facilityRoutes.GET("/sites", siteHandler.List)
	facilityRoutes.GET("/sites/:id", siteHandler.GetByID)
	facilityRoutes.PUT("/sites/:id", siteHandler.Update)
	facilityRoutes.DELETE("/sites/:id", siteHandler.Delete)
	facilityRoutes.POST("/sites/:id/buildings", siteHandler.AddBuilding)
	facilityRoutes.GET("/sites/:id/buildings", siteHandler.ListBuildings)
	facilityRoutes.POST("/buildings/:id/floors", siteHandler.AddFloor)
	facilityRoutes.GET("/buildings/:id/floors", siteHandler.ListFloors)

	facilityRoutes.POST("/assets", assetHandler.Create)
	facilityRoutes.GET("/assets", assetHandler.List)
	facilityRoutes.GET("/assets/:id", assetHandler.GetByID)
	facilityRoutes.PUT("/assets/:id", assetHandler.Update)
	facilityRoutes.DELETE("/assets/:id", assetHandler.Delete)
	facilityRoutes.POST("/assets/:id/purchase", assetHandler.RecordPurchase)
	facilityRoutes.GET("/assets/:id/documents", documentHandler.ListForAsset)

	facilityRoutes.POST("/vendors", vendorHandler.Create)
	facilityRoutes.GET("/vendors", vendorHandler.List)
	facilityRoutes.GET("/vendors/:id", vendorHandler.GetByID)
	facilityRoutes.POST("/vendors/:id/approve", vendorHandler.Approve)

	facilityRoutes.POST("/documents", documentHandler.Create)
	facilityRoutes.GET("/documents/:id", documentHandler.GetByID)
	facilityRoutes.GET("/documents/:id/download", documentHandler.Download)
	facilityRoutes.DELETE("/documents/:id", documentHandler.Delete)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(authRoutes).
		Register(facilityRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// ensureAdminRole creates the universal-admin role on first start
func ensureAdminRole(ctx context.Context, roles identity.RoleRepository) error {
	_, err := roles.FindByName(ctx, identity.AdminRoleName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	role, err := identity.NewRole(identity.AdminRoleName)
	if err != nil {
		return err
	}
	role.IsSystem = true
	return roles.Save(ctx, role)
}

// healthHandler reports process and database liveness
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.FromContext(c.Request.Context()).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
