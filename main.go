package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio/folio/backend/api/handlers"
	"github.com/folio/folio/backend/api/internal/admin"
	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/internal/content"
	contenthandler "github.com/folio/folio/backend/api/internal/content/handler"
	"github.com/folio/folio/backend/api/internal/database"
	"github.com/folio/folio/backend/api/internal/mail"
	"github.com/folio/folio/backend/api/internal/models"
	"github.com/folio/folio/backend/api/internal/portability"
	"github.com/folio/folio/backend/api/internal/storage"
	"github.com/folio/folio/backend/api/internal/tokens"
	"github.com/folio/folio/backend/api/internal/upload"
	"github.com/folio/folio/backend/api/pkg/logger"
	"github.com/folio/folio/backend/api/pkg/metrics"
	"github.com/folio/folio/backend/api/pkg/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v minio=%v smtp=%v",
		cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "", cfg.SMTP.Host != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping failed (%s:%s): %v; continuing without revocation and shared rate limits",
				cfg.Redis.Host, cfg.Redis.Port, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer rdb.Close()
			logger.Infof("connected to Redis %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var mongoClient *mongo.Client
	repos := database.MemoryRepositories()
	if cfg.MongoDB.URI != "" {
		mongoClient, err = database.ConnectWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("%v", err)
		}
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		repos, err = database.MongoRepositories(ctx, mongoClient.Database(cfg.MongoDB.Database))
		if err != nil {
			logger.Fatalf("prepare collections: %v", err)
		}
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set: content is kept in memory and lost on restart")
	}

	files, err := newStorage(cfg)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	pipeline := upload.NewPipeline(files)

	mailer, err := mail.New(cfg.SMTP)
	if err != nil {
		logger.Fatalf("mail: %v", err)
	}

	revocations := tokens.NewRevocations(rdb)
	auth := middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret, revocations))

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.CORS(cfg.CORS.AllowedOrigins))

	if cfg.MinIO.Endpoint == "" {
		r.Static(cfg.Upload.URLPrefix, cfg.Upload.Dir)
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{}
		ready := true
		check := func(name string, err error) {
			deps[name] = err == nil
			if err != nil {
				ready = false
				logger.Warnf("readiness: %s: %v", name, err)
			}
		}
		rctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if mongoClient != nil {
			check("mongo", mongoClient.Ping(rctx, nil))
		}
		if rdb != nil {
			check("redis", rdb.Ping(rctx).Err())
		}
		check("storage", storage.Ready(rctx, files))

		status, label := http.StatusOK, "ready"
		if !ready {
			status, label = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r, cfg.Server.APIPrefix)

	api := r.Group(cfg.Server.APIPrefix)
	handlers.NewAuthHandler(cfg, admin.NewService(cfg.Admin), revocations).
		Register(api, middleware.RateLimit(cfg.RateLimit, rdb, "login"), auth)
	contenthandler.RegisterContentRoutes(api, contentServices(repos, pipeline), auth)
	handlers.NewUploadHandler(pipeline).Register(api, auth)
	handlers.NewImportExportHandler(portability.ForRepositories(repos)).Register(api, auth)
	handlers.NewMessagesHandler(mailer, cfg.SMTP.Recipient, cfg.Admin.Name).
		Register(api, middleware.RateLimit(cfg.RateLimit, rdb, "messages"))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("listening on %s (api prefix %s)", srv.Addr, cfg.Server.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("shutdown: %v", err)
	}
}

func newStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.MinIO.Endpoint != "" {
		s, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		logger.Infof("storing uploads in MinIO bucket %q", cfg.MinIO.Bucket)
		return s, nil
	}
	logger.Infof("storing uploads under %s", cfg.Upload.Dir)
	return storage.NewLocalStorage(cfg.Upload.Dir, cfg.Upload.URLPrefix), nil
}

func contentServices(r *database.Repositories, files *upload.Pipeline) *contenthandler.Services {
	return &contenthandler.Services{
		About:          content.NewSingleton(r.About, models.DefaultAbout),
		Home:           content.NewSingleton(r.Home, models.DefaultHome),
		Resume:         content.NewSingleton(r.Resume, models.DefaultResume),
		Contact:        content.NewSingleton(r.Contact, models.DefaultContact),
		GeneralDetails: content.NewSingleton(r.GeneralDetails, models.DefaultGeneralDetails),
		Blogs:          content.NewBlogs(r.Blogs, files),
		Portfolio:      content.NewPortfolio(r.Portfolio, files),
		Services:       content.NewServices(r.Services, files),
		Process:        content.NewProcess(r.Process),
	}
}
