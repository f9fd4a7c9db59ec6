package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/yoockh/cvcraft/config"
	"github.com/yoockh/cvcraft/internal/api/handlers"
	"github.com/yoockh/cvcraft/internal/api/middleware"
	"github.com/yoockh/cvcraft/internal/api/routes"
	"github.com/yoockh/cvcraft/internal/cache"
	"github.com/yoockh/cvcraft/internal/export"
	"github.com/yoockh/cvcraft/internal/logger"
	"github.com/yoockh/cvcraft/internal/render"
	mongorepo "github.com/yoockh/cvcraft/internal/repositories/mongo"
	pgrepo "github.com/yoockh/cvcraft/internal/repositories/postgres"
	"github.com/yoockh/cvcraft/internal/services"
	"github.com/yoockh/cvcraft/internal/storage"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()

	app, err := config.LoadApp()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := config.InitPostgres(); err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if err := config.MigratePostgres(); err != nil {
		log.Fatalf("PostgreSQL migrate error: %v", err)
	}
	log.Info("PostgreSQL connected")

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	log.Info("Redis connected")

	// the export log is optional
	var exportRepo mongorepo.ExportRepository
	if os.Getenv("MONGO_URI") != "" {
		if err := config.InitMongo(); err != nil {
			log.Fatalf("MongoDB init error: %v", err)
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("failed to ensure MongoDB indexes")
		}
		db, err := config.MongoDatabase()
		if err != nil {
			log.Fatalf("MongoDB database error: %v", err)
		}
		exportRepo = mongorepo.NewExportRepo(db)
		log.Info("MongoDB connected")
	} else {
		log.Warn("MONGO_URI not set; export history is disabled")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	uploader, err := newUploader(ctx, app)
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	templates, err := render.Builtin()
	if err != nil {
		log.Fatalf("template init error: %v", err)
	}
	rasterizer := export.NewChromedpRasterizer(export.ChromedpOptions{
		ExecPath:    app.ChromePath,
		Concurrency: app.ExportConcurrency,
	})

	resumeSvc := services.NewResumeService(
		pgrepo.NewResumeRepo(config.PostgresDB),
		cache.NewRedisCache(config.RedisClient),
		cache.NewRedisLocker(config.RedisClient),
		app.ResumeCacheTTL,
		log,
	)
	exportSvc := services.NewExportService(resumeSvc, templates, rasterizer, exportRepo, log)
	uploadSvc := services.NewUploadService(pgrepo.NewUploadRepo(config.PostgresDB), uploader)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		Resume: handlers.NewResumeHandler(resumeSvc),
		Export: handlers.NewExportHandler(exportSvc, templates),
		Upload: handlers.NewUploadHandler(uploadSvc),
		WS:     handlers.NewWSHandler(resumeSvc, exportSvc, log, app.WSAllowedOrigins),
	})

	log.WithField("port", app.Port).Info("listening")
	if err := r.Run(":" + app.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func newUploader(ctx context.Context, app config.AppConfig) (storage.Uploader, error) {
	if app.StorageDriver == config.StorageS3 {
		return storage.NewS3Uploader(ctx, storage.S3Config{
			Bucket:        app.S3Bucket,
			Region:        app.S3Region,
			Endpoint:      app.S3Endpoint,
			AccessKey:     app.S3AccessKey,
			SecretKey:     app.S3SecretKey,
			PublicBaseURL: app.S3PublicBaseURL,
		})
	}
	return storage.NewGCSUploader(ctx, app.GCSBucket, app.GCSCredentialsFile)
}
