package main

import (
	"log"

	"dormhub.io/repairdesk/internal/config"
	"dormhub.io/repairdesk/internal/entity"
	"dormhub.io/repairdesk/internal/server"
	"dormhub.io/repairdesk/pkg/database"
	"dormhub.io/repairdesk/pkg/logger"
	"dormhub.io/repairdesk/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	metrics.Register()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := migrate(db); err != nil {
		zapLogger.Fatal("migration failed", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := seedAdminUser(db, zapLogger); err != nil {
			zapLogger.Fatal("failed to seed admin user", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zapLogger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
	} else {
		zapLogger.Warn("REDIS_URL not set; caching and realtime notifications are disabled")
	}

	srv, err := server.NewServer(cfg, db, redisClient, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to build server", zap.Error(err))
	}

	zapLogger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := srv.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("server exited with error", zap.Error(err))
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.RepairOrder{},
		&entity.OrderImage{},
		&entity.CompletionImage{},
		&entity.Evaluation{},
		&entity.Announcement{},
		&entity.Notification{},
		&entity.Upload{},
	)
}

func seedAdminUser(db *gorm.DB, zapLogger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ?", "admin").
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := entity.User{
		Username:     "admin",
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	zapLogger.Info("admin user seeded", zap.String("username", "admin"))
	return nil
}
