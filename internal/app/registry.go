package app

import (
	"database/sql"
	"path/filepath"

	"talent-ops/internal/auth"
	"talent-ops/internal/leave"
	"talent-ops/internal/messaging/kafka"
	"talent-ops/internal/notification"
	"talent-ops/internal/profile"
	"talent-ops/internal/rbac"
	"talent-ops/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	profileRepo := profile.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService)
	profileService := profile.NewService(db, profileRepo, rdb)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	profileHandler := profile.NewHandler(profileService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		profile.RegisterRoutes(api, profileHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
	}

	return nil
}
