package app

import (
	"database/sql"

	"go-appraise/internal/directory"
	"go-appraise/internal/evaluation"
	"go-appraise/internal/messaging/kafka"
	"go-appraise/internal/notification"
	"go-appraise/internal/rbac"
	"go-appraise/internal/rbac/infra"
	"go-appraise/internal/report"
	"go-appraise/internal/review"

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
	dir := directory.NewRepository(gormDB)
	evaluationRepo := evaluation.NewRepository(gormDB)
	reviewRepo := review.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	notifier := notification.NewOutboxNotifier(outboxRepo)
	evaluationService := evaluation.NewService(db, evaluationRepo, dir)
	reviewService := review.NewService(db, reviewRepo, dir, notifier)
	reportService := report.NewService(reportRepo, rdb)

	// --- Handlers ---
	evaluationHandler := evaluation.NewHandler(evaluationService)
	reviewHandler := review.NewHandler(reviewService)
	reportHandler := report.NewHandler(reportService)
	rbacHandler := rbac.NewHandler(rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		evaluation.RegisterRoutes(api, evaluationHandler, rbacService, rdb)
		review.RegisterRoutes(api, reviewHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
