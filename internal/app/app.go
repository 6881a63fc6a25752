package app

import (
	"log"
	"os"

	"go-appraise/internal/middleware"
	"go-appraise/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func BuildApp(router *gin.Engine) error {
	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	log.Println("✅ Database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	log.Println("✅ Redis connection established")

	router.Use(middleware.RequestID())
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// Register Modules & Routes
	return registerModules(router, sqlDB, gormDB, redisClient)
}
