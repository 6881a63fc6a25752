package evaluation

import (
	"go-appraise/internal/middleware"
	"go-appraise/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	evaluations := r.Group("/evaluations")
	evaluations.Use(middleware.AuthMiddleware())
	{
		evaluations.GET("", middleware.RBACAuthorize(rbacService, "evaluation", "read"), handler.GetAll)
		evaluations.GET("/:id", middleware.RBACAuthorize(rbacService, "evaluation", "read"), handler.GetById)
		evaluations.POST("", middleware.RBACAuthorize(rbacService, "evaluation", "manage"), handler.Create)
		evaluations.PUT("/:id", middleware.RBACAuthorize(rbacService, "evaluation", "manage"), handler.Update)
		evaluations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "evaluation", "manage"), handler.Delete)
		evaluations.POST("/:id/materialize",
			middleware.RBACAuthorize(rbacService, "evaluation", "manage"),
			middleware.Idempotency(rdb),
			handler.Materialize,
		)
	}

	instances := r.Group("/instances")
	instances.Use(middleware.AuthMiddleware())
	{
		instances.GET("", handler.ListInstances)
		instances.POST("/overdue-scan", middleware.RBACAuthorize(rbacService, "evaluation", "manage"), handler.OverdueScan)
	}
}
