package review

import (
	"go-appraise/internal/middleware"
	"go-appraise/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware())
	{
		reviews.POST("/start/:instanceId", handler.Start)
		reviews.GET("/:id", handler.Get)
		reviews.POST("/:id/self", handler.SubmitSelf)
		reviews.POST("/:id/supervisor", middleware.RBACAuthorize(rbacService, "review", "approve"), handler.SubmitSupervisor)
		reviews.POST("/:id/decision", middleware.RBACAuthorize(rbacService, "review", "approve"), handler.ManagerDecide)
	}

	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", handler.ListTasks)
		tasks.POST("", handler.AddTask)
	}
}
