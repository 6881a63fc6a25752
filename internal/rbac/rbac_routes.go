package rbac

import (
	"go-appraise/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service) {
	rbac := r.Group("/rbac")
	rbac.Use(middleware.AuthMiddleware())
	rbac.Use(middleware.RBACAuthorize(service, "rbac", "manage"))
	{
		rbac.GET("/permissions", handler.ListPermissions)
		rbac.GET("/roles/:role/permissions", handler.GetRolePermissions)
		rbac.PUT("/roles/:role/permissions", handler.UpdateRolePermissions)
	}
}
