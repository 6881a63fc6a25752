package report

import (
	"go-appraise/internal/middleware"
	"go-appraise/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/employees/:employeeId", middleware.RBACAuthorize(rbacService, "report", "read"), handler.EmployeeReport)
		reports.GET("/summary", middleware.RBACAuthorize(rbacService, "report", "read"), handler.OrgSummary)
		reports.GET("/export", middleware.RBACAuthorize(rbacService, "report", "export"), handler.Export)
	}
}
