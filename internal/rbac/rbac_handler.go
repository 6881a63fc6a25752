package rbac

import (
	"net/http"

	"go-appraise/internal/shared/apperror"
	"go-appraise/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("rbac.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.handler")
	}
	return &Handler{repo: repo, logger: l}
}

func (h *Handler) ListPermissions(c *gin.Context) {
	perms, err := h.repo.ListPermissions()
	if err != nil {
		h.logger.Error("list permissions failed", zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRolePermissions(c *gin.Context) {
	role := c.Param("role")

	perms, err := h.repo.GetPermissionsByRole(role)
	if err != nil {
		h.logger.Error("get role permissions failed", zap.String("role", role), zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp := make([]PermissionResponse, len(perms))
	for i, p := range perms {
		resp[i] = PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		}
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UpdateRolePermissions(c *gin.Context) {
	role := c.Param("role")

	var req UpdateRolePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		appErr := apperror.MapValidationError(err)
		httpErr := apperror.ToHTTP(appErr)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	if err := h.repo.UpdateRolePermissions(role, req.PermissionIDs); err != nil {
		h.logger.Error("update role permissions failed", zap.String("role", role), zap.Error(err))
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	h.logger.Info("role permissions updated",
		zap.String("role", role),
		zap.Int("permissions", len(req.PermissionIDs)),
	)
	response.Success(c, http.StatusOK, gin.H{"updated": true}, nil)
}
