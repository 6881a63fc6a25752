package middleware

import (
	"net/http"

	"go-appraise/internal/shared/apperror"
	"go-appraise/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ExtractUserID re-asserts the user_id claim as a validated string so
// downstream handlers can read it without a type check.
func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get("user_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, apperror.CodeUnauthorized, "User is not authenticated", nil)
			ctx.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, apperror.CodeUnauthorized, "Invalid user_id format", nil)
			ctx.Abort()
			return
		}

		ctx.Set("user_id_validated", userIDStr)
		ctx.Next()
	}
}
