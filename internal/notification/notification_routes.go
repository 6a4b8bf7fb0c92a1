package notification

import (
	"talent-ops/internal/middleware"
	"talent-ops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.GetAll)
		notifications.POST("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.MarkRead)
	}
}
