package profile

import (
	"talent-ops/internal/middleware"
	"talent-ops/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	profiles := r.Group("/profiles")
	profiles.Use(middleware.AuthMiddleware())
	{
		profiles.GET("", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetAll)
		profiles.GET("/options", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetOptions)
		profiles.GET("/:id", middleware.RBACAuthorize(rbacService, "profile", "read"), handler.GetById)
		profiles.GET("/:id/balance", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.BalanceSummary)
		profiles.POST("", middleware.RBACAuthorize(rbacService, "profile", "manage"), handler.Create)
		profiles.PUT("/:id", middleware.RBACAuthorize(rbacService, "profile", "manage"), handler.Update)
		profiles.DELETE("/:id", middleware.RBACAuthorize(rbacService, "profile", "manage"), handler.Delete)
	}
}
