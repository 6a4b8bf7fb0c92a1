package leave

import (
	"talent-ops/internal/middleware"
	"talent-ops/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), middleware.Idempotency(rdb), handler.Submit)
		leaves.POST("/:id/decision", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Decide)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Delete)
	}
}
