package api

import (
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/auth"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册业务路由，全部需要 Bearer 令牌
func RegisterRoutes(router *gin.Engine, container *AppContainer, handlers *Handlers) {
	authed := router.Group("")
	authed.Use(auth.AuthMiddleware(container.JWTService))

	registerUserRoutes(authed, handlers)
	registerRoleRoutes(authed, handlers)
}

func registerUserRoutes(rg *gin.RouterGroup, h *Handlers) {
	users := rg.Group("/users")
	{
		users.GET("/all", h.Users.GetAllUsers)
		users.GET("", h.Users.GetUser)
		users.GET("/role", h.Users.GetUsersInRole)
		users.POST("", h.Users.RegisterUser)
		users.PUT("", h.Users.UpdateUser)
		users.DELETE("", h.Users.DeleteUser)
		users.POST("/roles", h.Users.AddUserToRoles)
		users.DELETE("/roles", h.Users.RemoveUserFromRoles)
		users.GET("/claims", h.Users.GetUserClaims)
		users.POST("/claims", h.Users.AddUserClaims)
		users.DELETE("/claims", h.Users.RemoveUserClaims)
		users.POST("/search", h.Users.SearchUsers)
		users.POST("/by-ids", h.Users.GetUsersByIDs)
		users.GET("/audit", h.Users.GetUserAuditTrail)
	}
}

func registerRoleRoutes(rg *gin.RouterGroup, h *Handlers) {
	roles := rg.Group("/roles")
	{
		roles.GET("", h.Roles.GetAllRoles)
		roles.POST("", h.Roles.CreateRole)
		roles.PUT("", h.Roles.UpdateRole)
		roles.DELETE("", h.Roles.DeleteRole)
		roles.GET("/claims", h.Roles.GetRoleClaims)
		roles.POST("/claims", h.Roles.AddRoleClaim)
		roles.DELETE("/claims", h.Roles.RemoveRoleClaim)
	}
}
