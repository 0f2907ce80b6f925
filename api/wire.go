package api

import (
	roleHandlers "github.com/HealthResearchAuthority/rsp-usermanagement-service/api/handlers/roles"
	userHandlers "github.com/HealthResearchAuthority/rsp-usermanagement-service/api/handlers/users"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/audit"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/auth"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/config"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AppContainer 服务依赖
type AppContainer struct {
	DB          *gorm.DB
	JWTService  *auth.JWTService
	UserService *identity.UserService
	RoleService *identity.RoleService
	AuditStore  *audit.Store
}

// Handlers HTTP 处理器集合
type Handlers struct {
	Users *userHandlers.Handler
	Roles *roleHandlers.Handler
}

// NewAppContainer 组装服务，redisClient 为 nil 时不启用令牌吊销
func NewAppContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *AppContainer {
	var revoked auth.RevocationList
	if redisClient != nil {
		revoked = auth.NewRedisRevocationList(redisClient)
	}

	return &AppContainer{
		DB:          db,
		JWTService:  auth.NewJWTService(cfg.Auth, revoked),
		UserService: identity.NewUserService(db),
		RoleService: identity.NewRoleService(db),
		AuditStore:  audit.NewStore(db),
	}
}

// NewHandlers 创建处理器
func NewHandlers(c *AppContainer) *Handlers {
	return &Handlers{
		Users: userHandlers.NewHandler(c.UserService, c.AuditStore),
		Roles: roleHandlers.NewHandler(c.RoleService),
	}
}
