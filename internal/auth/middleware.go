package auth

import (
	"context"
	"net/http"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/audit"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContextKey 上下文键类型
type ContextKey string

// UserContextKey 用户上下文键
const UserContextKey ContextKey = "user"

// UserContext 当前调用方
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// AuthMiddleware JWT 认证中间件
//
// 校验通过后把调用方邮箱写入 request context，数据库写操作产生的审计记录据此关联管理员。
func AuthMiddleware(jwtService *JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "缺少认证令牌")
			return
		}

		token := ExtractTokenFromBearer(authHeader)
		if token == "" {
			abortUnauthorized(c, "无效的令牌格式")
			return
		}

		p, err := jwtService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			logger.WithContext(c.Request.Context()).Debug("令牌校验失败", zap.Error(err))
			abortUnauthorized(c, "令牌验证失败")
			return
		}

		userCtx := &UserContext{UserID: p.Subject, Email: p.Email, Roles: p.Roles}
		c.Set(string(UserContextKey), userCtx)

		ctx := SetUserContext(c.Request.Context(), userCtx)
		ctx = audit.WithActor(ctx, p.Email)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// GetUserContext 从 Gin Context 获取用户上下文
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	v, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil, false
	}
	userCtx, ok := v.(*UserContext)
	return userCtx, ok
}

// SetUserContext 在标准 context.Context 中设置用户上下文
func SetUserContext(ctx context.Context, userCtx *UserContext) context.Context {
	return context.WithValue(ctx, UserContextKey, userCtx)
}
