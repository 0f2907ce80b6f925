package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/audit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewJWTService(testAuthConfig(), nil)

	valid, err := svc.GenerateToken("admin-1", "admin@hra.nhs.uk", []string{"system_administrator"}, time.Hour)
	require.NoError(t, err)

	var actor string
	var userCtx *UserContext
	r := gin.New()
	r.Use(AuthMiddleware(svc))
	r.GET("/users", func(c *gin.Context) {
		actor = audit.ActorFrom(c.Request.Context())
		userCtx, _ = GetUserContext(c)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"缺少令牌", "", http.StatusUnauthorized},
		{"格式错误", "Token abc", http.StatusUnauthorized},
		{"无效令牌", "Bearer abc", http.StatusUnauthorized},
		{"有效令牌", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}

	assert.Equal(t, "admin@hra.nhs.uk", actor)
	require.NotNil(t, userCtx)
	assert.Equal(t, "admin-1", userCtx.UserID)
	assert.Equal(t, []string{"system_administrator"}, userCtx.Roles)
}
