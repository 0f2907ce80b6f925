package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/config"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	// ErrTokenRevoked 令牌已被吊销
	ErrTokenRevoked = errors.New("auth: token revoked")
	// ErrMissingEmail 令牌中没有邮箱声明
	ErrMissingEmail = errors.New("auth: token has no email claim")
)

// JWTService 校验调用方的 Bearer 令牌
//
// 令牌由上游网关签发，本服务只校验签名、签发者、受众和有效期，
// 并从配置的声明中取出操作者邮箱。
type JWTService struct {
	secretKey  []byte
	issuer     string
	audience   string
	emailClaim string
	revoked    RevocationList
}

// NewJWTService 创建 JWT 服务，revoked 为 nil 时不做吊销检查
func NewJWTService(cfg config.AuthConfig, revoked RevocationList) *JWTService {
	emailClaim := cfg.EmailClaim
	if emailClaim == "" {
		emailClaim = "email"
	}
	return &JWTService{
		secretKey:  []byte(cfg.SecretKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		emailClaim: emailClaim,
		revoked:    revoked,
	}
}

// Principal 令牌代表的调用方
type Principal struct {
	Subject   string
	Email     string
	Roles     []string
	ExpiresAt time.Time
}

// ValidateToken 验证并解析令牌
func (s *JWTService) ValidateToken(ctx context.Context, tokenString string) (*Principal, error) {
	if s.revoked != nil {
		// Redis 故障时放行，避免所有请求失败
		revoked, err := s.revoked.IsRevoked(ctx, tokenString)
		if err != nil {
			logger.WithContext(ctx).Warn("检查令牌吊销状态失败", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.secretKey, nil
	}, opts...); err != nil {
		return nil, fmt.Errorf("解析令牌失败: %w", err)
	}

	email, _ := claims[s.emailClaim].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}

	p := &Principal{Email: email, Roles: stringList(claims["role"])}
	p.Subject, _ = claims.GetSubject()
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		p.ExpiresAt = exp.Time
	}
	return p, nil
}

// GenerateToken 签发令牌（本地联调与测试用）
func (s *JWTService) GenerateToken(subject, email string, roles []string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        subject,
		s.emailClaim: email,
		"role":       roles,
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"exp":        now.Add(expiry).Unix(),
	}
	if s.issuer != "" {
		claims["iss"] = s.issuer
	}
	if s.audience != "" {
		claims["aud"] = s.audience
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %w", err)
	}
	return token, nil
}

// InvalidateToken 吊销令牌直至其过期
func (s *JWTService) InvalidateToken(ctx context.Context, tokenString string) error {
	if s.revoked == nil {
		return nil
	}
	p, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return err
	}
	ttl := time.Until(p.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, tokenString, ttl)
}

// ExtractTokenFromBearer 从 Authorization 头中提取令牌
func ExtractTokenFromBearer(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// role 声明可能是单个字符串或数组
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return t
	default:
		return nil
	}
}
