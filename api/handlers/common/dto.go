package common

import (
	"errors"
	"net/http"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 校验问题代码
const (
	CodeMissingParameters = "Missing_Parameters"
	CodeBadRequest        = "Bad_Request"
	CodeInvalidEmail      = "InvalidEmail"
	CodeDuplicateEmail    = "DuplicateEmail"
	CodeDuplicateRoleName = "DuplicateRoleName"
)

// PageSizeMessage 分页参数非法时的提示
const PageSizeMessage = "PageIndex and PageSize should be greater than 0"

// ProblemResponse 校验失败时返回的问题详情
type ProblemResponse struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Errors map[string][]string `json:"errors"`
}

// ErrorResponse 统一错误返回结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationProblem 返回 400 校验问题
func ValidationProblem(c *gin.Context, code, description string) {
	c.JSON(http.StatusBadRequest, ProblemResponse{
		Type:   "https://tools.ietf.org/html/rfc9110#section-15.5.1",
		Title:  "One or more validation errors occurred.",
		Status: http.StatusBadRequest,
		Errors: map[string][]string{code: {description}},
	})
}

// NotFound 返回 404，响应体为 JSON 字符串
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, message)
}

// BadRequest 返回 400，响应体为 JSON 字符串
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, message)
}

// InternalError 记录错误并返回 500
func InternalError(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context()).Error("请求处理失败",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// RespondError 把领域错误映射为 HTTP 响应，notFound 为资源不存在时的提示
func RespondError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, identity.ErrRoleNotFound),
		errors.Is(err, identity.ErrClaimNotFound):
		NotFound(c, notFound)
	case errors.Is(err, identity.ErrMissingParameters):
		ValidationProblem(c, CodeMissingParameters, "Please provide the required parameters")
	case errors.Is(err, identity.ErrInvalidEmail):
		ValidationProblem(c, CodeInvalidEmail, "Email is invalid.")
	case errors.Is(err, identity.ErrDuplicateEmail):
		ValidationProblem(c, CodeDuplicateEmail, "Email is already taken.")
	case errors.Is(err, identity.ErrDuplicateRole):
		ValidationProblem(c, CodeDuplicateRoleName, "Role name is already taken.")
	default:
		InternalError(c, err)
	}
}
