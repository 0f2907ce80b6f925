package users

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	response "github.com/HealthResearchAuthority/rsp-usermanagement-service/api/handlers/common"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/audit"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"

	"github.com/gin-gonic/gin"
)

// Handler 用户接口
type Handler struct {
	users *identity.UserService
	trail *audit.Store
}

// NewHandler 创建用户接口
func NewHandler(users *identity.UserService, trail *audit.Store) *Handler {
	return &Handler{users: users, trail: trail}
}

// bindPage 解析分页参数，非法时已写入 400
func bindPage(c *gin.Context) (types.PageRequest, bool) {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil || !page.Valid() {
		response.BadRequest(c, response.PageSizeMessage)
		return page, false
	}
	return page, true
}

// idOrEmail 读取 id / email 查询参数，两者都缺时已写入 400
func idOrEmail(c *gin.Context) (string, string, bool) {
	id, hasID := c.GetQuery("id")
	email, hasEmail := c.GetQuery("email")
	if !hasID && !hasEmail {
		response.ValidationProblem(c, response.CodeMissingParameters, "Please provide id or email to search for the user")
		return "", "", false
	}
	return id, email, true
}

// bindOptionalJSON 请求体为空时保持零值
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}

// GetAllUsers 分页列出用户
// @Summary Get users
// @Description Gets all users, optionally filtered by the search body
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param pageIndex query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(10)
// @Param sortField query string false "排序字段" default(givenName)
// @Param sortDirection query string false "排序方向" default(desc)
// @Param request body SearchRequest false "过滤条件"
// @Success 200 {object} AllUsersResponse
// @Failure 400 {string} string
// @Router /users/all [get]
func (h *Handler) GetAllUsers(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "Invalid search request: "+err.Error())
		return
	}

	filter := identity.UserFilter{
		SearchQuery:   req.SearchQuery,
		Country:       req.Country,
		Status:        req.Status,
		FromDate:      req.FromDate,
		ToDate:        req.ToDate,
		SortField:     c.DefaultQuery("sortField", "givenName"),
		SortDirection: c.DefaultQuery("sortDirection", "desc"),
	}

	users, total, err := h.users.List(c.Request.Context(), filter, page)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, AllUsersResponse{Users: toDTOs(users), TotalCount: total})
}

// GetUser 按 id 或邮箱获取用户
// @Summary Get user
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id query string false "用户 ID"
// @Param email query string false "邮箱"
// @Success 200 {object} UserResponse
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /users [get]
func (h *Handler) GetUser(c *gin.Context) {
	id, email, ok := idOrEmail(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.Find(ctx, id, email)
	if err != nil {
		response.RespondError(c, err, identity.NotFoundMessage(id, email))
		return
	}

	roles, err := h.users.RolesOf(ctx, u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	claims, err := h.users.Claims(ctx, u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	accessRequired := []string{}
	for _, cl := range claims {
		if cl.Type == identity.AccessRequiredClaim {
			accessRequired = append(accessRequired, cl.Value)
		}
	}
	if roles == nil {
		roles = []string{}
	}

	c.JSON(http.StatusOK, UserResponse{User: toDTO(*u), Roles: roles, AccessRequired: accessRequired})
}

// GetUsersInRole 列出角色内的用户
// @Summary Get users in a role
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param roleName query string true "角色名"
// @Success 200 {object} AllUsersResponse
// @Failure 404 {string} string
// @Router /users/role [get]
func (h *Handler) GetUsersInRole(c *gin.Context) {
	roleName := c.Query("roleName")
	ctx := c.Request.Context()

	users, err := h.users.ListInRole(ctx, roleName)
	if err != nil {
		response.RespondError(c, err, fmt.Sprintf("No users were found in %s role", roleName))
		return
	}
	// totalCount 为全部用户数
	total, err := h.users.Count(ctx)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, AllUsersResponse{Users: toDTOs(users), TotalCount: total})
}

// RegisterUser 注册用户
// @Summary Register a new user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param request body RegisterRequest true "用户资料"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Router /users [post]
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	if _, err := h.users.Register(c.Request.Context(), req.details()); err != nil {
		response.RespondError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateUser 按邮箱更新用户
// @Summary Updates a user
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param email query string true "当前邮箱"
// @Param request body RegisterRequest true "新的用户资料"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /users [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	email := c.Query("email")
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	if _, err := h.users.Update(c.Request.Context(), email, req.details()); err != nil {
		response.RespondError(c, err, email+" not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser 删除用户
// @Summary Deletes a user
// @Tags Users
// @Security BearerAuth
// @Param id query string false "用户 ID"
// @Param email query string false "邮箱"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /users [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, email, ok := idOrEmail(c)
	if !ok {
		return
	}
	if err := h.users.Delete(c.Request.Context(), id, email); err != nil {
		response.RespondError(c, err, identity.NotFoundMessage(id, email))
		return
	}
	c.Status(http.StatusNoContent)
}

// AddUserToRoles 为用户添加角色
// @Summary Adds a user to role(s)
// @Tags Users
// @Security BearerAuth
// @Param email query string true "邮箱"
// @Param roles query string true "逗号分隔的角色名"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /users/roles [post]
func (h *Handler) AddUserToRoles(c *gin.Context) {
	email := c.Query("email")
	roles := identity.SplitRoles(c.Query("roles"))

	err := h.users.AddToRoles(c.Request.Context(), email, roles)
	if errors.Is(err, identity.ErrRoleNotFound) {
		response.ValidationProblem(c, "InvalidRoleName", err.Error())
		return
	}
	if err != nil {
		response.RespondError(c, err, fmt.Sprintf("User with email %s not found", email))
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveUserFromRoles 移除用户的角色
// @Summary Removes a user from role(s)
// @Tags Users
// @Security BearerAuth
// @Param email query string true "邮箱"
// @Param roles query string true "逗号分隔的角色名"
// @Success 204
// @Failure 404 {string} string
// @Router /users/roles [delete]
func (h *Handler) RemoveUserFromRoles(c *gin.Context) {
	email := c.Query("email")
	roles := identity.SplitRoles(c.Query("roles"))

	if err := h.users.RemoveFromRoles(c.Request.Context(), email, roles); err != nil {
		response.RespondError(c, err, fmt.Sprintf("User with email %s not found", email))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetUserClaims 获取用户声明
// @Summary Gets user claims
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param id query string false "用户 ID"
// @Param email query string false "邮箱"
// @Success 200 {array} identity.Claim
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /users/claims [get]
func (h *Handler) GetUserClaims(c *gin.Context) {
	id, email, ok := idOrEmail(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	u, err := h.users.Find(ctx, id, email)
	if err != nil {
		response.RespondError(c, err, identity.NotFoundMessage(id, email))
		return
	}
	claims, err := h.users.Claims(ctx, u.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, claims)
}

// AddUserClaims 添加用户声明
// @Summary Adds user claims
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param request body ClaimsRequest true "声明"
// @Success 204
// @Failure 404 {string} string
// @Router /users/claims [post]
func (h *Handler) AddUserClaims(c *gin.Context) {
	h.changeClaims(c, h.users.AddClaims)
}

// RemoveUserClaims 移除用户声明
// @Summary Removes user claims
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Param request body ClaimsRequest true "声明"
// @Success 204
// @Failure 404 {string} string
// @Router /users/claims [delete]
func (h *Handler) RemoveUserClaims(c *gin.Context) {
	h.changeClaims(c, h.users.RemoveClaims)
}

func (h *Handler) changeClaims(c *gin.Context, apply func(ctx context.Context, email string, claims []identity.Claim) error) {
	var req ClaimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	if err := apply(c.Request.Context(), req.Email, req.Claims); err != nil {
		response.RespondError(c, err, fmt.Sprintf("User with email %s not found", req.Email))
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchUsers 按关键词搜索用户
// @Summary Search users
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param searchQuery query string true "关键词"
// @Param pageIndex query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(10)
// @Param request body []string false "需要排除的用户 ID"
// @Success 200 {object} AllUsersResponse
// @Failure 400 {object} response.ProblemResponse
// @Router /users/search [post]
func (h *Handler) SearchUsers(c *gin.Context) {
	query := c.Query("searchQuery")
	if strings.TrimSpace(query) == "" {
		response.ValidationProblem(c, response.CodeMissingParameters, "Please provide a search query")
		return
	}
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil || !page.Valid() {
		response.ValidationProblem(c, response.CodeBadRequest, response.PageSizeMessage)
		return
	}

	var ignore []string
	if err := bindOptionalJSON(c, &ignore); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}

	users, total, err := h.users.Search(c.Request.Context(), query, ignore, page)
	if err != nil {
		response.RespondError(c, err, "Users not found")
		return
	}
	c.JSON(http.StatusOK, AllUsersResponse{Users: toDTOs(users), TotalCount: total})
}

// GetUsersByIDs 查询指定 ID 的用户
// @Summary Get users by ids
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param searchQuery query string false "关键词，每个词都需匹配"
// @Param pageIndex query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(10)
// @Param request body []string true "用户 ID"
// @Success 200 {object} AllUsersResponse
// @Failure 400 {object} response.ProblemResponse
// @Router /users/by-ids [post]
func (h *Handler) GetUsersByIDs(c *gin.Context) {
	page, ok := bindPage(c)
	if !ok {
		return
	}

	var ids []string
	if err := bindOptionalJSON(c, &ids); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	if ids == nil {
		response.ValidationProblem(c, response.CodeMissingParameters, "Please provide list of ids to search for the user")
		return
	}

	users, total, err := h.users.FindByIDs(c.Request.Context(), ids, c.Query("searchQuery"), page)
	if err != nil {
		response.RespondError(c, err, "Users not found")
		return
	}
	c.JSON(http.StatusOK, AllUsersResponse{Users: toDTOs(users), TotalCount: total})
}

type auditQuery struct {
	UserID    string `form:"userId"`
	PageIndex int    `form:"pageIndex"`
	PageSize  int    `form:"pageSize"`
}

// GetUserAuditTrail 获取用户审计记录，按时间倒序；页码越界返回空列表
// @Summary Get user audit trail
// @Description 页码越界时返回空 items，totalCount 为真实总数；用户没有任何记录时返回 404
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Param userId query string true "用户 ID"
// @Param pageIndex query int false "页码"
// @Param pageSize query int false "每页数量，不传返回全部"
// @Success 200 {object} AuditTrailResponse
// @Failure 404 {string} string
// @Router /users/audit [get]
func (h *Handler) GetUserAuditTrail(c *gin.Context) {
	var q auditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	notFound := fmt.Sprintf("No audit trail found for userId = %s", q.UserID)

	var page *types.PageRequest
	if q.PageSize > 0 {
		page = &types.PageRequest{PageIndex: max(q.PageIndex, types.DefaultPageIndex), PageSize: q.PageSize}
	}

	trail, err := h.trail.Trail(ctx, q.UserID, page)
	if errors.Is(err, audit.ErrNoAuditTrail) {
		response.NotFound(c, notFound)
		return
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}

	resp := AuditTrailResponse{
		Name:       trail.Name,
		Items:      make([]AuditTrailItem, 0, len(trail.Entries)),
		TotalCount: trail.TotalCount,
	}
	for _, e := range trail.Entries {
		resp.Items = append(resp.Items, AuditTrailItem{
			DateTimeStamp: e.DateTimeStamp,
			Description:   e.Description,
			SystemAdmin:   e.SystemAdmin,
		})
	}
	c.JSON(http.StatusOK, resp)
}
