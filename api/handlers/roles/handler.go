package roles

import (
	"errors"
	"fmt"
	"net/http"

	response "github.com/HealthResearchAuthority/rsp-usermanagement-service/api/handlers/common"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"

	"github.com/gin-gonic/gin"
)

// RoleDTO 角色信息
type RoleDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AllRolesResponse 角色列表
type AllRolesResponse struct {
	Roles      []RoleDTO `json:"roles"`
	TotalCount int64     `json:"totalCount"`
}

// ClaimRequest 添加或移除角色声明
type ClaimRequest struct {
	Role       string `json:"role"`
	ClaimType  string `json:"claimType"`
	ClaimValue string `json:"claimValue"`
}

// Handler 角色接口
type Handler struct {
	roles *identity.RoleService
}

// NewHandler 创建角色接口
func NewHandler(roles *identity.RoleService) *Handler {
	return &Handler{roles: roles}
}

// GetAllRoles 分页列出角色
// @Summary Get roles
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Param pageIndex query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(10)
// @Success 200 {object} AllRolesResponse
// @Failure 400 {string} string
// @Router /roles [get]
func (h *Handler) GetAllRoles(c *gin.Context) {
	var page types.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil || !page.Valid() {
		response.BadRequest(c, response.PageSizeMessage)
		return
	}

	roles, total, err := h.roles.List(c.Request.Context(), page)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	resp := AllRolesResponse{Roles: make([]RoleDTO, 0, len(roles)), TotalCount: total}
	for _, r := range roles {
		resp.Roles = append(resp.Roles, RoleDTO{ID: r.ID, Name: r.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// CreateRole 创建角色
// @Summary Creates a new role
// @Tags Roles
// @Security BearerAuth
// @Param roleName query string true "角色名"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Router /roles [post]
func (h *Handler) CreateRole(c *gin.Context) {
	if _, err := h.roles.Create(c.Request.Context(), c.Query("roleName")); err != nil {
		response.RespondError(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateRole 重命名角色
// @Summary Updates a role
// @Tags Roles
// @Security BearerAuth
// @Param roleName query string true "角色名"
// @Param newName query string true "新名称"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /roles [put]
func (h *Handler) UpdateRole(c *gin.Context) {
	roleName := c.Query("roleName")
	if err := h.roles.Rename(c.Request.Context(), roleName, c.Query("newName")); err != nil {
		response.RespondError(c, err, roleName+" not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteRole 删除角色，成员关系一并移除
// @Summary Deletes a role
// @Tags Roles
// @Security BearerAuth
// @Param roleName query string true "角色名"
// @Success 204
// @Failure 404 {string} string
// @Router /roles [delete]
func (h *Handler) DeleteRole(c *gin.Context) {
	roleName := c.Query("roleName")
	if err := h.roles.Delete(c.Request.Context(), roleName); err != nil {
		response.RespondError(c, err, roleName+" not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetRoleClaims 获取角色声明
// @Summary Gets role claims
// @Tags Roles
// @Security BearerAuth
// @Produce json
// @Param roleName query string true "角色名"
// @Success 200 {array} identity.Claim
// @Failure 404 {string} string
// @Router /roles/claims [get]
func (h *Handler) GetRoleClaims(c *gin.Context) {
	roleName := c.Query("roleName")
	claims, err := h.roles.Claims(c.Request.Context(), roleName)
	if err != nil {
		response.RespondError(c, err, roleName+" not found")
		return
	}
	c.JSON(http.StatusOK, claims)
}

// AddRoleClaim 添加角色声明
// @Summary Adds a role claim
// @Tags Roles
// @Security BearerAuth
// @Accept json
// @Param request body ClaimRequest true "声明"
// @Success 204
// @Failure 400 {object} response.ProblemResponse
// @Failure 404 {string} string
// @Router /roles/claims [post]
func (h *Handler) AddRoleClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	claim := identity.Claim{Type: req.ClaimType, Value: req.ClaimValue}
	if err := h.roles.AddClaim(c.Request.Context(), req.Role, claim); err != nil {
		response.RespondError(c, err, req.Role+" not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveRoleClaim 移除角色声明
// @Summary Removes a role claim
// @Tags Roles
// @Security BearerAuth
// @Accept json
// @Param request body ClaimRequest true "声明"
// @Success 204
// @Failure 404 {string} string
// @Router /roles/claims [delete]
func (h *Handler) RemoveRoleClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationProblem(c, response.CodeBadRequest, err.Error())
		return
	}
	claim := identity.Claim{Type: req.ClaimType, Value: req.ClaimValue}
	err := h.roles.RemoveClaim(c.Request.Context(), req.Role, claim)
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	notFound := req.Role + " not found"
	if errors.Is(err, identity.ErrClaimNotFound) {
		notFound = fmt.Sprintf("Claim with type %s and value %s not found", req.ClaimType, req.ClaimValue)
	}
	response.RespondError(c, err, notFound)
}
