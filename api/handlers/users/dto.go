package users

import (
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
)

// UserDTO 用户信息
type UserDTO struct {
	ID           string     `json:"id"`
	GivenName    string     `json:"givenName"`
	FamilyName   string     `json:"familyName"`
	Email        string     `json:"email"`
	Title        *string    `json:"title"`
	JobTitle     *string    `json:"jobTitle"`
	Organisation *string    `json:"organisation"`
	Telephone    *string    `json:"telephone"`
	Country      *string    `json:"country"`
	Status       string     `json:"status"`
	LastLogin    *time.Time `json:"lastLogin"`
	CurrentLogin *time.Time `json:"currentLogin"`
	LastUpdated  *time.Time `json:"lastUpdated"`
}

func toDTO(u identity.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		GivenName:    u.GivenName,
		FamilyName:   u.FamilyName,
		Email:        u.Email,
		Title:        u.Title,
		JobTitle:     u.JobTitle,
		Organisation: u.Organisation,
		Telephone:    u.Telephone,
		Country:      u.Country,
		Status:       u.Status,
		LastLogin:    u.LastLogin,
		CurrentLogin: u.CurrentLogin,
		LastUpdated:  u.LastUpdated,
	}
}

func toDTOs(users []identity.User) []UserDTO {
	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toDTO(u))
	}
	return out
}

// AllUsersResponse 用户列表
type AllUsersResponse struct {
	Users      []UserDTO `json:"users"`
	TotalCount int64     `json:"totalCount"`
}

// UserResponse 单个用户及其角色
type UserResponse struct {
	User           UserDTO  `json:"user"`
	Roles          []string `json:"roles"`
	AccessRequired []string `json:"accessRequired"`
}

// RegisterRequest 注册或更新用户的请求体
type RegisterRequest struct {
	GivenName          string     `json:"givenName"`
	FamilyName         string     `json:"familyName"`
	Email              string     `json:"email"`
	Title              *string    `json:"title"`
	Telephone          *string    `json:"telephone"`
	Organisation       *string    `json:"organisation"`
	Country            *string    `json:"country"`
	JobTitle           *string    `json:"jobTitle"`
	Status             string     `json:"status"`
	IdentityProviderID *string    `json:"identityProviderId"`
	LastUpdated        *time.Time `json:"lastUpdated"`
	CurrentLogin       *time.Time `json:"currentLogin"`
}

func (r RegisterRequest) details() identity.UserDetails {
	return identity.UserDetails{
		Email:              r.Email,
		GivenName:          r.GivenName,
		FamilyName:         r.FamilyName,
		Title:              r.Title,
		Telephone:          r.Telephone,
		Organisation:       r.Organisation,
		Country:            r.Country,
		JobTitle:           r.JobTitle,
		Status:             r.Status,
		IdentityProviderID: r.IdentityProviderID,
		LastUpdated:        r.LastUpdated,
		CurrentLogin:       r.CurrentLogin,
	}
}

// SearchRequest 用户列表过滤条件
type SearchRequest struct {
	SearchQuery string     `json:"searchQuery"`
	Country     []string   `json:"country"`
	Status      *bool      `json:"status"`
	FromDate    *time.Time `json:"fromDate"`
	ToDate      *time.Time `json:"toDate"`
}

// ClaimsRequest 添加或移除用户声明
type ClaimsRequest struct {
	Email  string           `json:"email"`
	Claims []identity.Claim `json:"claims"`
}

// AuditTrailItem 审计记录
type AuditTrailItem struct {
	DateTimeStamp time.Time `json:"dateTimeStamp"`
	Description   string    `json:"description"`
	SystemAdmin   string    `json:"systemAdmin"`
}

// AuditTrailResponse 用户审计记录
type AuditTrailResponse struct {
	Name       string           `json:"name"`
	Items      []AuditTrailItem `json:"items"`
	TotalCount int64            `json:"totalCount"`
}
