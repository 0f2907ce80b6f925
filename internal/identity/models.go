package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 平台用户（由外部身份提供方登录，本服务不保存密码）
//
// 带 audit 标签的字段参与审计比对，声明顺序即审计记录的输出顺序。
// 标签值决定渲染方式: text 原样输出, list 为逗号分隔列表, status 渲染为启用/停用。
type User struct {
	ID                 string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserName           string         `gorm:"type:varchar(256);index" json:"userName"`
	Email              string         `gorm:"type:varchar(256);index;not null" json:"email" audit:"text"`
	GivenName          string         `gorm:"type:varchar(250)" json:"givenName" audit:"text"`
	FamilyName         string         `gorm:"type:varchar(250)" json:"familyName" audit:"text"`
	Title              *string        `gorm:"type:varchar(250)" json:"title,omitempty" audit:"text"`
	Telephone          *string        `gorm:"type:varchar(50)" json:"telephone,omitempty" audit:"text"`
	Organisation       *string        `gorm:"type:varchar(250)" json:"organisation,omitempty" audit:"text"`
	Country            *string        `gorm:"type:varchar(500)" json:"country,omitempty" audit:"list"`
	JobTitle           *string        `gorm:"type:varchar(250)" json:"jobTitle,omitempty" audit:"text"`
	Status             string         `gorm:"type:varchar(50);index" json:"status" audit:"status"`
	IdentityProviderID *string        `gorm:"type:varchar(250)" json:"identityProviderId,omitempty"`
	LastLogin          *time.Time     `json:"lastLogin,omitempty"`
	CurrentLogin       *time.Time     `json:"currentLogin,omitempty"`
	LastUpdated        *time.Time     `json:"lastUpdated,omitempty"`
	CreatedAt          time.Time      `json:"-"`
	UpdatedAt          time.Time      `json:"-"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate GORM 钩子：创建前设置 ID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// FullName 返回 "名 姓"
func (u *User) FullName() string {
	return strings.TrimSpace(u.GivenName + " " + u.FamilyName)
}

// Role 角色
type Role struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name           string    `gorm:"type:varchar(256);not null" json:"name"`
	NormalizedName string    `gorm:"type:varchar(256);uniqueIndex" json:"normalizedName"`
	CreatedAt      time.Time `json:"-"`
}

// TableName 指定表名
func (Role) TableName() string {
	return "roles"
}

// BeforeCreate GORM 钩子：创建前设置 ID 与规范化名称
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.NormalizedName = NormalizeName(r.Name)
	return nil
}

// UserRole 用户与角色的关联
type UserRole struct {
	UserID string `gorm:"type:varchar(36);primaryKey" json:"userId"`
	RoleID string `gorm:"type:varchar(36);primaryKey" json:"roleId"`
}

// TableName 指定表名
func (UserRole) TableName() string {
	return "user_roles"
}

// UserClaim 用户声明
type UserClaim struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string `gorm:"type:varchar(36);index;not null" json:"userId"`
	ClaimType  string `gorm:"type:varchar(256);not null" json:"claimType"`
	ClaimValue string `gorm:"type:text" json:"claimValue"`
}

// TableName 指定表名
func (UserClaim) TableName() string {
	return "user_claims"
}

// RoleClaim 角色声明
type RoleClaim struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleID     string `gorm:"type:varchar(36);index;not null" json:"roleId"`
	ClaimType  string `gorm:"type:varchar(256);not null" json:"claimType"`
	ClaimValue string `gorm:"type:text" json:"claimValue"`
}

// TableName 指定表名
func (RoleClaim) TableName() string {
	return "role_claims"
}

// Models 返回需要迁移的全部模型
func Models() []any {
	return []any{&User{}, &Role{}, &UserRole{}, &UserClaim{}, &RoleClaim{}}
}

// NormalizeName 规范化角色名或邮箱，用于大小写无关的比较
func NormalizeName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
