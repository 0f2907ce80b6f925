package audit

import (
	"context"
	"errors"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"gorm.io/gorm"
)

// Directory 审计过程中查找关联用户与角色
type Directory interface {
	FindUserByEmail(ctx context.Context, email string) (*identity.User, error)
	FindUserByID(ctx context.Context, id string) (*identity.User, error)
	FindRoleByID(ctx context.Context, id string) (*identity.Role, error)
}

// gormDirectory 基于当前事务的查找实现
//
// db 必须是 NewDB 会话：每次调用都会生成新的语句，但沿用原语句的连接与上下文。
// 不要在其上再调用 WithContext，否则会复用外层语句的条件。
type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory 基于事务创建查找器
func NewDirectory(tx *gorm.DB) Directory {
	return &gormDirectory{db: tx.Session(&gorm.Session{NewDB: true})}
}

func (d *gormDirectory) FindUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	var u identity.User
	err := d.db.Where("LOWER(email) = LOWER(?)", email).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindUserByID 包含已软删除的用户，角色移除可能发生在用户删除之后
func (d *gormDirectory) FindUserByID(ctx context.Context, id string) (*identity.User, error) {
	var u identity.User
	err := d.db.Unscoped().Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (d *gormDirectory) FindRoleByID(ctx context.Context, id string) (*identity.Role, error) {
	var r identity.Role
	err := d.db.Where("id = ?", id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, identity.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
