package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"

	"gorm.io/gorm"
)

// RoleService 角色及角色声明管理
type RoleService struct {
	db *gorm.DB
}

// NewRoleService 创建角色服务
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// List 分页列出角色
func (s *RoleService) List(ctx context.Context, page types.PageRequest) ([]Role, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&Role{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计角色失败: %w", err)
	}

	var roles []Role
	err := db.Order("name").Offset(page.Offset()).Limit(page.PageSize).Find(&roles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("查询角色失败: %w", err)
	}
	return roles, total, nil
}

// Find 按名称查找角色（大小写无关）
func (s *RoleService) Find(ctx context.Context, name string) (*Role, error) {
	return findRoleByName(s.db.WithContext(ctx), name)
}

// Create 创建角色
func (s *RoleService) Create(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrMissingParameters
	}

	db := s.db.WithContext(ctx)
	if _, err := findRoleByName(db, name); err == nil {
		return nil, ErrDuplicateRole
	} else if !errors.Is(err, ErrRoleNotFound) {
		return nil, err
	}

	role := &Role{Name: name}
	if err := db.Create(role).Error; err != nil {
		return nil, fmt.Errorf("创建角色失败: %w", err)
	}
	return role, nil
}

// Rename 重命名角色
func (s *RoleService) Rename(ctx context.Context, name, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrMissingParameters
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := findRoleByName(tx, name)
		if err != nil {
			return err
		}
		if NormalizeName(newName) != role.NormalizedName {
			if _, err := findRoleByName(tx, newName); err == nil {
				return ErrDuplicateRole
			} else if !errors.Is(err, ErrRoleNotFound) {
				return err
			}
		}
		role.Name = newName
		role.NormalizedName = NormalizeName(newName)
		if err := tx.Save(role).Error; err != nil {
			return fmt.Errorf("重命名角色失败: %w", err)
		}
		return nil
	})
}

// Delete 删除角色
//
// 先逐条移除用户关联（每条移除都会记入用户审计），再删除角色声明与角色本身。
func (s *RoleService) Delete(ctx context.Context, name string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		role, err := findRoleByName(tx, name)
		if err != nil {
			return err
		}

		var memberships []UserRole
		if err := tx.Where("role_id = ?", role.ID).Order("user_id").Find(&memberships).Error; err != nil {
			return fmt.Errorf("查询角色关联失败: %w", err)
		}
		for i := range memberships {
			if err := tx.Delete(&memberships[i]).Error; err != nil {
				return fmt.Errorf("移除角色关联失败: %w", err)
			}
		}

		if err := tx.Where("role_id = ?", role.ID).Delete(&RoleClaim{}).Error; err != nil {
			return fmt.Errorf("删除角色声明失败: %w", err)
		}
		if err := tx.Delete(role).Error; err != nil {
			return fmt.Errorf("删除角色失败: %w", err)
		}
		return nil
	})
}

// Claims 返回角色声明
func (s *RoleService) Claims(ctx context.Context, roleName string) ([]Claim, error) {
	db := s.db.WithContext(ctx)
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return nil, err
	}
	var rows []RoleClaim
	if err := db.Where("role_id = ?", role.ID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询角色声明失败: %w", err)
	}
	claims := make([]Claim, 0, len(rows))
	for _, r := range rows {
		claims = append(claims, Claim{Type: r.ClaimType, Value: r.ClaimValue})
	}
	return claims, nil
}

// AddClaim 为角色添加声明
func (s *RoleService) AddClaim(ctx context.Context, roleName string, claim Claim) error {
	if strings.TrimSpace(claim.Type) == "" {
		return ErrMissingParameters
	}
	db := s.db.WithContext(ctx)
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	row := &RoleClaim{RoleID: role.ID, ClaimType: claim.Type, ClaimValue: claim.Value}
	if err := db.Create(row).Error; err != nil {
		return fmt.Errorf("添加角色声明失败: %w", err)
	}
	return nil
}

// RemoveClaim 移除角色声明
func (s *RoleService) RemoveClaim(ctx context.Context, roleName string, claim Claim) error {
	db := s.db.WithContext(ctx)
	role, err := findRoleByName(db, roleName)
	if err != nil {
		return err
	}
	res := db.Where("role_id = ? AND claim_type = ? AND claim_value = ?", role.ID, claim.Type, claim.Value).
		Delete(&RoleClaim{})
	if res.Error != nil {
		return fmt.Errorf("移除角色声明失败: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrClaimNotFound
	}
	return nil
}

func findRoleByName(db *gorm.DB, name string) (*Role, error) {
	var r Role
	err := db.Where("normalized_name = ?", NormalizeName(name)).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询角色失败: %w", err)
	}
	return &r, nil
}
