package identity

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed roles.yaml
var builtinRolesYAML []byte

type roleCatalog struct {
	Roles []string `yaml:"roles"`
}

// BuiltinRoles 返回内置角色名
func BuiltinRoles() ([]string, error) {
	var catalog roleCatalog
	if err := yaml.Unmarshal(builtinRolesYAML, &catalog); err != nil {
		return nil, fmt.Errorf("解析内置角色失败: %w", err)
	}
	return catalog.Roles, nil
}

// SeedRoles 写入缺失的内置角色，已存在的跳过，返回新写入的数量
func SeedRoles(ctx context.Context, db *gorm.DB) (int, error) {
	names, err := BuiltinRoles()
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range names {
			if _, err := findRoleByName(tx, name); err == nil {
				continue
			} else if !errors.Is(err, ErrRoleNotFound) {
				return err
			}
			if err := tx.Create(&Role{Name: name}).Error; err != nil {
				return fmt.Errorf("写入角色 %s 失败: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
