package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRoles(t *testing.T) {
	names, err := BuiltinRoles()
	require.NoError(t, err)
	assert.Len(t, names, 11)
	assert.Contains(t, names, "system_administrator")
	assert.Contains(t, names, "organisation_administrator")
}

func TestSeedRoles_Idempotent(t *testing.T) {
	db := initTestDB(t)
	ctx := context.Background()

	// 预先存在的角色不重复写入
	_, err := NewRoleService(db).Create(ctx, "ADMIN")
	require.NoError(t, err)

	created, err := SeedRoles(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 10, created)

	created, err = SeedRoles(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, created)

	var count int64
	require.NoError(t, db.Model(&Role{}).Count(&count).Error)
	assert.EqualValues(t, 11, count)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "TEAM_MANAGER", NormalizeName(" team_manager "))
	assert.Equal(t, []string{"a", "b"}, SplitRoles(" a, ,b,A"))
}
