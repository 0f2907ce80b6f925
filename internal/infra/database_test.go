package infra

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/audit"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/config"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   fmt.Sprintf("file:infra_%d?mode=memory&cache=shared", time.Now().UnixNano()),
	}
}

func TestInitDatabase_SQLiteWithAuditPlugin(t *testing.T) {
	db, err := InitDatabase(sqliteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDatabase() })

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, HealthCheck())
	assert.Same(t, db, GetDB())

	_, ok := db.Config.Plugins["audit_trail"]
	assert.True(t, ok, "审计插件应已注册")

	ctx := audit.WithActor(context.Background(), "nobody@example.com")
	u, err := identity.NewUserService(db).Register(ctx, identity.UserDetails{
		Email: "a@b.com", GivenName: "Ada", FamilyName: "Lovelace", Status: "active",
	})
	require.NoError(t, err)

	entries, err := audit.NewStore(db).GetBySubject(context.Background(), u.ID, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a@b.com was created", entries[0].Description)
	assert.Empty(t, entries[0].SystemAdmin)
}

func TestInitDatabase_UnknownDriver(t *testing.T) {
	_, err := InitDatabase(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestModels_IncludesAuditTrail(t *testing.T) {
	models := Models()
	assert.Len(t, models, len(identity.Models())+1)
	assert.IsType(t, &audit.Record{}, models[len(models)-1])
}
