package audit

import (
	"fmt"
	"testing"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// initTestDB 创建内存数据库，withPlugin 为 true 时注册审计插件
func initTestDB(t *testing.T, withPlugin bool) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:audit_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("打开 sqlite 失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取 sql.DB 失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	models := append(identity.Models(), &Record{})
	if err := db.AutoMigrate(models...); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	if withPlugin {
		if err := db.Use(NewPlugin(NewCoordinator(nil))); err != nil {
			t.Fatalf("注册审计插件失败: %v", err)
		}
	}
	return db
}

func descriptionsFor(t *testing.T, db *gorm.DB, userID string) []string {
	t.Helper()
	var records []Record
	if err := db.Where("user_id = ?", userID).Order("description").Find(&records).Error; err != nil {
		t.Fatalf("查询审计记录失败: %v", err)
	}
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Description)
	}
	return out
}
