package audit

import (
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Record 用户审计记录，写入后不再修改
type Record struct {
	ID                    string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	DateTimeStamp         time.Time `gorm:"not null;index:idx_audit_trail_subject_time,priority:2" json:"dateTimeStamp"`
	Description           string    `gorm:"type:text;not null" json:"description"`
	UserID                string    `gorm:"type:varchar(36);not null;index:idx_audit_trail_subject_time,priority:1" json:"userId"`
	SystemAdministratorID *string   `gorm:"type:varchar(36);index" json:"systemAdministratorId,omitempty"`

	User                *identity.User `gorm:"foreignKey:UserID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION" json:"-"`
	SystemAdministrator *identity.User `gorm:"foreignKey:SystemAdministratorID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION" json:"-"`
}

// TableName 指定表名
func (Record) TableName() string {
	return "user_audit_trails"
}

// BeforeCreate GORM 钩子：创建前补齐 ID 与时间
func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.DateTimeStamp.IsZero() {
		r.DateTimeStamp = time.Now().UTC()
	}
	return nil
}

// TrailEntry 审计记录的查询视图
type TrailEntry struct {
	DateTimeStamp time.Time `json:"dateTimeStamp"`
	Description   string    `json:"description"`
	SystemAdmin   string    `json:"systemAdmin"`
	SubjectName   string    `json:"-"`
}
