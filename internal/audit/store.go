package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/pkg/types"
	"gorm.io/gorm"
)

// ErrNoAuditTrail 用户没有任何审计记录
var ErrNoAuditTrail = errors.New("audit: no audit trail")

const insertBatchSize = 100

// Store 审计记录存储
type Store struct {
	db *gorm.DB
}

// NewStore 创建审计记录存储
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append 批量写入审计记录
func (s *Store) Append(ctx context.Context, records []*Record) error {
	return s.AppendTx(s.db.WithContext(ctx), records)
}

// AppendTx 在给定事务中批量写入审计记录
func (s *Store) AppendTx(tx *gorm.DB, records []*Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(records, insertBatchSize).Error; err != nil {
		return fmt.Errorf("写入审计记录失败: %w", err)
	}
	return nil
}

// Trail 一页审计记录及用户的记录总数
type Trail struct {
	Name       string
	Entries    []TrailEntry
	TotalCount int64
}

// Trail 查询用户的一页审计记录
//
// 用户没有任何记录时返回 ErrNoAuditTrail；页码越界返回空页，TotalCount 仍为真实总数。
func (s *Store) Trail(ctx context.Context, userID string, page *types.PageRequest) (*Trail, error) {
	total, err := s.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, ErrNoAuditTrail
	}

	entries, err := s.GetBySubject(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	trail := &Trail{Entries: entries, TotalCount: total}
	if len(entries) > 0 {
		trail.Name = entries[0].SubjectName
		return trail, nil
	}

	var subject identity.User
	err = s.db.WithContext(ctx).Unscoped().Select("given_name", "family_name").
		Where("id = ?", userID).Take(&subject).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询审计用户失败: %w", err)
	}
	trail.Name = subject.FullName()
	return trail, nil
}

// GetBySubject 按时间倒序查询用户的审计记录
//
// page 为 nil 或 PageSize <= 0 时返回全部记录。
// 用户没有任何记录时返回 ErrNoAuditTrail；页码越界时返回空切片。
func (s *Store) GetBySubject(ctx context.Context, userID string, page *types.PageRequest) ([]TrailEntry, error) {
	query := s.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("SystemAdministrator", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ?", userID).
		Order("date_time_stamp DESC").
		Order("id")

	if page != nil && page.PageSize > 0 {
		query = query.Offset(page.Offset()).Limit(page.PageSize)
	}

	var records []Record
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("查询审计记录失败: %w", err)
	}
	if len(records) == 0 {
		total, err := s.Count(ctx, userID)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, ErrNoAuditTrail
		}
		return []TrailEntry{}, nil
	}

	entries := make([]TrailEntry, 0, len(records))
	for _, r := range records {
		entry := TrailEntry{
			DateTimeStamp: r.DateTimeStamp,
			Description:   r.Description,
		}
		if r.SystemAdministrator != nil {
			entry.SystemAdmin = r.SystemAdministrator.Email
		}
		if r.User != nil {
			entry.SubjectName = r.User.FullName()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count 统计用户的审计记录数
func (s *Store) Count(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Record{}).Where("user_id = ?", userID).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("统计审计记录失败: %w", err)
	}
	return n, nil
}
