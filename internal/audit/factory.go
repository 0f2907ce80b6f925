package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/google/uuid"
)

// Factory 根据审计动作生成审计记录
type Factory struct {
	now   func() time.Time
	newID func() string
}

// FactoryOption 工厂配置项
type FactoryOption func(*Factory)

// WithClock 替换时钟（测试用）
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// WithIDGenerator 替换 ID 生成器（测试用）
func WithIDGenerator(gen func() string) FactoryOption {
	return func(f *Factory) {
		f.newID = gen
	}
}

// NewFactory 创建审计记录工厂
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Build 生成审计记录
//
// adminID 为 nil 时记录不关联管理员。没有可报告的内容时返回空切片。
func (f *Factory) Build(action ActionKind, subject *identity.User, adminID *string, diffs []Difference, roleNames []string) []*Record {
	if subject == nil {
		return nil
	}

	var descriptions []string
	switch action {
	case ActionCreate:
		descriptions = append(descriptions, fmt.Sprintf("%s was created", subject.Email))
	case ActionUpdate:
		for _, d := range diffs {
			if d.Format == FormatStatus {
				descriptions = append(descriptions, fmt.Sprintf("%s was %s", subject.Email, d.New))
				continue
			}
			descriptions = append(descriptions, fmt.Sprintf("%s was changed to %s", d.Old, d.New))
		}
	case ActionAddRole:
		for _, role := range roleNames {
			descriptions = append(descriptions, fmt.Sprintf("%s was assigned %s role", subject.Email, displayRole(role)))
		}
	case ActionRemoveRole:
		for _, role := range roleNames {
			descriptions = append(descriptions, fmt.Sprintf("%s was unassigned %s role", subject.Email, displayRole(role)))
		}
	}

	records := make([]*Record, 0, len(descriptions))
	for _, desc := range descriptions {
		records = append(records, &Record{
			ID:                    f.newID(),
			DateTimeStamp:         f.now().UTC(),
			Description:           desc,
			UserID:                subject.ID,
			SystemAdministratorID: cloneID(adminID),
		})
	}
	return records
}

func displayRole(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

func cloneID(id *string) *string {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
