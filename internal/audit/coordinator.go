package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/logger"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrCounterpartNotFound 角色关联的用户或角色不存在
var ErrCounterpartNotFound = errors.New("audit: membership counterpart not found")

// Batch 一次提交生成的审计结果
type Batch struct {
	Records []*Record
	Skipped []error
}

// Coordinator 汇总一次提交中的实体变更并生成审计记录
type Coordinator struct {
	factory *Factory
	tracer  trace.Tracer
}

// NewCoordinator 创建协调器，factory 为 nil 时使用默认工厂
func NewCoordinator(factory *Factory) *Coordinator {
	if factory == nil {
		factory = NewFactory()
	}
	return &Coordinator{
		factory: factory,
		tracer:  otel.Tracer("rsp-usermanagement-service/internal/audit"),
	}
}

// Intercept 为一组变更生成审计记录，操作者按邮箱在 dir 中解析
//
// 操作者无法解析时记录不关联管理员；关联实体缺失时跳过该条记录并写入 Skipped。
// 本方法不返回错误，也不会中断提交。
func (c *Coordinator) Intercept(ctx context.Context, dir Directory, actorEmail string, changes []Change) Batch {
	for _, ch := range changes {
		if KindOf(ch.Entity) != EntityUnknown {
			return c.InterceptAs(ctx, dir, c.ResolveActor(ctx, dir, actorEmail), changes)
		}
	}
	return Batch{}
}

// InterceptAs 同 Intercept，但使用已解析的管理员 ID
//
// 变更本身可能修改操作者的邮箱，插件在写入前解析操作者后走这里。
func (c *Coordinator) InterceptAs(ctx context.Context, dir Directory, adminID *string, changes []Change) Batch {
	ctx, span := c.tracer.Start(ctx, "audit.Intercept")
	defer span.End()

	var batch Batch

	auditable := make([]Change, 0, len(changes))
	for _, ch := range changes {
		if KindOf(ch.Entity) != EntityUnknown {
			auditable = append(auditable, ch)
		}
	}
	span.SetAttributes(attribute.Int("audit.changes", len(auditable)))
	if len(auditable) == 0 {
		return batch
	}

	log := logger.WithContext(ctx)

	for _, ch := range auditable {
		kind := KindOf(ch.Entity)
		action, ok := Classify(kind, ch.State)
		if !ok {
			continue
		}

		var records []*Record
		switch kind {
		case EntityUser:
			records = c.userRecords(action, ch, adminID)
		case EntityUserRole:
			var err error
			records, err = c.membershipRecords(ctx, dir, action, ch, adminID)
			if err != nil {
				batch.Skipped = append(batch.Skipped, err)
				metrics.RecordAuditSkipped("counterpart_not_found")
				log.Warn("跳过角色变更审计", zap.String("action", string(action)), zap.Error(err))
				continue
			}
		}

		metrics.RecordAuditRecords(string(action), len(records))
		batch.Records = append(batch.Records, records...)
	}

	span.SetAttributes(
		attribute.Int("audit.records", len(batch.Records)),
		attribute.Int("audit.skipped", len(batch.Skipped)),
	)
	return batch
}

// ResolveActor 按邮箱查找操作者，找不到返回 nil
func (c *Coordinator) ResolveActor(ctx context.Context, dir Directory, email string) *string {
	log := logger.WithContext(ctx)
	if email == "" || dir == nil {
		metrics.AuditActorMissing.Inc()
		log.Debug("审计提交未携带操作者")
		return nil
	}
	admin, err := dir.FindUserByEmail(ctx, email)
	if err != nil || admin == nil {
		metrics.AuditActorMissing.Inc()
		log.Debug("未找到审计操作者", zap.String("email", email), zap.Error(err))
		return nil
	}
	id := admin.ID
	return &id
}

func (c *Coordinator) userRecords(action ActionKind, ch Change, adminID *string) []*Record {
	user, ok := asUser(ch.Entity)
	if !ok {
		return nil
	}
	if action == ActionCreate {
		return c.factory.Build(action, user, adminID, nil, nil)
	}

	before, ok := asUser(ch.Original)
	if !ok {
		return nil
	}
	diffs := Diff(before, user, AuditableFields(user))
	return c.factory.Build(action, user, adminID, diffs, nil)
}

func (c *Coordinator) membershipRecords(ctx context.Context, dir Directory, action ActionKind, ch Change, adminID *string) ([]*Record, error) {
	ur, ok := asUserRole(ch.Entity)
	if !ok {
		return nil, nil
	}
	if dir == nil {
		return nil, fmt.Errorf("%w: no directory for user %s", ErrCounterpartNotFound, ur.UserID)
	}

	user, err := dir.FindUserByID(ctx, ur.UserID)
	if err != nil || user == nil {
		return nil, fmt.Errorf("%w: user %s: %v", ErrCounterpartNotFound, ur.UserID, lookupErr(err, identity.ErrUserNotFound))
	}
	role, err := dir.FindRoleByID(ctx, ur.RoleID)
	if err != nil || role == nil {
		return nil, fmt.Errorf("%w: role %s: %v", ErrCounterpartNotFound, ur.RoleID, lookupErr(err, identity.ErrRoleNotFound))
	}

	return c.factory.Build(action, user, adminID, nil, []string{role.Name}), nil
}

func lookupErr(err, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
