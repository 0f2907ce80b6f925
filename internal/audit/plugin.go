package audit

import (
	"fmt"
	"reflect"

	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/logger"
	"github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	pluginName = "audit_trail"

	beforeSnapshotKey = "audit:before_snapshot"
	actorIDKey        = "audit:actor_id"

	commitCallback = "gorm:commit_or_rollback_transaction"
)

// Plugin 将审计挂到 GORM 的创建、更新、删除回调上
//
// 审计记录在提交前写入同一事务；写入失败会让整个事务回滚。
// 依赖默认事务（SkipDefaultTransaction 为 false）。
// 操作者在语句执行前解析，更新后的用户值在同一事务内重新读取，
// 因此 Save 与 Model(&User{ID: id}).Updates(...) 都会被审计；
// 模型上没有主键的批量更新不记录。
type Plugin struct {
	coordinator *Coordinator
	store       *Store
}

// NewPlugin 创建审计插件
func NewPlugin(coordinator *Coordinator) *Plugin {
	if coordinator == nil {
		coordinator = NewCoordinator(nil)
	}
	return &Plugin{coordinator: coordinator, store: &Store{}}
}

// Name 实现 gorm.Plugin
func (p *Plugin) Name() string {
	return pluginName
}

// Initialize 实现 gorm.Plugin，注册回调
func (p *Plugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").After("gorm:before_create").
		Register("audit:capture_create", p.captureActor); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := cb.Update().Before("gorm:update").After("gorm:before_update").
		Register("audit:capture_update", p.captureBefore); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := cb.Delete().Before("gorm:delete").After("gorm:before_delete").
		Register("audit:capture_delete", p.captureActor); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := cb.Create().After("gorm:after_create").Before(commitCallback).
		Register("audit:after_create", p.afterStatement(StateAdded)); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := cb.Update().After("gorm:after_update").Before(commitCallback).
		Register("audit:after_update", p.afterStatement(StateModified)); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	if err := cb.Delete().After("gorm:after_delete").Before(commitCallback).
		Register("audit:after_delete", p.afterStatement(StateDeleted)); err != nil {
		return fmt.Errorf("注册审计回调失败: %w", err)
	}
	return nil
}

// captureActor 在语句执行前解析操作者
func (p *Plugin) captureActor(db *gorm.DB) {
	if db.Error != nil || !hasAuditable(db.Statement.ReflectValue) {
		return
	}
	if _, ok := db.InstanceGet(actorIDKey); ok {
		return
	}
	ctx := db.Statement.Context
	db.InstanceSet(actorIDKey, p.coordinator.ResolveActor(ctx, NewDirectory(db), ActorFrom(ctx)))
}

// captureBefore 在更新前读取用户的持久化旧值
func (p *Plugin) captureBefore(db *gorm.DB) {
	if db.Error != nil {
		return
	}
	id := targetUserID(db)
	if id == "" {
		return
	}

	before, err := loadUser(db, id)
	if err != nil {
		logger.WithContext(db.Statement.Context).Debug("读取用户旧值失败，跳过更新审计",
			zap.String("user_id", id), zap.Error(err))
		return
	}
	db.InstanceSet(beforeSnapshotKey, before)
	p.captureActor(db)
}

// targetUserID 更新语句目标为单个带主键的用户时返回其 ID
func targetUserID(db *gorm.DB) string {
	if !db.Statement.ReflectValue.IsValid() {
		return ""
	}
	entity := reflect.Indirect(db.Statement.ReflectValue)
	if entity.Kind() != reflect.Struct || !entity.CanInterface() {
		return ""
	}
	user, ok := asUser(entity.Interface())
	if !ok {
		return ""
	}
	return user.ID
}

func loadUser(db *gorm.DB, id string) (*identity.User, error) {
	var user identity.User
	err := db.Session(&gorm.Session{NewDB: true}).Unscoped().Where("id = ?", id).Take(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func hasAuditable(rv reflect.Value) bool {
	rv = reflect.Indirect(rv)
	if !rv.IsValid() {
		return false
	}
	isAuditable := func(v reflect.Value) bool {
		v = reflect.Indirect(v)
		return v.Kind() == reflect.Struct && v.CanInterface() && KindOf(v.Interface()) != EntityUnknown
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if isAuditable(rv.Index(i)) {
				return true
			}
		}
	case reflect.Struct:
		return isAuditable(rv)
	}
	return false
}

func (p *Plugin) afterStatement(state TransitionState) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Error != nil || db.Statement.RowsAffected == 0 {
			return
		}
		changes := p.collect(db, state)
		if len(changes) == 0 {
			return
		}

		ctx := db.Statement.Context
		var batch Batch
		if adminID, ok := db.InstanceGet(actorIDKey); ok {
			batch = p.coordinator.InterceptAs(ctx, NewDirectory(db), adminID.(*string), changes)
		} else {
			batch = p.coordinator.Intercept(ctx, NewDirectory(db), ActorFrom(ctx), changes)
		}
		if len(batch.Records) == 0 {
			return
		}

		if err := p.store.AppendTx(db.Session(&gorm.Session{NewDB: true}), batch.Records); err != nil {
			metrics.AuditWriteFailures.Inc()
			logger.WithContext(ctx).Error("审计记录写入失败，事务将回滚", zap.Error(err))
			_ = db.AddError(err)
		}
	}
}

// collect 从语句的目标值中提取可审计实体
func (p *Plugin) collect(db *gorm.DB, state TransitionState) []Change {
	rv := reflect.Indirect(db.Statement.ReflectValue)
	if !rv.IsValid() {
		return nil
	}

	if state == StateModified {
		// 旧值只针对单个用户读取；新值按主键重新读取，Updates(map) 时模型上只有 ID
		snapshot, ok := db.InstanceGet(beforeSnapshotKey)
		if !ok {
			return nil
		}
		before := snapshot.(*identity.User)
		after, err := loadUser(db, before.ID)
		if err != nil {
			logger.WithContext(db.Statement.Context).Debug("读取用户新值失败，跳过更新审计",
				zap.String("user_id", before.ID), zap.Error(err))
			return nil
		}
		return []Change{{Entity: after, State: state, Original: before}}
	}

	var changes []Change
	add := func(v reflect.Value) {
		v = reflect.Indirect(v)
		if v.Kind() != reflect.Struct || !v.CanInterface() {
			return
		}
		entity := v.Interface()
		if KindOf(entity) == EntityUnknown {
			return
		}
		changes = append(changes, Change{Entity: entity, State: state})
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			add(rv.Index(i))
		}
	case reflect.Struct:
		add(rv)
	}
	return changes
}
