package audit

import "github.com/HealthResearchAuthority/rsp-usermanagement-service/internal/identity"

// TransitionState 实体在本次提交中经历的变化
type TransitionState int

const (
	StateAdded TransitionState = iota + 1
	StateModified
	StateDeleted
)

func (s TransitionState) String() string {
	switch s {
	case StateAdded:
		return "added"
	case StateModified:
		return "modified"
	case StateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// EntityKind 可审计实体类型
type EntityKind int

const (
	EntityUnknown EntityKind = iota
	EntityUser
	EntityUserRole
)

func (k EntityKind) String() string {
	switch k {
	case EntityUser:
		return "user"
	case EntityUserRole:
		return "user_role"
	default:
		return "unknown"
	}
}

// ActionKind 审计动作
type ActionKind string

const (
	ActionCreate     ActionKind = "create"
	ActionUpdate     ActionKind = "update"
	ActionAddRole    ActionKind = "add_role"
	ActionRemoveRole ActionKind = "remove_role"
)

// Change 一次实体变更
//
// Original 仅对 Modified 的用户有效，为同一事务内读取到的持久化旧值。
type Change struct {
	Entity   any
	State    TransitionState
	Original any
}

// KindOf 解析实体类型，同一实体只会匹配一种类型
func KindOf(entity any) EntityKind {
	switch entity.(type) {
	case *identity.User, identity.User:
		return EntityUser
	case *identity.UserRole, identity.UserRole:
		return EntityUserRole
	default:
		return EntityUnknown
	}
}

func asUser(entity any) (*identity.User, bool) {
	switch u := entity.(type) {
	case *identity.User:
		return u, u != nil
	case identity.User:
		return &u, true
	default:
		return nil, false
	}
}

func asUserRole(entity any) (*identity.UserRole, bool) {
	switch ur := entity.(type) {
	case *identity.UserRole:
		return ur, ur != nil
	case identity.UserRole:
		return &ur, true
	default:
		return nil, false
	}
}
