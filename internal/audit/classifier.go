package audit

// Classify 根据实体类型与变化状态决定审计动作
// 返回 false 表示该变化不产生审计记录。
func Classify(kind EntityKind, state TransitionState) (ActionKind, bool) {
	switch kind {
	case EntityUser:
		switch state {
		case StateAdded:
			return ActionCreate, true
		case StateModified:
			return ActionUpdate, true
		}
	case EntityUserRole:
		switch state {
		case StateAdded:
			return ActionAddRole, true
		case StateDeleted:
			return ActionRemoveRole, true
		}
	}
	return "", false
}
