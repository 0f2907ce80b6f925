package identity

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("identity: user not found")
	ErrRoleNotFound      = errors.New("identity: role not found")
	ErrDuplicateEmail    = errors.New("identity: email already taken")
	ErrDuplicateRole     = errors.New("identity: role already exists")
	ErrInvalidEmail      = errors.New("identity: invalid email")
	ErrMissingParameters = errors.New("identity: missing parameters")
	ErrClaimNotFound     = errors.New("identity: claim not found")
)

// NotFoundMessage 生成对外展示的用户未找到提示
func NotFoundMessage(id, email string) string {
	switch {
	case id != "" && email != "":
		return fmt.Sprintf("User with id %s or email %s not found", id, email)
	case id != "":
		return fmt.Sprintf("User with id %s not found", id)
	case email != "":
		return fmt.Sprintf("User with email %s not found", email)
	default:
		return "User not found"
	}
}
