package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput 在请求字段缺失或格式不合法时返回，具体原因通过 %w 包装附带
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden 在调用者没有操作目标资源的权限时返回
	ErrForbidden = errors.New("forbidden")
)

// Actor identifies the caller of a service operation.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

// CanModify reports whether the actor may mutate a resource owned by ownerID.
// Administrators may modify anything; everyone else only their own records.
func (a Actor) CanModify(ownerID uint) bool {
	if a.UserID == 0 {
		return false
	}
	return a.IsAdmin || a.UserID == ownerID
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ValidationMessage 提取 ErrInvalidInput 包装的具体原因，便于直接返回给客户端。
func ValidationMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := ErrInvalidInput.Error() + ": "
	if idx := strings.Index(msg, prefix); idx >= 0 {
		return msg[idx+len(prefix):]
	}
	return msg
}
