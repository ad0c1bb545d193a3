package errors

import "errors"

// ErrForbidden 资源不属于当前用户
var ErrForbidden = errors.New("无权访问该资源")
