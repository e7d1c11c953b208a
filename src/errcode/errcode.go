package errcode

import (
	"errors"
	"fmt"
)

// 业务错误码定义
const (
	CodeOK            = 200
	CodeInvalidParams = 10001
	CodeUnexpected    = 10002
	CodeNotFound      = 10004
	CodeCustom        = 10005
)

// Err 携带业务错误码的error
type Err struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

func NewErr(code int, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// NewCustomErr 自定义错误信息
func NewCustomErr(msg string) *Err {
	return NewErr(CodeCustom, msg)
}

var (
	ErrInvalidParams = NewErr(CodeInvalidParams, "invalid params")
	ErrUnexpected    = NewErr(CodeUnexpected, "unexpected error")
	ErrNotFound      = NewErr(CodeNotFound, "record not found")
)

// IsErr 判断error是否为业务错误，支持被wrap过的错误链
func IsErr(err error) (*Err, bool) {
	var e *Err
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
