package errors

import (
	"errors"
	"fmt"
	"liqflow/pkg/errors/ecode"
)

// 携带业务错误码的error，handler层统一通过DecodeErr还原成响应码

type withCode struct {
	code  int
	msg   string
	cause error
}

func (w *withCode) Error() string {
	if w.cause != nil {
		return fmt.Sprintf("%s: %v", w.msg, w.cause)
	}
	return w.msg
}

func (w *withCode) Unwrap() error { return w.cause }

// WithCode 创建一个带错误码的error
func WithCode(code int, format string, args ...interface{}) error {
	return &withCode{
		code: code,
		msg:  fmt.Sprintf(format, args...),
	}
}

// Wrap 包装已有error并附加错误码和说明
func Wrap(err error, code int, msg string) error {
	if err == nil {
		return nil
	}
	return &withCode{
		code:  code,
		msg:   msg,
		cause: err,
	}
}

// DecodeErr 解析error中的错误码和提示信息
// err为nil时返回成功码
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Message(ecode.Success)
	}
	var wc *withCode
	if errors.As(err, &wc) {
		return wc.code, wc.Error()
	}
	return ecode.Unknown, err.Error()
}
