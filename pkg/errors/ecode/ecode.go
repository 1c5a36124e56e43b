package ecode

// 业务错误码，0表示成功
const (
	Success = 0

	Unknown        = 10001 // 未知错误
	ValidateErr    = 10002 // 参数校验失败
	NotFoundErr    = 10003 // 资源不存在
	InternalErr    = 10004 // 内部错误（逻辑缺陷等硬错误）
	RequireAuthErr = 10005 // 鉴权失败
	UpstreamErr    = 10006 // 上游数据源失败
)

var messages = map[int]string{
	Success:        "ok",
	Unknown:        "unknown error",
	ValidateErr:    "validation failed",
	NotFoundErr:    "resource not found",
	InternalErr:    "internal error",
	RequireAuthErr: "authorization required",
	UpstreamErr:    "upstream data source error",
}

// Message 返回错误码的默认描述
func Message(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[Unknown]
}
