package transport

// BizCode 是响应体里的业务码，access 日志按它分级。
type BizCode int

const (
	OK           = 0
	InvalidParam = 400
	Unauthorized = 401 // token 无效或未订阅存档
	NotFound     = 404
	Rejected     = 409
	SystemError  = 500
)
