package errx

// 跨模块统一的系统类错误码。
//
// 约束：
// - 只放“技术类”错误码（存储不可用、超时、内部错误），用于告警与排障
// - 玩法拒绝（资源不足、前置缺失等）由 internal/game/model 自己定义，不允许放进 kit

const (
	// CodeInternal 兜底的内部错误。
	CodeInternal Code = "INTERNAL_ERROR"
	// CodeUnavailable 依赖不可用（存档库、actor 运行时等）。
	CodeUnavailable Code = "SERVICE_UNAVAILABLE"
	// CodeTimeout 请求或依赖调用超时。
	CodeTimeout Code = "TIMEOUT"
	// CodeNotFound 目标不存在（存档名、会话等）。
	CodeNotFound Code = "NOT_FOUND"
	// CodePrecondition 调用方违反了前置约束（目录数据损坏、任务 id 冲突）。
	CodePrecondition Code = "PRECONDITION_VIOLATED"
	// CodeReqParamError 请求参数错误。
	CodeReqParamError Code = "CODE_REQ_PARAM_ERROR"
)

// 系统类哨兵错误，派生请用 WithData/WithCause。
var (
	ErrInternal     = NewSys(CodeInternal, "服务器内部错误")
	ErrUnavailable  = NewSys(CodeUnavailable, "服务不可用")
	ErrTimeout      = NewSys(CodeTimeout, "请求超时")
	ErrNotFound     = NewBiz(CodeNotFound, "目标不存在")
	ErrPrecondition = NewSys(CodePrecondition, "前置约束被破坏")
	ErrReqParamERR  = NewBiz(CodeReqParamError, "请求参数错误")
)
