package transport

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Dawnforge/modules/kit/logx"
	"Dawnforge/modules/kit/tracex"
)

// accessRecord 一次入站请求的访问记录，HTTP、WS、gRPC 三个入口共用。
// 默认结果是系统错误，由 handler 或中间件改写。
type accessRecord struct {
	action string
	start  time.Time
	code   BizCode
	reason string
}

type recordKey struct{}

func NewContext(action string) context.Context {
	return NewContextWithParent(context.Background(), action)
}

// NewContextWithParent 在 parent 上挂一条新的访问记录，已有 trace id 时沿用。
func NewContextWithParent(parent context.Context, action string) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	if action == "" {
		action = "unknown"
	}
	rec := &accessRecord{action: action, start: time.Now(), code: BizCode(SystemError)}
	return context.WithValue(tracex.Ensure(parent, "settlement"), recordKey{}, rec)
}

func recordOf(ctx context.Context) *accessRecord {
	if ctx == nil {
		return nil
	}
	rec, _ := ctx.Value(recordKey{}).(*accessRecord)
	return rec
}

func SetBizCode(ctx context.Context, code BizCode) {
	if rec := recordOf(ctx); rec != nil {
		rec.code = code
	}
}

// SetErrorReason 只在失败时写进日志，空串忽略。
func SetErrorReason(ctx context.Context, reason string) {
	if rec := recordOf(ctx); rec != nil && reason != "" {
		rec.reason = reason
	}
}

// Finish 定下业务码并输出这条访问日志。
func Finish(ctx context.Context, log logx.Logger, code int) {
	SetBizCode(ctx, BizCode(code))
	WriteAccessLog(ctx, log)
}

func WriteAccessLog(ctx context.Context, log logx.Logger) {
	rec := recordOf(ctx)
	if rec == nil || log == nil {
		return
	}
	fields := []zap.Field{zap.Duration("latency", time.Since(rec.start))}
	switch {
	case rec.code == BizCode(OK):
		fields = append(fields, zap.String("result", "success"))
	case rec.reason != "":
		fields = append(fields, zap.String("result", "failure"), zap.String("error_reason", rec.reason))
	default:
		fields = append(fields, zap.String("result", "failure"))
	}
	logx.ReportAccessWithLoggerContext(ctx, log, rec.action, int(rec.code), fields...)
}
