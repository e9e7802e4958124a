package handler

import (
	"context"

	"Dawnforge/internal/settlement/actor"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/errx"
	"Dawnforge/modules/kit/logx"
)

const busyMsg = "server busy, please retry later"

// HandleError 返回业务码和对外文案。业务拒绝原样透出文案；
// 系统错误只给通用文案，细节进日志。
func HandleError(ctx context.Context, l logx.Logger, action string, err error) (int, string) {
	code := actor.CodeFromError(err)
	msg := err.Error()
	if e, ok := errx.From(err); ok {
		transport.SetErrorReason(ctx, e.CodeText())
		if e.Msg() != "" {
			msg = e.Msg()
		}
	}
	if code != transport.SystemError {
		return code, msg
	}
	logx.ReportSysErrorWithLoggerContext(ctx, l, logx.NewSysLog(action, err))
	return code, busyMsg
}
