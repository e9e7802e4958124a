package transport

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"Dawnforge/modules/kit/logx"
	"Dawnforge/modules/kit/tracex"
)

func TestFinish_失败带原因并沿用trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := logx.NewZapLogger(zap.New(core))

	ctx := NewContextWithParent(tracex.WithTraceID(context.Background(), "t-1"), "POST /api/saves/:name")
	SetErrorReason(ctx, "GAME_CONFLICT")
	Finish(ctx, l, Rejected)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望一条访问日志，got=%d", len(entries))
	}
	e := entries[0]
	if e.Level != zapcore.WarnLevel {
		t.Fatalf("期望 409 记 WARN，got=%v", e.Level)
	}
	fields := e.ContextMap()
	if fields["error_reason"] != "GAME_CONFLICT" || fields["result"] != "failure" {
		t.Fatalf("期望失败原因写入日志，got=%v", fields)
	}
	if fields["trace_id"] != "t-1" {
		t.Fatalf("期望沿用调用方 trace，got=%v", fields["trace_id"])
	}
}

func TestWriteAccessLog_没有访问记录时不输出(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	WriteAccessLog(context.Background(), logx.NewZapLogger(zap.New(core)))
	if logs.Len() != 0 {
		t.Fatalf("期望不输出日志")
	}
}
