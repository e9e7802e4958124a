package logx

import (
	"context"
	"errors"
	"testing"

	"Dawnforge/modules/kit/errx"
	"Dawnforge/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("SYS_INTERNAL", "服务器内部错误").
		WithData("save", "s1").
		WithCause(errors.New("db down"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空，got=%+v", meta)
	}
	if meta.Biz {
		t.Fatalf("期望系统错误 Biz=false")
	}
	if meta.Data == nil || meta.Data["save"] != "s1" {
		t.Fatalf("期望 meta.Data 包含 save=s1, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望栈信息非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestReportError_业务拒绝走INFO(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	err := errx.NewBiz("GAME_CONFLICT", "building is busy")
	ReportErrorWithLoggerContext(context.Background(), l, "action DEMOLISH", err)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望 1 条日志，got=%d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Fatalf("期望 INFO，got=%v", entries[0].Level)
	}
	if got := entries[0].ContextMap()["err_type"]; got != "biz" {
		t.Fatalf("期望 err_type=biz，got=%v", got)
	}
}

func TestReportError_系统错误走ERROR且带trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithTraceID(context.Background(), "t-9")
	err := errx.ErrUnavailable.WithCause(errors.New("mongo down"))
	ReportErrorWithLoggerContext(ctx, l, "save flush", err)

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("期望 1 条 ERROR 日志，got=%v", entries)
	}
	fields := entries[0].ContextMap()
	if fields["trace_id"] != "t-9" {
		t.Fatalf("期望带上 trace_id，got=%v", fields["trace_id"])
	}
	if fields["err_type"] != "sys" {
		t.Fatalf("期望 err_type=sys，got=%v", fields["err_type"])
	}
}

func TestReportAccess_按业务码分级(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ReportAccessWithLoggerContext(context.Background(), l, "GET /healthz", 0)
	ReportAccessWithLoggerContext(context.Background(), l, "POST /api", 409)
	ReportAccessWithLoggerContext(context.Background(), l, "POST /api", 500)

	want := []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("期望 %d 条，got=%d", len(want), len(entries))
	}
	for i, e := range entries {
		if e.Level != want[i] {
			t.Fatalf("第 %d 条期望 %v，got=%v", i, want[i], e.Level)
		}
	}
}
