package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
}

func TestEnsure_已有trace时保留(t *testing.T) {
	ctx := Ensure(WithTraceID(context.Background(), "keep"), "settlement")
	if got, _ := TraceIDFrom(ctx); got != "keep" {
		t.Fatalf("期望保留已有 trace_id，got=%q", got)
	}
	if got, _ := SpanIDFrom(ctx); got != "settlement" {
		t.Fatalf("期望 span=settlement，got=%q", got)
	}
}

func TestEnsure_无trace时生成(t *testing.T) {
	ctx := Ensure(context.Background(), "")
	got, ok := TraceIDFrom(ctx)
	if !ok || len(got) != 32 {
		t.Fatalf("期望生成 32 位 hex trace_id，got=%q", got)
	}
	if _, ok := SpanIDFrom(ctx); ok {
		t.Fatalf("期望空 span 不写入")
	}
}
