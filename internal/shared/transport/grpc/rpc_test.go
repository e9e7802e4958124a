package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	"Dawnforge/modules/kit/tracex"
)

func TestHealth_就绪前后状态切换(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := NewServer(lis.Addr().String(), nil)
	go func() { _ = s.Serve(lis) }()
	defer s.Stop()

	conn, client, err := DialHealth(lis.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	st, err := Check(ctx, client)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if st != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("期望 NOT_SERVING，got=%v", st)
	}

	s.SetServing(true)
	st, err = Check(ctx, client)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if st != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("期望 SERVING，got=%v", st)
	}
}

func TestTrace_入站元数据写回ctx(t *testing.T) {
	md := metadata.Pairs(mdTraceID, "abc", mdSpanID, "admin")
	ctx := traceFromMD(metadata.NewIncomingContext(context.Background(), md))
	if got, _ := tracex.TraceIDFrom(ctx); got != "abc" {
		t.Fatalf("期望 trace_id=abc，got=%q", got)
	}
	if got, _ := tracex.SpanIDFrom(ctx); got != "admin" {
		t.Fatalf("期望 span_id=admin，got=%q", got)
	}
}

func TestTrace_出站无trace时不加元数据(t *testing.T) {
	ctx := traceToMD(context.Background())
	if _, ok := metadata.FromOutgoingContext(ctx); ok {
		t.Fatalf("期望没有出站元数据")
	}
	ctx = traceToMD(tracex.WithTraceID(context.Background(), "t1"))
	md, _ := metadata.FromOutgoingContext(ctx)
	if got := md.Get(mdTraceID); len(got) != 1 || got[0] != "t1" {
		t.Fatalf("期望 x-trace-id=t1，got=%v", got)
	}
}
