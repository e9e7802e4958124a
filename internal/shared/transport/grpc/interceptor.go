package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/logx"
	"Dawnforge/modules/kit/tracex"
)

// 元数据里的 trace 头，和 HTTP 的 X-Trace-Id 对应
const (
	mdTraceID = "x-trace-id"
	mdSpanID  = "x-span-id"
)

// accessInterceptor 入站时取出 trace，出站时按 gRPC 状态码记一条访问日志。
func accessInterceptor(log logx.Logger) gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		ctx = transport.NewContextWithParent(traceFromMD(ctx), "GRPC "+info.FullMethod)
		resp, err := handler(ctx, req)
		code := transport.OK
		if err != nil {
			code = transport.SystemError
			transport.SetErrorReason(ctx, status.Code(err).String())
		}
		transport.Finish(ctx, log, code)
		return resp, err
	}
}

// health Watch 是流式接口，只透传 trace。
func streamTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, _ *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		return handler(srv, &tracedStream{ServerStream: ss, ctx: traceFromMD(ss.Context())})
	}
}

type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

// traceOutInterceptor 给 admin 的调用带上本地 trace。
func traceOutInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(traceToMD(ctx), method, req, reply, cc, opts...)
	}
}

func traceToMD(ctx context.Context) context.Context {
	var kv []string
	if id, ok := tracex.TraceIDFrom(ctx); ok {
		kv = append(kv, mdTraceID, id)
	}
	if id, ok := tracex.SpanIDFrom(ctx); ok {
		kv = append(kv, mdSpanID, id)
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func traceFromMD(ctx context.Context) context.Context {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	if v := md.Get(mdTraceID); len(v) > 0 && v[0] != "" {
		ctx = tracex.WithTraceID(ctx, v[0])
	}
	if v := md.Get(mdSpanID); len(v) > 0 && v[0] != "" {
		ctx = tracex.WithSpanID(ctx, v[0])
	}
	return ctx
}
