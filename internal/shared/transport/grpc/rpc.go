package grpc

import (
	"context"
	"fmt"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"Dawnforge/modules/kit/logx"
)

// ServiceName 是健康检查里登记的服务名。
const ServiceName = "dawnforge.settlement"

// Server 只承载标准健康检查服务。
type Server struct {
	srv    *gogrpc.Server
	health *health.Server
	addr   string
}

func NewServer(addr string, l logx.Logger) *Server {
	if l == nil {
		l = logx.Nop()
	}
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(accessInterceptor(l)),
		gogrpc.ChainStreamInterceptor(streamTraceInterceptor()),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{srv: srv, health: hs, addr: addr}
}

// SetServing 在存档库与 actor 系统就绪后置为 SERVING。
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(ServiceName, status)
	s.health.SetServingStatus("", status)
}

// Start 阻塞运行。
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", s.addr, err)
	}
	return s.Serve(lis)
}

func (s *Server) Serve(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// DialHealth 建立连接并返回健康检查客户端，admin 命令使用。
func DialHealth(target string) (*gogrpc.ClientConn, healthpb.HealthClient, error) {
	opts := []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(traceOutInterceptor()),
	}
	conn, err := gogrpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("dial %s failed: %w", target, err)
	}
	return conn, healthpb.NewHealthClient(conn), nil
}

// Check 查询 ServiceName 的状态。
func Check(ctx context.Context, client healthpb.HealthClient) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}
