package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/worldgen"
	settlementactor "Dawnforge/internal/settlement/actor"
	"Dawnforge/internal/settlement/actors"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/infra/persistence"
	"Dawnforge/internal/settlement/interfaces"
	wshandler "Dawnforge/internal/settlement/interfaces/handler/ws"
	"Dawnforge/internal/shared/config"
	"Dawnforge/internal/shared/gameconfig"
	"Dawnforge/internal/shared/logs"
	"Dawnforge/internal/shared/session"
	transportgrpc "Dawnforge/internal/shared/transport/grpc"
	transporthttp "Dawnforge/internal/shared/transport/http"
	"Dawnforge/internal/shared/transport/ws"
	"Dawnforge/modules/kit/logx"
)

func main() {
	confPath := flag.String("config", "", "config file, defaults to configs/conf.yml searched upward")
	flag.Parse()

	config.Load(*confPath)
	conf := config.Get()
	if err := logs.Init("settlement", conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("storage", conf.Storage), zap.Any("game", conf.Game))

	baseLogger := logx.NewZapLogger(logs.L())

	catalogs, err := loadCatalogs(conf.Game.CatalogDir)
	if err != nil {
		logs.Fatal("load catalogs failed", zap.Error(err))
	}
	logs.Info("catalogs loaded", zap.String("digest", catalogs.Digest()))

	repo, closeStore, err := persistence.Open(context.Background(), conf, logs.L())
	if err != nil {
		logs.Fatal("open save store failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	svc := app.NewService(app.Options{
		Catalogs:          catalogs,
		LogLimit:          conf.Game.LogLimit,
		Unlimited:         conf.Game.Unlimited,
		StartingResources: startingResources(conf.Game.StartingResources),
		StartingVillagers: conf.Game.StartingVillagers,
		World:             worldgen.Config(conf.Game.World),
		Logger:            baseLogger,
	})

	sessMgr := session.NewSessMgr()
	rt := settlementactor.NewRuntime(actors.Deps{
		Service:     svc,
		Repo:        repo,
		Notifier:    wshandler.NewNotifier(sessMgr),
		Logger:      baseLogger,
		TickEvery:   time.Duration(conf.Game.TickMS) * time.Millisecond,
		FlushEvery:  time.Duration(conf.Game.FlushMS) * time.Millisecond,
		IdleTimeout: time.Duration(conf.Game.IdleS) * time.Second,
	}, 0)

	module := interfaces.New(rt, repo, sessMgr, time.Duration(conf.Session.TTLHours)*time.Hour, baseLogger)

	wsRouter := ws.NewRouter(baseLogger)
	wsRouter.Register(module)

	httpServer := transporthttp.NewHttpServer(hostPort(conf.HTTPServer.Host, conf.HTTPServer.Port), nil, baseLogger)
	httpServer.Register(module)
	wsServer := ws.NewServer(wsRouter, baseLogger, conf.HTTPServer.NeedSecret)
	httpServer.Engine().Any("/ws", gin.WrapH(wsServer))

	grpcAddr := hostPort(conf.GRPCServer.Host, conf.GRPCServer.Port)
	grpcServer := transportgrpc.NewServer(grpcAddr, baseLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
		}
	}()
	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("grpc server start failed: %w", err)
		}
	}()
	grpcServer.SetServing(true)
	logs.Info("settlement server started",
		zap.String("http", hostPort(conf.HTTPServer.Host, conf.HTTPServer.Port)),
		zap.String("grpc", grpcAddr),
	)

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	grpcServer.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 先停 actor，让每个存档把脏数据写完，再关存储
	rt.Shutdown()
	grpcServer.Stop()
}

func loadCatalogs(dir string) (*gameconfig.Catalogs, error) {
	if dir == "" {
		dir = gameconfig.DefaultDir()
	}
	return gameconfig.Load(dir)
}

func startingResources(in map[string]int) resource.Ledger {
	out := make(resource.Ledger, len(in))
	for k, v := range in {
		out[resource.Kind(k)] = v
	}
	return out
}

func hostPort(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, port)
}
