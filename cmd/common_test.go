package cmd

import (
	"testing"

	"go.uber.org/zap"

	"Dawnforge/internal/shared/config"
	"Dawnforge/internal/shared/logs"
)

func TestReadConfig(t *testing.T) {
	path := config.Load("")
	conf := config.Get()

	logCfg := conf.Log
	logCfg.FileDir = ""
	if err := logs.Init("TestReadConfig", logCfg); err != nil {
		t.Fatalf("logs.Init err=%v", err)
	}
	logs.Info("conf", zap.String("path", path), zap.Any("storage", conf.Storage))

	if conf.HTTPServer.Port == 0 || conf.GRPCServer.Port == 0 {
		t.Fatalf("期望配置了 http 与 grpc 端口，got=%+v %+v", conf.HTTPServer, conf.GRPCServer)
	}
	if conf.Game.StartingVillagers <= 0 || len(conf.Game.StartingResources) == 0 {
		t.Fatalf("期望配置了开局资源与村民，got=%+v", conf.Game)
	}
	if conf.Storage.Driver == "" {
		t.Fatalf("期望配置了 storage.driver")
	}
}
