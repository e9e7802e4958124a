package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
httpserver:
  host: 127.0.0.1
  port: 8080
game:
  log_limit: 50
  tick_ms: 1000
  starting_resources:
    food: 200
    wood: 200
  world:
    radius: 8
storage:
  driver: sqlite
  compress: true
sqlite:
  path: data/saves.db
session:
  jwt_secret: from-file
`

func TestLoad_从上级目录查找配置(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, defaultConfigRelPath), []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "cmd", "server")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)
	t.Setenv("JWT_SECRET", "")

	Load("")
	c := Get()
	if c.HTTPServer.Port != 8080 || c.Game.LogLimit != 50 || c.Game.World.Radius != 8 {
		t.Fatalf("期望读到配置，got=%+v", c)
	}
	if c.Game.StartingResources["food"] != 200 || c.Storage.Driver != "sqlite" || !c.Storage.Compress {
		t.Fatalf("期望嵌套配置解析正确，got=%+v", c)
	}
	if os.Getenv("JWT_SECRET") != "from-file" {
		t.Fatalf("期望回填 JWT_SECRET")
	}
}
