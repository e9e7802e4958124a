package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/game/gametest"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/rng"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/game/worldgen"
	"Dawnforge/internal/settlement/entity"
)

func newService(world worldgen.Config) *Service {
	return NewService(Options{
		Catalogs:          gametest.Catalogs(),
		LogLimit:          10,
		StartingResources: resource.Ledger{resource.Food: 200, resource.Wood: 200, resource.Gold: 100, resource.Stone: 50},
		StartingVillagers: 3,
		World:             world,
		Rand:              rng.Fixed(0),
		NewID:             gametest.IDs("id"),
	})
}

func buildHouse(x, y int) action.Request {
	return action.Request{Type: action.KindBuild, Payload: map[string]any{
		"buildingType": "house",
		"position":     map[string]any{"x": x, "y": y},
	}}
}

func TestNewGame_开局带城镇中心村民和资源(t *testing.T) {
	svc := newService(worldgen.Config{})
	st, err := svc.NewGame("alpha", gametest.Now)
	if err != nil {
		t.Fatalf("NewGame err=%v", err)
	}
	s := st.State()
	if s.Era != "dark_age" {
		t.Fatalf("期望第一个时代 dark_age，got=%q", s.Era)
	}
	if !s.HasBuildingType("town_center") {
		t.Fatalf("期望有城镇中心")
	}
	if tc := s.Buildings["town_center"][0]; tc.Position != (model.Position{}) {
		t.Fatalf("期望城镇中心在原点，got=%+v", tc.Position)
	}
	if len(s.Villagers) != 3 {
		t.Fatalf("期望 3 个村民，got=%d", len(s.Villagers))
	}
	if s.Resources[resource.Wood] != 200 || s.Resources[resource.Stone] != 50 {
		t.Fatalf("期望起始资源，got=%v", s.Resources)
	}
	if len(s.Log) != 1 {
		t.Fatalf("期望一条开局日志，got=%v", s.Log)
	}
	if !st.Dirty() {
		t.Fatalf("期望新开局待落库")
	}
}

func TestNewGame_按配置生成资源点(t *testing.T) {
	cfg := worldgen.DefaultConfig()
	cfg.Seed = 42
	svc := newService(cfg)
	st, err := svc.NewGame("alpha", gametest.Now)
	if err != nil {
		t.Fatalf("NewGame err=%v", err)
	}
	if len(st.State().Nodes) == 0 {
		t.Fatalf("期望生成资源点")
	}
}

func TestNewGame_非法存档名(t *testing.T) {
	svc := newService(worldgen.Config{})
	for _, name := range []string{"", "a b", "../x"} {
		if _, err := svc.NewGame(name, gametest.Now); !errors.Is(err, ErrInvalidSaveName) {
			t.Fatalf("期望 %q 被拒绝，got=%v", name, err)
		}
	}
}

func TestDispatch_拒绝时状态不变且不置脏(t *testing.T) {
	svc := newService(worldgen.Config{})
	st := entity.Hydrate(&entity.PersistSnapshot{Name: "alpha", State: gametest.NewState().Build()})
	before := st.State().Clone()

	_, err := svc.Dispatch(context.Background(), st, buildHouse(2, 2), gametest.Now)
	if !errors.Is(err, model.ErrInsufficientResources) {
		t.Fatalf("期望资源不足，got=%v", err)
	}
	if !reflect.DeepEqual(before, st.State()) {
		t.Fatalf("期望被拒绝后状态不变")
	}
	if st.Dirty() {
		t.Fatalf("期望被拒绝后不置脏")
	}
}

func TestDispatchTick_建造到期只结算一次(t *testing.T) {
	svc := newService(worldgen.Config{})
	st, _ := svc.NewGame("alpha", gametest.Now)
	ctx := context.Background()

	if _, err := svc.Dispatch(ctx, st, buildHouse(2, 2), gametest.Now); err != nil {
		t.Fatalf("Dispatch err=%v", err)
	}
	if got := st.State().Resources[resource.Wood]; got != 150 {
		t.Fatalf("期望扣除 50 木材，got=%d", got)
	}

	if r := svc.Tick(ctx, st, gametest.Now+1_000); len(r.Resolved) != 0 {
		t.Fatalf("期望未到期不结算")
	}
	views := svc.Progress(st, gametest.Now+12_500)
	if len(views) != 1 || views[0].Progress != 0.5 || views[0].Remaining != 12_500 {
		t.Fatalf("期望进度 0.5 剩余 12.5s，got=%+v", views)
	}

	r := svc.Tick(ctx, st, gametest.Now+25_000)
	if len(r.Resolved) != 1 || r.Resolved[0].Kind != task.KindBuild {
		t.Fatalf("期望结算一个建造任务，got=%+v", r.Resolved)
	}
	if len(st.State().Buildings["house"]) != 1 {
		t.Fatalf("期望多出一座房子")
	}
	if r := svc.Tick(ctx, st, gametest.Now+30_000); len(r.Resolved) != 0 {
		t.Fatalf("期望同一任务不会再次结算")
	}
	if len(st.State().Buildings["house"]) != 1 {
		t.Fatalf("期望房子数量不变")
	}
}

func TestTick_清理过期buff(t *testing.T) {
	svc := newService(worldgen.Config{})
	st := entity.Hydrate(&entity.PersistSnapshot{Name: "alpha", State: gametest.NewState().
		Buff(model.BuffBuildTime, 20, gametest.Now+10).Build()})

	svc.Tick(context.Background(), st, gametest.Now+10)
	if _, ok := st.State().Buffs[model.BuffBuildTime]; ok {
		t.Fatalf("期望过期 buff 被清理")
	}
}
