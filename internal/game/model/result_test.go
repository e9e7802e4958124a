package model

import (
	"testing"

	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

func TestApply_资源增量精确入账(t *testing.T) {
	s := NewGameState("dark_age")
	s.Resources[resource.Food] = 100
	Apply(s, &Result{ResourceDeltas: resource.Cost(resource.Ledger{resource.Food: 50}, 2)}, 1, 0)
	if s.Resources[resource.Food] != 0 {
		t.Fatalf("期望 100-50*2=0，got=%d", s.Resources[resource.Food])
	}
}

func TestApply_日志只保留最新的若干条(t *testing.T) {
	s := NewGameState("dark_age")
	for i := int64(1); i <= 5; i++ {
		Apply(s, &Result{Log: "entry"}, i, 3)
	}
	if len(s.Log) != 3 || s.Log[0].Time != 3 || s.Log[2].Time != 5 {
		t.Fatalf("期望保留最新 3 条，got=%+v", s.Log)
	}
}

func TestApply_任务增删改(t *testing.T) {
	s := NewGameState("dark_age")
	s.Tasks = []task.Task{{ID: "a", Kind: task.KindBuild, Duration: 10}, {ID: "b", Kind: task.KindResearch, Duration: 10}}
	Apply(s, &Result{
		RemovedTaskIDs: []string{"a"},
		UpdatedTasks:   []task.Task{{ID: "b", Kind: task.KindResearch, Duration: 1}},
		NewTasks:       []task.Task{{ID: "c", Kind: task.KindGather}},
	}, 1, 0)
	if len(s.Tasks) != 2 || s.Tasks[0].ID != "b" || s.Tasks[0].Duration != 1 || s.Tasks[1].ID != "c" {
		t.Fatalf("期望 [b(1) c]，got=%+v", s.Tasks)
	}
}

func TestApply_单位按种类归队_道具消耗(t *testing.T) {
	s := NewGameState("dark_age")
	s.Inventory = []InventoryItem{{ID: "i1"}, {ID: "i2"}}
	Apply(s, &Result{
		UpdatedUnits:    []Unit{{ID: "u1", Kind: gameconfig.UnitVillager}, {ID: "u2", Kind: gameconfig.UnitMilitary}},
		ConsumedItemIDs: []string{"i1"},
		NewInventory:    []InventoryItem{{ID: "i3"}},
	}, 1, 0)
	if len(s.Villagers) != 1 || len(s.Military) != 1 {
		t.Fatalf("期望村民 1 军队 1，got=%d/%d", len(s.Villagers), len(s.Military))
	}
	if len(s.Inventory) != 2 || s.Inventory[0].ID != "i2" || s.Inventory[1].ID != "i3" {
		t.Fatalf("期望背包 [i2 i3]，got=%+v", s.Inventory)
	}
}

func TestApply_升级换桶(t *testing.T) {
	s := NewGameState("dark_age")
	s.Buildings["watch_tower"] = []BuildingInstance{{ID: "wt", Type: "watch_tower"}}
	Apply(s, &Result{UpdatedBuildings: []BuildingInstance{{ID: "wt", Type: "guard_tower"}}}, 1, 0)
	if _, ok := s.Buildings["watch_tower"]; ok {
		t.Fatalf("期望空桶被删除")
	}
	if b, ok := s.Building("wt"); !ok || b.Type != "guard_tower" {
		t.Fatalf("期望建筑换到新类型，got=%+v", b)
	}
}

func TestClone_深拷贝互不影响(t *testing.T) {
	s := NewGameState("dark_age")
	s.Resources[resource.Wood] = 10
	s.Nodes = []ResourceNode{{ID: "n", AssignedWorkerIDs: []string{"v1"}}}
	c := s.Clone()
	c.Resources[resource.Wood] = 0
	c.Nodes[0].AssignedWorkerIDs[0] = "v2"
	if s.Resources[resource.Wood] != 10 || s.Nodes[0].AssignedWorkerIDs[0] != "v1" {
		t.Fatalf("期望原状态不受影响")
	}
}
