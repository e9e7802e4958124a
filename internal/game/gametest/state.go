package gametest

import (
	"fmt"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// Now 是测试统一使用的时钟起点（毫秒）。
const Now int64 = 1_700_000_000_000

// TownCenterID 是 NewState 自带的城镇中心实例 id。
const TownCenterID = "tc-1"

// Builder 以链式调用拼装测试状态。
type Builder struct {
	s *model.GameState
}

// NewState 默认状态：黑暗时代、原点一座城镇中心（住房 5）、资源全 0。
func NewState() *Builder {
	s := model.NewGameState("dark_age")
	s.Resources = resource.Ledger{resource.Food: 0, resource.Wood: 0, resource.Gold: 0, resource.Stone: 0}
	s.Buildings["town_center"] = []model.BuildingInstance{{ID: TownCenterID, Type: "town_center", Name: "Town Center", HP: 2400}}
	return &Builder{s: s}
}

func (b *Builder) Resources(l resource.Ledger) *Builder {
	for k, v := range l {
		b.s.Resources[k] = v
	}
	return b
}

func (b *Builder) Era(era string) *Builder {
	b.s.Era = era
	return b
}

// Villagers 追加 n 个村民，id 为 v-1、v-2……
func (b *Builder) Villagers(n int) *Builder {
	start := len(b.s.Villagers)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("v-%d", start+i)
		b.s.Villagers = append(b.s.Villagers, model.Unit{ID: id, Name: "Villager " + id, Kind: gameconfig.UnitVillager, UnitType: "villager"})
	}
	return b
}

func (b *Builder) Military(unitType string, n int) *Builder {
	start := len(b.s.Military)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("m-%d", start+i)
		b.s.Military = append(b.s.Military, model.Unit{ID: id, Name: "Soldier " + id, Kind: gameconfig.UnitMilitary, UnitType: unitType})
	}
	return b
}

func (b *Builder) Building(typ, id string, x, y int) *Builder {
	b.s.Buildings[typ] = append(b.s.Buildings[typ], model.BuildingInstance{ID: id, Type: typ, Name: id, Position: model.Position{X: x, Y: y}, HP: 100})
	return b
}

func (b *Builder) Task(t task.Task) *Builder {
	b.s.Tasks = append(b.s.Tasks, t)
	return b
}

func (b *Builder) Node(id string, kind resource.Kind, amount int, workers ...string) *Builder {
	b.s.Nodes = append(b.s.Nodes, model.ResourceNode{ID: id, Kind: kind, Amount: amount, AssignedWorkerIDs: workers})
	return b
}

func (b *Builder) Item(id, definitionID string) *Builder {
	b.s.Inventory = append(b.s.Inventory, model.InventoryItem{ID: id, DefinitionID: definitionID, Name: definitionID})
	return b
}

func (b *Builder) Buff(kind model.BuffKind, percent int, expiresAt int64) *Builder {
	b.s.Buffs[kind] = model.Buff{Percent: percent, ExpiresAt: expiresAt}
	return b
}

func (b *Builder) Research(ids ...string) *Builder {
	b.s.CompletedResearch = append(b.s.CompletedResearch, ids...)
	return b
}

func (b *Builder) Build() *model.GameState {
	return b.s
}

// IDs 返回顺序 id 生成器：prefix-1、prefix-2……
func IDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
