// Package model 是核心各组件共用的数据：状态快照、结果包和拒绝错误。
package model

import (
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

type Position = task.Position

// Unit 村民或军队。军队带兵种与头衔。
type Unit struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Kind     gameconfig.UnitKind `json:"kind"`
	UnitType string              `json:"unitType"`
	Title    string              `json:"title,omitempty"`
}

// BuildingInstance 属于唯一一个建筑类型桶。
type BuildingInstance struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
	HP       int      `json:"hp"`
}

// ResourceNode 是可采集的资源点。Carry 记录尚未凑满 1 的采集进度。
type ResourceNode struct {
	ID                string        `json:"id"`
	Kind              resource.Kind `json:"kind"`
	Position          Position      `json:"position"`
	Amount            int           `json:"amount"`
	AssignedWorkerIDs []string      `json:"assignedWorkerIds"`
	LastCollectedAt   int64         `json:"lastCollectedAt"`
	Carry             float64       `json:"carry"`
}

type InventoryItem struct {
	ID           string            `json:"id"`
	DefinitionID string            `json:"definitionId"`
	Name         string            `json:"name"`
	Rarity       gameconfig.Rarity `json:"rarity"`
}

// Buff 是一个限时效果。同名 buff 生效期间不能再次激活。
type Buff struct {
	Percent   int   `json:"percent"`
	ExpiresAt int64 `json:"expiresAt"`
}

type BuffKind string

const (
	BuffBuildTime BuffKind = "buildTimeReduction"
	BuffTrainTime BuffKind = "trainTimeReduction"
)

// ActiveBuffs 以 buff 名为键。
type ActiveBuffs map[BuffKind]Buff

// Active 判断 buff 在 now 时刻是否生效。
func (b ActiveBuffs) Active(kind BuffKind, now int64) bool {
	v, ok := b[kind]
	return ok && now < v.ExpiresAt
}

type LogEntry struct {
	Time    int64  `json:"time"`
	Message string `json:"message"`
}

// GameState 是宿主持有的完整状态树。核心只读它，返回 Result 由宿主合并。
type GameState struct {
	Resources         resource.Ledger               `json:"resources"`
	Villagers         []Unit                        `json:"villagers"`
	Military          []Unit                        `json:"military"`
	Buildings         map[string][]BuildingInstance `json:"buildings"`
	Tasks             []task.Task                   `json:"tasks"`
	Nodes             []ResourceNode                `json:"nodes"`
	Inventory         []InventoryItem               `json:"inventory"`
	Buffs             ActiveBuffs                   `json:"buffs"`
	Era               string                        `json:"era"`
	CompletedResearch []string                      `json:"completedResearch"`
	Log               []LogEntry                    `json:"log"`
}

// NewGameState 返回各集合都已初始化的空状态。
func NewGameState(era string) *GameState {
	return &GameState{
		Resources: resource.Ledger{},
		Buildings: map[string][]BuildingInstance{},
		Buffs:     ActiveBuffs{},
		Era:       era,
	}
}

// Population 当前人口 = 村民 + 军队。
func (s *GameState) Population() int {
	return len(s.Villagers) + len(s.Military)
}

// Building 按实例 id 查找建筑。
func (s *GameState) Building(id string) (BuildingInstance, bool) {
	for _, list := range s.Buildings {
		for _, b := range list {
			if b.ID == id {
				return b, true
			}
		}
	}
	return BuildingInstance{}, false
}

// HasBuildingType 是否拥有至少一座该类型建筑。
func (s *GameState) HasBuildingType(typ string) bool {
	return len(s.Buildings[typ]) > 0
}

// BuildingAt 返回占据该格的建筑。
func (s *GameState) BuildingAt(p Position) (BuildingInstance, bool) {
	for _, list := range s.Buildings {
		for _, b := range list {
			if b.Position == p {
				return b, true
			}
		}
	}
	return BuildingInstance{}, false
}

func (s *GameState) Villager(id string) (Unit, bool) {
	for _, u := range s.Villagers {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

func (s *GameState) Node(id string) (ResourceNode, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ResourceNode{}, false
}

// NodeOfWorker 返回该村民正在采集的资源点。
func (s *GameState) NodeOfWorker(unitID string) (ResourceNode, bool) {
	for _, n := range s.Nodes {
		for _, w := range n.AssignedWorkerIDs {
			if w == unitID {
				return n, true
			}
		}
	}
	return ResourceNode{}, false
}

func (s *GameState) Item(id string) (InventoryItem, bool) {
	for _, it := range s.Inventory {
		if it.ID == id {
			return it, true
		}
	}
	return InventoryItem{}, false
}

func (s *GameState) ResearchDone(id string) bool {
	for _, r := range s.CompletedResearch {
		if r == id {
			return true
		}
	}
	return false
}

// Scheduler 基于当前任务列表的副本构造调度器，不会改到状态本身。
func (s *GameState) Scheduler() *task.Scheduler {
	return task.NewScheduler(task.Clone(s.Tasks))
}

// Clone 深拷贝整棵状态树。
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Resources:         s.Resources.Clone(),
		Villagers:         append([]Unit(nil), s.Villagers...),
		Military:          append([]Unit(nil), s.Military...),
		Buildings:         make(map[string][]BuildingInstance, len(s.Buildings)),
		Tasks:             task.Clone(s.Tasks),
		Inventory:         append([]InventoryItem(nil), s.Inventory...),
		Buffs:             make(ActiveBuffs, len(s.Buffs)),
		Era:               s.Era,
		CompletedResearch: append([]string(nil), s.CompletedResearch...),
		Log:               append([]LogEntry(nil), s.Log...),
	}
	for k, v := range s.Buildings {
		out.Buildings[k] = append([]BuildingInstance(nil), v...)
	}
	for k, v := range s.Buffs {
		out.Buffs[k] = v
	}
	if s.Nodes != nil {
		out.Nodes = make([]ResourceNode, len(s.Nodes))
		for i, n := range s.Nodes {
			out.Nodes[i] = n
			out.Nodes[i].AssignedWorkerIDs = append([]string(nil), n.AssignedWorkerIDs...)
		}
	}
	return out
}
