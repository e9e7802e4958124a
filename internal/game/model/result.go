package model

import (
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// Result 是一次动作或一次结算返回给宿主的结果包。任何字段都可能为空，
// 宿主把出现的字段合并进状态；拒绝时只返回 error，不返回 Result。
type Result struct {
	ResourceDeltas resource.Ledger `json:"resourceDeltas,omitempty"`

	NewTasks       []task.Task `json:"newTasks,omitempty"`
	UpdatedTasks   []task.Task `json:"updatedTasks,omitempty"` // 按 id 覆盖
	RemovedTaskIDs []string    `json:"removedTaskIds,omitempty"`

	Log            string `json:"log,omitempty"`
	ActivityStatus string `json:"activityStatus,omitempty"`

	NewInventory    []InventoryItem `json:"newInventory,omitempty"`
	ConsumedItemIDs []string        `json:"consumedItemIds,omitempty"`

	UpdatedUnits []Unit `json:"updatedUnits,omitempty"` // 新增单位，按 Kind 归入村民或军队

	NewBuildings       []BuildingInstance `json:"newBuildings,omitempty"`
	UpdatedBuildings   []BuildingInstance `json:"updatedBuildings,omitempty"` // 按 id 覆盖，类型变了会换桶
	RemovedBuildingIDs []string           `json:"removedBuildingIds,omitempty"`

	UpdatedNodes []ResourceNode `json:"updatedNodes,omitempty"`

	Buffs        ActiveBuffs `json:"buffs,omitempty"`
	ExpiredBuffs []BuffKind  `json:"expiredBuffs,omitempty"`

	Era               string   `json:"era,omitempty"`
	CompletedResearch []string `json:"completedResearch,omitempty"`
}

// Empty 结果包里没有任何需要合并的东西。
func (r *Result) Empty() bool {
	if r == nil {
		return true
	}
	return r.ResourceDeltas.IsZero() &&
		len(r.NewTasks) == 0 && len(r.UpdatedTasks) == 0 && len(r.RemovedTaskIDs) == 0 &&
		r.Log == "" && r.ActivityStatus == "" &&
		len(r.NewInventory) == 0 && len(r.ConsumedItemIDs) == 0 &&
		len(r.UpdatedUnits) == 0 &&
		len(r.NewBuildings) == 0 && len(r.UpdatedBuildings) == 0 && len(r.RemovedBuildingIDs) == 0 &&
		len(r.UpdatedNodes) == 0 &&
		len(r.Buffs) == 0 && len(r.ExpiredBuffs) == 0 &&
		r.Era == "" && len(r.CompletedResearch) == 0
}

// AddLog 追加一条日志，多条用空格连接。
func (r *Result) AddLog(msg string) {
	if msg == "" {
		return
	}
	if r.Log == "" {
		r.Log = msg
		return
	}
	r.Log += " " + msg
}

// Merge 把 other 合进 r，用于一次 Tick 里合并多次结算。
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.ResourceDeltas = resource.Merge(r.ResourceDeltas, other.ResourceDeltas)
	r.NewTasks = append(r.NewTasks, other.NewTasks...)
	r.UpdatedTasks = append(r.UpdatedTasks, other.UpdatedTasks...)
	r.RemovedTaskIDs = append(r.RemovedTaskIDs, other.RemovedTaskIDs...)
	r.AddLog(other.Log)
	if other.ActivityStatus != "" {
		r.ActivityStatus = other.ActivityStatus
	}
	r.NewInventory = append(r.NewInventory, other.NewInventory...)
	r.ConsumedItemIDs = append(r.ConsumedItemIDs, other.ConsumedItemIDs...)
	r.UpdatedUnits = append(r.UpdatedUnits, other.UpdatedUnits...)
	r.NewBuildings = append(r.NewBuildings, other.NewBuildings...)
	r.UpdatedBuildings = append(r.UpdatedBuildings, other.UpdatedBuildings...)
	r.RemovedBuildingIDs = append(r.RemovedBuildingIDs, other.RemovedBuildingIDs...)
	r.UpdatedNodes = append(r.UpdatedNodes, other.UpdatedNodes...)
	for k, v := range other.Buffs {
		if r.Buffs == nil {
			r.Buffs = ActiveBuffs{}
		}
		r.Buffs[k] = v
	}
	r.ExpiredBuffs = append(r.ExpiredBuffs, other.ExpiredBuffs...)
	if other.Era != "" {
		r.Era = other.Era
	}
	r.CompletedResearch = append(r.CompletedResearch, other.CompletedResearch...)
}

// Apply 把结果包合并进状态。这是唯一修改 GameState 的入口。
// logLimit<=0 表示日志不截断。
func Apply(s *GameState, r *Result, now int64, logLimit int) {
	if r == nil {
		return
	}
	if s.Resources == nil {
		s.Resources = resource.Ledger{}
	}
	s.Resources.Apply(r.ResourceDeltas)

	applyTasks(s, r)
	applyBuildings(s, r)

	for _, u := range r.UpdatedUnits {
		if u.Kind == gameconfig.UnitMilitary {
			s.Military = append(s.Military, u)
		} else {
			s.Villagers = append(s.Villagers, u)
		}
	}

	if len(r.ConsumedItemIDs) > 0 {
		consumed := toSet(r.ConsumedItemIDs)
		kept := s.Inventory[:0:0]
		for _, it := range s.Inventory {
			if !consumed[it.ID] {
				kept = append(kept, it)
			}
		}
		s.Inventory = kept
	}
	s.Inventory = append(s.Inventory, r.NewInventory...)

	for _, n := range r.UpdatedNodes {
		for i := range s.Nodes {
			if s.Nodes[i].ID == n.ID {
				s.Nodes[i] = n
			}
		}
	}

	if s.Buffs == nil {
		s.Buffs = ActiveBuffs{}
	}
	for _, k := range r.ExpiredBuffs {
		delete(s.Buffs, k)
	}
	for k, v := range r.Buffs {
		s.Buffs[k] = v
	}

	if r.Era != "" {
		s.Era = r.Era
	}
	for _, id := range r.CompletedResearch {
		if !s.ResearchDone(id) {
			s.CompletedResearch = append(s.CompletedResearch, id)
		}
	}

	if r.Log != "" {
		s.Log = append(s.Log, LogEntry{Time: now, Message: r.Log})
		if logLimit > 0 && len(s.Log) > logLimit {
			s.Log = append([]LogEntry(nil), s.Log[len(s.Log)-logLimit:]...)
		}
	}
}

func applyTasks(s *GameState, r *Result) {
	if len(r.RemovedTaskIDs) > 0 {
		removed := toSet(r.RemovedTaskIDs)
		kept := s.Tasks[:0:0]
		for _, t := range s.Tasks {
			if !removed[t.ID] {
				kept = append(kept, t)
			}
		}
		s.Tasks = kept
	}
	for _, t := range r.UpdatedTasks {
		for i := range s.Tasks {
			if s.Tasks[i].ID == t.ID {
				s.Tasks[i] = t
			}
		}
	}
	s.Tasks = append(s.Tasks, r.NewTasks...)
}

func applyBuildings(s *GameState, r *Result) {
	if s.Buildings == nil {
		s.Buildings = map[string][]BuildingInstance{}
	}
	drop := toSet(r.RemovedBuildingIDs)
	for _, b := range r.UpdatedBuildings {
		drop[b.ID] = true
	}
	if len(drop) > 0 {
		for typ, list := range s.Buildings {
			kept := list[:0:0]
			for _, b := range list {
				if !drop[b.ID] {
					kept = append(kept, b)
				}
			}
			if len(kept) == 0 {
				delete(s.Buildings, typ)
			} else {
				s.Buildings[typ] = kept
			}
		}
	}
	for _, b := range r.UpdatedBuildings {
		s.Buildings[b.Type] = append(s.Buildings[b.Type], b)
	}
	for _, b := range r.NewBuildings {
		s.Buildings[b.Type] = append(s.Buildings[b.Type], b)
	}
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
