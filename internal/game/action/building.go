package action

import (
	"fmt"

	"Dawnforge/internal/game/inventory"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
)

type BuildPayload struct {
	BuildingType string         `json:"buildingType"`
	Position     model.Position `json:"position"`
}

// build 放置新建筑。实例 id 先分配好并作为建造任务的归属。
func build(env *Env, s *model.GameState, p BuildPayload) (*model.Result, error) {
	def, ok := env.Catalogs.Building(p.BuildingType)
	if !ok {
		return nil, model.InvalidTarget("unknown building type %q", p.BuildingType)
	}
	if _, ok := pendingBuildAt(s, p.Position); ok {
		return nil, model.Conflict("construction already under way at (%d,%d)", p.Position.X, p.Position.Y)
	}
	if err := prerequisites(env, s, def.Age, def.RequiredBuildings, def.RequiredResearch); err != nil {
		return nil, err
	}
	if err := env.afford(s, def.Cost, 1); err != nil {
		return nil, err
	}
	// 施工中的唯一建筑视为已建成
	if def.Unique && (s.HasBuildingType(def.ID) || pendingBuildOf(s, def.ID)) {
		return nil, model.RuleViolation("%s is unique and already built", def.Name)
	}
	if b, ok := s.BuildingAt(p.Position); ok {
		return nil, model.RuleViolation("tile (%d,%d) is occupied by %s", p.Position.X, p.Position.Y, buildingName(env, b))
	}

	id := env.NewID()
	pos := p.Position
	sched := s.Scheduler()
	t := task.Task{
		ID:        sched.UniqueID(env.Now, task.KindBuild, id),
		Kind:      task.KindBuild,
		StartTime: env.Now,
		Duration:  inventory.ReduceDuration(s, model.BuffBuildTime, int64(def.BuildTime)*1000, env.Now),
		Payload:   task.Payload{BuildingID: id, BuildingType: def.ID, Position: &pos},
	}
	return &model.Result{
		ResourceDeltas: env.costDelta(def.Cost, 1),
		NewTasks:       []task.Task{t},
		Log:            fmt.Sprintf("Started building a %s.", def.Name),
		ActivityStatus: "Building " + def.Name,
	}, nil
}

type DemolishPayload struct {
	BuildingID string `json:"buildingId"`
}

// demolish 拆除建筑并返还一半花费（向下取整）。
func demolish(env *Env, s *model.GameState, p DemolishPayload) (*model.Result, error) {
	b, ok := s.Building(p.BuildingID)
	if !ok {
		return nil, model.InvalidTarget("building %q not found", p.BuildingID)
	}
	def, ok := env.Catalogs.Building(b.Type)
	if !ok {
		return nil, model.InvalidTarget("unknown building type %q", b.Type)
	}
	if t, ok := busy(s, b.ID); ok {
		return nil, model.Conflict("%s is busy with %s", def.Name, t.Kind)
	}
	if def.Core {
		return nil, model.RuleViolation("%s cannot be demolished", def.Name)
	}
	need := s.Population() + model.ReservedPopulation(s, env.Catalogs)
	if model.Capacity(s, env.Catalogs, b.ID) < need {
		return nil, model.RuleViolation("would make people homeless")
	}
	return &model.Result{
		ResourceDeltas:     resource.Refund(def.Cost, 50),
		RemovedBuildingIDs: []string{b.ID},
		Log:                fmt.Sprintf("%s demolished.", def.Name),
		ActivityStatus:     "Demolishing " + def.Name,
	}, nil
}

type UpgradePayload struct {
	BuildingID string `json:"buildingId"`
}

// upgrade 把建筑升级为 UpgradesTo 指定的类型，花费与耗时取目标类型。
func upgrade(env *Env, s *model.GameState, p UpgradePayload) (*model.Result, error) {
	b, ok := s.Building(p.BuildingID)
	if !ok {
		return nil, model.InvalidTarget("building %q not found", p.BuildingID)
	}
	from, ok := env.Catalogs.Building(b.Type)
	if !ok || from.UpgradesTo == "" {
		return nil, model.InvalidTarget("%s cannot be upgraded", buildingName(env, b))
	}
	to, ok := env.Catalogs.Building(from.UpgradesTo)
	if !ok {
		return nil, model.InvalidTarget("unknown building type %q", from.UpgradesTo)
	}
	if t, ok := busy(s, b.ID); ok {
		return nil, model.Conflict("%s is busy with %s", from.Name, t.Kind)
	}
	if err := prerequisites(env, s, to.Age, to.RequiredBuildings, to.RequiredResearch); err != nil {
		return nil, err
	}
	if err := env.afford(s, to.Cost, 1); err != nil {
		return nil, err
	}
	if to.Unique && (s.HasBuildingType(to.ID) || pendingBuildOf(s, to.ID)) {
		return nil, model.RuleViolation("%s is unique and already built", to.Name)
	}

	t := task.Task{
		ID:        s.Scheduler().UniqueID(env.Now, task.KindUpgradeBuilding, b.ID),
		Kind:      task.KindUpgradeBuilding,
		StartTime: env.Now,
		Duration:  inventory.ReduceDuration(s, model.BuffBuildTime, int64(to.BuildTime)*1000, env.Now),
		Payload:   task.Payload{BuildingID: b.ID, BuildingType: to.ID},
	}
	return &model.Result{
		ResourceDeltas: env.costDelta(to.Cost, 1),
		NewTasks:       []task.Task{t},
		Log:            fmt.Sprintf("Upgrading %s to %s.", from.Name, to.Name),
		ActivityStatus: "Upgrading " + from.Name,
	}, nil
}

type MovePayload struct {
	BuildingID string         `json:"buildingId"`
	Position   model.Position `json:"position"`
}

// move 把建筑搬到空格上。
func move(env *Env, s *model.GameState, p MovePayload) (*model.Result, error) {
	b, ok := s.Building(p.BuildingID)
	if !ok {
		return nil, model.InvalidTarget("building %q not found", p.BuildingID)
	}
	name := buildingName(env, b)
	if t, ok := busy(s, b.ID); ok {
		return nil, model.Conflict("%s is busy with %s", name, t.Kind)
	}
	if b.Position == p.Position {
		return nil, model.RuleViolation("%s is already at (%d,%d)", name, p.Position.X, p.Position.Y)
	}
	if other, ok := s.BuildingAt(p.Position); ok {
		return nil, model.RuleViolation("tile (%d,%d) is occupied by %s", p.Position.X, p.Position.Y, buildingName(env, other))
	}
	if _, ok := pendingBuildAt(s, p.Position); ok {
		return nil, model.RuleViolation("tile (%d,%d) is reserved for construction", p.Position.X, p.Position.Y)
	}
	b.Position = p.Position
	return &model.Result{
		UpdatedBuildings: []model.BuildingInstance{b},
		Log:              fmt.Sprintf("%s moved to (%d,%d).", name, p.Position.X, p.Position.Y),
	}, nil
}
