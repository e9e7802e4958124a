package action

import (
	"fmt"

	"Dawnforge/internal/game/inventory"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

type TrainPayload struct {
	BuildingID string `json:"buildingId"`
	UnitType   string `json:"unitType"`
	Count      int    `json:"count"`
}

// trainVillager 未指定兵种时训练 villager。
func trainVillager(env *Env, s *model.GameState, p TrainPayload) (*model.Result, error) {
	if p.UnitType == "" {
		p.UnitType = "villager"
	}
	return train(env, s, p, gameconfig.UnitVillager)
}

func trainUnit(env *Env, s *model.GameState, p TrainPayload) (*model.Result, error) {
	return train(env, s, p, gameconfig.UnitMilitary)
}

// train 一个建筑同时只训练一批；耗时与花费都按数量线性放大。
func train(env *Env, s *model.GameState, p TrainPayload, want gameconfig.UnitKind) (*model.Result, error) {
	count, err := normalizeCount(p.Count)
	if err != nil {
		return nil, err
	}
	b, ok := s.Building(p.BuildingID)
	if !ok {
		return nil, model.InvalidTarget("building %q not found", p.BuildingID)
	}
	unit, ok := env.Catalogs.Unit(p.UnitType)
	if !ok || unit.Kind != want {
		return nil, model.InvalidTarget("unknown %s type %q", want, p.UnitType)
	}
	bdef, ok := env.Catalogs.Building(b.Type)
	if !ok || !bdef.CanTrain(unit.ID) {
		return nil, model.InvalidTarget("%s cannot train %s", buildingName(env, b), unit.Name)
	}
	if t, ok := busy(s, b.ID); ok {
		return nil, model.Conflict("%s is busy with %s", bdef.Name, t.Kind)
	}
	if err := prerequisites(env, s, unit.Age, nil, unit.RequiredResearch); err != nil {
		return nil, err
	}
	// 先按空位换算能容纳的批量，再做乘法
	headroom := model.Capacity(s, env.Catalogs, "") - s.Population() - model.ReservedPopulation(s, env.Catalogs)
	if per := unit.PopulationCost; per > 0 && (headroom < 0 || count > headroom/per) {
		return nil, model.InsufficientPopulation(count*per - headroom)
	}
	if err := env.afford(s, unit.Cost, count); err != nil {
		return nil, err
	}

	kind, buff := task.KindTrainVillager, model.BuffTrainTime
	if unit.Kind == gameconfig.UnitMilitary {
		kind = task.KindTrainMilitary
	}
	t := task.Task{
		ID:        s.Scheduler().UniqueID(env.Now, kind, b.ID),
		Kind:      kind,
		StartTime: env.Now,
		Duration:  inventory.ReduceDuration(s, buff, int64(unit.TrainTime)*1000*int64(count), env.Now),
		Payload:   task.Payload{BuildingID: b.ID, UnitType: unit.ID, Count: count},
	}
	return &model.Result{
		ResourceDeltas: env.costDelta(unit.Cost, count),
		NewTasks:       []task.Task{t},
		Log:            fmt.Sprintf("Training %d %s at %s.", count, unit.Name, bdef.Name),
		ActivityStatus: "Training " + unit.Name,
	}, nil
}
