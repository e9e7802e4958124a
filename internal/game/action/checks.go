package action

import (
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/task"
)

// prerequisites 返回缺少的前置条件名称：时代、建筑、研究，顺序固定。
func prerequisites(env *Env, s *model.GameState, age string, buildings, research []string) error {
	var missing []string
	if !env.Catalogs.ReachedAge(s.Era, age) {
		if def, ok := env.Catalogs.Age(age); ok {
			missing = append(missing, def.Name)
		} else {
			missing = append(missing, age)
		}
	}
	for _, id := range buildings {
		if s.HasBuildingType(id) {
			continue
		}
		if def, ok := env.Catalogs.Building(id); ok {
			missing = append(missing, def.Name)
		} else {
			missing = append(missing, id)
		}
	}
	for _, id := range research {
		if s.ResearchDone(id) {
			continue
		}
		if def, ok := env.Catalogs.Research(id); ok {
			missing = append(missing, def.Name)
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return model.MissingPrerequisite(missing)
	}
	return nil
}

// busy 建筑实例已被某个任务占用。
func busy(s *model.GameState, buildingID string) (task.Task, bool) {
	return s.Scheduler().ByOwner(buildingID)
}

func buildingName(env *Env, b model.BuildingInstance) string {
	if def, ok := env.Catalogs.Building(b.Type); ok {
		return def.Name
	}
	return b.Type
}

// pendingBuildAt 返回目标格上正在施工的建造任务。
func pendingBuildAt(s *model.GameState, p model.Position) (task.Task, bool) {
	for _, t := range s.Scheduler().OfKind(task.KindBuild) {
		if t.Payload.Position != nil && *t.Payload.Position == p {
			return t, true
		}
	}
	return task.Task{}, false
}

func pendingBuildOf(s *model.GameState, typ string) bool {
	for _, t := range s.Scheduler().OfKind(task.KindBuild) {
		if t.Payload.BuildingType == typ {
			return true
		}
	}
	return false
}

// MaxBatch 单批训练数量上限。
const MaxBatch = 1000

func normalizeCount(n int) (int, error) {
	switch {
	case n == 0:
		return 1, nil
	case n < 0:
		return 0, model.InvalidTarget("count must be positive, got %d", n)
	case n > MaxBatch:
		return 0, model.InvalidTarget("count %d exceeds batch limit %d", n, MaxBatch)
	default:
		return n, nil
	}
}
