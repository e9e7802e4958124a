package action

import (
	"fmt"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/task"
)

type ResearchPayload struct {
	ResearchID string `json:"researchId"`
}

// startResearch 研究是全局的，不占用建筑；同一项研究同时只能进行一次。
func startResearch(env *Env, s *model.GameState, p ResearchPayload) (*model.Result, error) {
	def, ok := env.Catalogs.Research(p.ResearchID)
	if !ok {
		return nil, model.InvalidTarget("unknown research %q", p.ResearchID)
	}
	for _, t := range s.Scheduler().OfKind(task.KindResearch) {
		if t.Payload.ResearchID == def.ID {
			return nil, model.Conflict("%s is already being researched", def.Name)
		}
	}
	if err := prerequisites(env, s, def.Age, def.RequiredBuildings, def.RequiredResearch); err != nil {
		return nil, err
	}
	if err := env.afford(s, def.Cost, 1); err != nil {
		return nil, err
	}
	if s.ResearchDone(def.ID) {
		return nil, model.RuleViolation("%s is already researched", def.Name)
	}

	t := task.Task{
		ID:        s.Scheduler().UniqueID(env.Now, task.KindResearch, def.ID),
		Kind:      task.KindResearch,
		StartTime: env.Now,
		Duration:  int64(def.ResearchTime) * 1000,
		Payload:   task.Payload{ResearchID: def.ID},
	}
	return &model.Result{
		ResourceDeltas: env.costDelta(def.Cost, 1),
		NewTasks:       []task.Task{t},
		Log:            fmt.Sprintf("Research on %s has begun.", def.Name),
		ActivityStatus: "Researching " + def.Name,
	}, nil
}

// AdvanceAgePayload 没有参数，目标永远是下一个时代。
type AdvanceAgePayload struct{}

func advanceAge(env *Env, s *model.GameState, _ AdvanceAgePayload) (*model.Result, error) {
	next, ok := env.Catalogs.NextAge(s.Era)
	if !ok {
		return nil, model.InvalidTarget("no age follows %q", s.Era)
	}
	if len(s.Scheduler().OfKind(task.KindAdvanceAge)) > 0 {
		return nil, model.Conflict("already advancing to the next age")
	}
	if err := prerequisites(env, s, "", next.RequiredBuildings, nil); err != nil {
		return nil, err
	}
	if err := env.afford(s, next.Cost, 1); err != nil {
		return nil, err
	}

	t := task.Task{
		ID:        s.Scheduler().UniqueID(env.Now, task.KindAdvanceAge, next.ID),
		Kind:      task.KindAdvanceAge,
		StartTime: env.Now,
		Duration:  int64(next.AdvanceTime) * 1000,
		Payload:   task.Payload{AgeID: next.ID},
	}
	return &model.Result{
		ResourceDeltas: env.costDelta(next.Cost, 1),
		NewTasks:       []task.Task{t},
		Log:            fmt.Sprintf("Advancing to the %s.", next.Name),
		ActivityStatus: "Advancing to " + next.Name,
	}, nil
}
