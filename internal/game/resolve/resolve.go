// Package resolve 把到期任务的效果落成结果包。每个任务只会被结算一次：
// 结算结果里带着删除该任务的指令，合并后再结算同一个 id 就是空操作。
package resolve

import (
	"fmt"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/naming"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// Deps 是结算时需要的外部协作者。
type Deps struct {
	Catalogs *gameconfig.Catalogs
	Names    *naming.Allocator
	NewID    func() string // 单位 id
}

// Complete 结算一个任务。任务不存在（已经结算过或被取消）时返回 nil。
func Complete(s *model.GameState, taskID string, now int64, d Deps) *model.Result {
	t, ok := s.Scheduler().Find(taskID)
	if !ok {
		return nil
	}
	return complete(s, t, now, d)
}

// DueResults 结算所有到期任务，返回合并后的结果和本次结算的任务。
// 同一批次里各任务只碰自己的目标，顺序无关。
func DueResults(s *model.GameState, now int64, d Deps) (*model.Result, []task.Task) {
	sched := s.Scheduler()
	due := sched.DueTasks(now)
	if len(due) == 0 {
		return nil, nil
	}
	out := &model.Result{}
	var done []task.Task
	for _, t := range due {
		if _, ok := sched.Resolve(t.ID); !ok {
			continue
		}
		out.Merge(complete(s, t, now, d))
		done = append(done, t)
	}
	return out, done
}

func complete(s *model.GameState, t task.Task, now int64, d Deps) *model.Result {
	if t.Kind == task.KindGather {
		// 采集任务被显式结束：先结清已采集的量，再释放工人
		return EndGather(s, d.Catalogs, t, now)
	}
	res := &model.Result{RemovedTaskIDs: []string{t.ID}}
	p := t.Payload
	switch t.Kind {
	case task.KindBuild:
		def, ok := d.Catalogs.Building(p.BuildingType)
		if !ok {
			break
		}
		b := model.BuildingInstance{
			ID:   p.BuildingID,
			Type: def.ID,
			Name: def.Name + " " + d.Names.Next(naming.Building),
			HP:   def.HP,
		}
		if p.Position != nil {
			b.Position = *p.Position
		}
		res.NewBuildings = []model.BuildingInstance{b}
		res.Log = fmt.Sprintf("%s completed.", def.Name)

	case task.KindTrainVillager, task.KindTrainMilitary:
		def, ok := d.Catalogs.Unit(p.UnitType)
		if !ok {
			break
		}
		cat := naming.Villager
		if def.Kind == gameconfig.UnitMilitary {
			cat = naming.Soldier
		}
		for i := 0; i < max(p.Count, 1); i++ {
			res.UpdatedUnits = append(res.UpdatedUnits, model.Unit{
				ID:       d.NewID(),
				Name:     d.Names.Next(cat),
				Kind:     def.Kind,
				UnitType: def.ID,
				Title:    def.Title,
			})
		}
		res.Log = fmt.Sprintf("%d %s trained.", len(res.UpdatedUnits), def.Name)

	case task.KindResearch:
		def, ok := d.Catalogs.Research(p.ResearchID)
		if !ok || s.ResearchDone(def.ID) {
			break
		}
		res.CompletedResearch = []string{def.ID}
		res.Log = fmt.Sprintf("%s researched.", def.Name)

	case task.KindAdvanceAge:
		def, ok := d.Catalogs.Age(p.AgeID)
		if !ok {
			break
		}
		res.Era = def.ID
		res.Log = fmt.Sprintf("Advanced to the %s.", def.Name)

	case task.KindUpgradeBuilding:
		def, ok := d.Catalogs.Building(p.BuildingType)
		b, found := s.Building(p.BuildingID)
		if !ok || !found {
			break
		}
		from := b.Type
		b.Type = def.ID
		b.HP = def.HP
		res.UpdatedBuildings = []model.BuildingInstance{b}
		if old, ok := d.Catalogs.Building(from); ok {
			from = old.Name
		}
		res.Log = fmt.Sprintf("%s upgraded to %s.", from, def.Name)
	}
	return res
}
