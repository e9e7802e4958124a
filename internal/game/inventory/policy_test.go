package inventory

import (
	"errors"
	"testing"

	"Dawnforge/internal/game/gametest"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

const now = gametest.Now

func buildTask(id string, start, dur int64) task.Task {
	return task.Task{ID: id, Kind: task.KindBuild, StartTime: start, Duration: dur, Payload: task.Payload{BuildingID: "b-" + id, BuildingType: "house"}}
}

func TestUsable_按前缀判断(t *testing.T) {
	empty := gametest.NewState().Build()
	building := gametest.NewState().Task(buildTask("t1", now, 25000)).Build()
	gathering := gametest.NewState().Task(task.Task{ID: "g", Kind: task.KindGather, StartTime: now}).Build()
	buffed := gametest.NewState().Buff(model.BuffBuildTime, 50, now+1000).Build()

	cases := []struct {
		name  string
		state *model.GameState
		item  string
		want  bool
	}{
		{"无建造任务时加速锤不可用", empty, "instant_build_hammer", false},
		{"有建造任务时加速锤可用", building, "instant_build_hammer", true},
		{"无任务时沙漏不可用", empty, "complete_all_hourglass", false},
		{"只有采集任务时沙漏也可用", gathering, "complete_all_hourglass", true},
		{"有任务时沙漏可用", building, "complete_all_hourglass", true},
		{"建造 buff 生效中不可再用", buffed, "buff_build_time_blueprint", false},
		{"训练 buff 不受建造 buff 影响", buffed, "buff_train_time_banner", true},
		{"资源道具总是可用", empty, "resource_food_cache", true},
		{"未知前缀永远不可用", building, "mystery_box", false},
	}
	for _, c := range cases {
		if got := Usable(c.state, c.item, now); got != c.want {
			t.Fatalf("%s：期望 %v，got=%v", c.name, c.want, got)
		}
	}
}

func TestApply_buff生效中再次使用被拒绝(t *testing.T) {
	cat := gametest.Catalogs()
	def, _ := cat.Item("buff_build_time_blueprint")
	s := gametest.NewState().Buff(model.BuffBuildTime, 50, now+60_000).Item("i1", def.ID).Build()
	before := s.Clone()

	_, err := Apply(s, s.Inventory[0], def, now)
	if !errors.Is(err, model.ErrItemNotUsable) {
		t.Fatalf("期望拒绝，err=%v", err)
	}
	if len(s.Inventory) != len(before.Inventory) || s.Buffs[model.BuffBuildTime] != before.Buffs[model.BuffBuildTime] {
		t.Fatalf("期望状态不变")
	}
}

func TestApply_buff过期后可以再次激活(t *testing.T) {
	cat := gametest.Catalogs()
	def, _ := cat.Item("buff_build_time_blueprint")
	s := gametest.NewState().Buff(model.BuffBuildTime, 50, now).Item("i1", def.ID).Build()

	res, err := Apply(s, s.Inventory[0], def, now)
	if err != nil {
		t.Fatalf("期望成功，err=%v", err)
	}
	b := res.Buffs[model.BuffBuildTime]
	if b.Percent != 50 || b.ExpiresAt != now+300_000 {
		t.Fatalf("期望 50%% 持续 300 秒，got=%+v", b)
	}
	if len(res.ConsumedItemIDs) != 1 || res.ConsumedItemIDs[0] != "i1" {
		t.Fatalf("期望消耗道具 i1，got=%v", res.ConsumedItemIDs)
	}
}

func TestApply_加速锤让最早的建造立即到期(t *testing.T) {
	cat := gametest.Catalogs()
	def, _ := cat.Item("instant_build_hammer")
	s := gametest.NewState().
		Task(buildTask("late", now-1000, 90_000)).
		Task(buildTask("early", now-1000, 30_000)).
		Item("i1", def.ID).Build()

	res, err := Apply(s, s.Inventory[0], def, now)
	if err != nil {
		t.Fatalf("期望成功，err=%v", err)
	}
	if len(res.UpdatedTasks) != 1 || res.UpdatedTasks[0].ID != "early" {
		t.Fatalf("期望只加速 early，got=%+v", res.UpdatedTasks)
	}
	if !res.UpdatedTasks[0].Due(now) {
		t.Fatalf("期望任务立即到期")
	}
}

func TestApply_沙漏跳过采集任务(t *testing.T) {
	cat := gametest.Catalogs()
	def, _ := cat.Item("complete_all_hourglass")
	s := gametest.NewState().
		Task(task.Task{ID: "g", Kind: task.KindGather, StartTime: now - 1000}).
		Task(buildTask("b", now-1000, 30_000)).
		Item("i1", def.ID).Build()

	res, err := Apply(s, s.Inventory[0], def, now)
	if err != nil {
		t.Fatalf("期望成功，err=%v", err)
	}
	if len(res.UpdatedTasks) != 1 || res.UpdatedTasks[0].ID != "b" || !res.UpdatedTasks[0].Due(now) {
		t.Fatalf("期望只有建造任务立即到期，got=%+v", res.UpdatedTasks)
	}
	if len(res.ConsumedItemIDs) != 1 {
		t.Fatalf("期望消耗道具，got=%v", res.ConsumedItemIDs)
	}
}

func TestApply_资源道具发放资源(t *testing.T) {
	cat := gametest.Catalogs()
	def, _ := cat.Item("resource_food_cache")
	s := gametest.NewState().Item("i1", def.ID).Build()

	res, err := Apply(s, s.Inventory[0], def, now)
	if err != nil {
		t.Fatalf("期望成功，err=%v", err)
	}
	if res.ResourceDeltas[resource.Food] != 200 {
		t.Fatalf("期望 +200 食物，got=%v", res.ResourceDeltas)
	}
}

func TestExpireBuffs_只清理过期的(t *testing.T) {
	s := gametest.NewState().
		Buff(model.BuffBuildTime, 50, now).
		Buff(model.BuffTrainTime, 30, now+1).Build()

	res := ExpireBuffs(s, now)
	if res == nil || len(res.ExpiredBuffs) != 1 || res.ExpiredBuffs[0] != model.BuffBuildTime {
		t.Fatalf("期望只过期建造 buff，got=%+v", res)
	}
	if ExpireBuffs(gametest.NewState().Build(), now) != nil {
		t.Fatalf("期望无 buff 时返回 nil")
	}
}

func TestReduceDuration_按百分比缩短(t *testing.T) {
	s := gametest.NewState().Buff(model.BuffTrainTime, 30, now+1000).Build()
	if got := ReduceDuration(s, model.BuffTrainTime, 50_000, now); got != 35_000 {
		t.Fatalf("期望 35000，got=%d", got)
	}
	if got := ReduceDuration(s, model.BuffBuildTime, 50_000, now); got != 50_000 {
		t.Fatalf("期望未生效 buff 不影响，got=%d", got)
	}
}

func TestSortByRarity(t *testing.T) {
	items := []model.InventoryItem{
		{ID: "a", Rarity: gameconfig.RaritySpiritual},
		{ID: "b", Rarity: gameconfig.RarityCommon},
		{ID: "c", Rarity: gameconfig.RarityLegendary},
		{ID: "d", Rarity: gameconfig.RarityEpic},
	}
	SortByRarity(items)
	got := items[0].ID + items[1].ID + items[2].ID + items[3].ID
	if got != "bdca" {
		t.Fatalf("期望 Common<Epic<Legendary<Spiritual，got=%s", got)
	}
}
