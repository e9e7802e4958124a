// Package inventory 决定背包道具当前能否使用，并产出使用效果。
package inventory

import (
	"math"
	"sort"
	"strings"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/shared/gameconfig"
)

// 道具按定义 id 前缀分类。
const (
	PrefixInstantBuild  = "instant_build"
	PrefixCompleteAll   = "complete_all"
	PrefixBuffBuildTime = "buff_build_time"
	PrefixBuffTrainTime = "buff_train_time"
	PrefixResource      = "resource_"
)

// Usable 纯判断：只看进行中的任务和生效中的 buff。未知前缀一律不可用。
func Usable(s *model.GameState, definitionID string, now int64) bool {
	switch {
	case strings.HasPrefix(definitionID, PrefixInstantBuild):
		return len(buildTasks(s)) > 0
	case strings.HasPrefix(definitionID, PrefixCompleteAll):
		return len(s.Tasks) > 0
	case strings.HasPrefix(definitionID, PrefixBuffBuildTime):
		return !s.Buffs.Active(model.BuffBuildTime, now)
	case strings.HasPrefix(definitionID, PrefixBuffTrainTime):
		return !s.Buffs.Active(model.BuffTrainTime, now)
	case strings.HasPrefix(definitionID, PrefixResource):
		return true
	default:
		return false
	}
}

// UsableItems 返回当前可用的道具，按稀有度排序。
func UsableItems(s *model.GameState, now int64) []model.InventoryItem {
	var out []model.InventoryItem
	for _, it := range s.Inventory {
		if Usable(s, it.DefinitionID, now) {
			out = append(out, it)
		}
	}
	SortByRarity(out)
	return out
}

// Apply 产出使用道具的结果包，并消耗该道具。不可用时返回拒绝。
//   - instant_build：最早到期的建造任务立即到期
//   - complete_all：有任何任务即可使用；计时任务立即到期，采集任务不受影响
//   - buff_*：激活 buff，DurationSeconds 为 0 表示永久
//   - resource_：发放资源
func Apply(s *model.GameState, item model.InventoryItem, def *gameconfig.ItemDef, now int64) (*model.Result, error) {
	if !Usable(s, item.DefinitionID, now) {
		return nil, model.ItemNotUsable(def.Name)
	}
	res := &model.Result{ConsumedItemIDs: []string{item.ID}}
	id := item.DefinitionID
	switch {
	case strings.HasPrefix(id, PrefixInstantBuild):
		builds := buildTasks(s)
		sort.Slice(builds, func(i, j int) bool { return builds[i].Deadline() < builds[j].Deadline() })
		res.UpdatedTasks = []task.Task{dueNow(builds[0], now)}
	case strings.HasPrefix(id, PrefixCompleteAll):
		for _, t := range timedTasks(s) {
			res.UpdatedTasks = append(res.UpdatedTasks, dueNow(t, now))
		}
	case strings.HasPrefix(id, PrefixBuffBuildTime):
		res.Buffs = model.ActiveBuffs{model.BuffBuildTime: newBuff(def.Effect, now)}
	case strings.HasPrefix(id, PrefixBuffTrainTime):
		res.Buffs = model.ActiveBuffs{model.BuffTrainTime: newBuff(def.Effect, now)}
	case strings.HasPrefix(id, PrefixResource):
		res.ResourceDeltas = resource.Merge(def.Effect.Grant)
	}
	res.Log = "Used " + def.Name + "."
	res.ActivityStatus = "Using " + def.Name
	return res, nil
}

// ExpireBuffs 清掉已过期的 buff；没有过期的返回 nil。
func ExpireBuffs(s *model.GameState, now int64) *model.Result {
	var expired []model.BuffKind
	for k, b := range s.Buffs {
		if now >= b.ExpiresAt {
			expired = append(expired, k)
		}
	}
	if len(expired) == 0 {
		return nil
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return &model.Result{ExpiredBuffs: expired}
}

// ReduceDuration 按生效中的 buff 缩短时长（毫秒）。
func ReduceDuration(s *model.GameState, kind model.BuffKind, duration int64, now int64) int64 {
	if !s.Buffs.Active(kind, now) {
		return duration
	}
	pct := int64(s.Buffs[kind].Percent)
	if pct <= 0 {
		return duration
	}
	if pct >= 100 {
		return 0
	}
	return duration * (100 - pct) / 100
}

var rarityRank = map[gameconfig.Rarity]int{
	gameconfig.RarityCommon:    0,
	gameconfig.RarityEpic:      1,
	gameconfig.RarityLegendary: 2,
	gameconfig.RaritySpiritual: 3,
}

// SortByRarity Common < Epic < Legendary < Spiritual，同级按 id。
func SortByRarity(items []model.InventoryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rarityRank[items[i].Rarity], rarityRank[items[j].Rarity]
		if ri != rj {
			return ri < rj
		}
		return items[i].ID < items[j].ID
	})
}

func newBuff(e gameconfig.ItemEffect, now int64) model.Buff {
	expires := int64(math.MaxInt64)
	if e.DurationSeconds > 0 {
		expires = now + int64(e.DurationSeconds)*1000
	}
	return model.Buff{Percent: e.Percent, ExpiresAt: expires}
}

func dueNow(t task.Task, now int64) task.Task {
	if elapsed := now - t.StartTime; elapsed < t.Duration {
		t.Duration = max(elapsed, 0)
	}
	return t
}

func buildTasks(s *model.GameState) []task.Task {
	var out []task.Task
	for _, t := range s.Tasks {
		if t.Kind == task.KindBuild {
			out = append(out, t)
		}
	}
	return out
}

// 采集任务没有期限，不算在内
func timedTasks(s *model.GameState) []task.Task {
	var out []task.Task
	for _, t := range s.Tasks {
		if t.Kind != task.KindGather {
			out = append(out, t)
		}
	}
	return out
}
