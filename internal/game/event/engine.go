// Package event 结算事件选项：扣除花费、抽一次成败、计算奖励。
package event

import (
	"fmt"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/rng"
	"Dawnforge/internal/shared/gameconfig"

	"github.com/google/uuid"
)

// Engine 的随机源与 id 生成器都可注入，测试里用固定值。
type Engine struct {
	cat   *gameconfig.Catalogs
	rand  rng.Source
	newID func() string
}

type Option func(*Engine)

func WithRand(src rng.Source) Option {
	return func(e *Engine) { e.rand = src }
}

func WithIDFunc(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New 默认使用带时间种子的随机源和 uuid。
func New(cat *gameconfig.Catalogs, opts ...Option) *Engine {
	e := &Engine{cat: cat, newID: uuid.NewString}
	for _, opt := range opts {
		opt(e)
	}
	if e.rand == nil {
		e.rand = rng.NewSeeded(uint64(uuid.New().ID()))
	}
	return e
}

// Outcome 是一次选择的结算结果。
type Outcome struct {
	Success bool
	Result  *model.Result
}

// Resolve 结算一个事件选项。state 只读；unlimited 为无限资源模式，花费视为免费。
func (e *Engine) Resolve(state *model.GameState, choice gameconfig.Choice, unlimited bool) (*Outcome, error) {
	if len(choice.Cost) > 0 && !state.Resources.CanAfford(choice.Cost, 1, unlimited) {
		return nil, model.InsufficientResources(state.Resources.Missing(choice.Cost, 1))
	}

	// 唯一的随机抽取点
	success := choice.SuccessChance == nil || e.rand.Float64() < *choice.SuccessChance

	effects := choice.SuccessEffects
	if !success {
		effects = choice.FailureEffects
	}

	delta := resource.Ledger{}
	if !unlimited {
		delta.Apply(resource.Cost(choice.Cost, 1))
	}

	res := &model.Result{}
	effectLog := ""
	if effects != nil {
		effectLog = effects.Log
		if !success && len(effects.Cost) > 0 && !unlimited {
			delta.Apply(clampedCost(state.Resources, delta, effects.Cost))
		}
		for _, rw := range effects.Rewards {
			switch rw.Type {
			case gameconfig.RewardResource:
				// 奖励不会把余额扣成负数
				left := state.Resources[rw.Resource] + delta[rw.Resource]
				delta[rw.Resource] += max(e.amount(rw), -max(left, 0))
			case gameconfig.RewardItem:
				def, ok := e.cat.Item(rw.ItemID)
				if !ok {
					continue
				}
				for i := 0; i < max(rw.Count, 1); i++ {
					res.NewInventory = append(res.NewInventory, model.InventoryItem{
						ID:           e.newID(),
						DefinitionID: def.ID,
						Name:         def.Name,
						Rarity:       def.Rarity,
					})
				}
			}
		}
	}

	res.ResourceDeltas = resource.Merge(delta)
	res.Log = fmt.Sprintf("Decision: \"%s\". %s", choice.Text, effectLog)
	if effectLog == "" {
		res.Log = fmt.Sprintf("Decision: \"%s\".", choice.Text)
	}
	return &Outcome{Success: success, Result: res}, nil
}

// amount 区间奖励 floor(r*(max-min+1))+min，否则取固定值。
func (e *Engine) amount(rw gameconfig.Reward) int {
	if len(rw.Range) == 2 {
		lo, hi := rw.Range[0], rw.Range[1]
		return rng.Intn(e.rand, hi-lo+1) + lo
	}
	if rw.Amount != nil {
		return *rw.Amount
	}
	return 0
}

// clampedCost 失败分支的额外扣除，最多扣到余额为 0。
func clampedCost(balance, pending, cost resource.Ledger) resource.Ledger {
	out := resource.Ledger{}
	for k, c := range cost {
		left := balance[k] + pending[k]
		if left <= 0 {
			continue
		}
		out[k] = -min(c, left)
	}
	return out
}
