// Package action 校验玩家动作并产出结果包。处理器只读状态，从不修改它；
// 被拒绝的动作不会留下任何痕迹。
//
// 每个处理器按固定顺序校验：目标存在 → 任务冲突 → 前置条件 → 人口 → 资源 → 唯一性/领域规则。
package action

import (
	"Dawnforge/internal/game/event"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/shared/gameconfig"

	"github.com/go-viper/mapstructure/v2"
)

type Kind string

const (
	KindBuild           Kind = "BUILD"
	KindDemolish        Kind = "DEMOLISH"
	KindTrainVillager   Kind = "TRAIN_VILLAGER"
	KindTrainUnit       Kind = "TRAIN_UNIT"
	KindUpgradeBuilding Kind = "UPGRADE_BUILDING"
	KindStartResearch   Kind = "START_RESEARCH"
	KindAdvanceAge      Kind = "ADVANCE_AGE"
	KindProcessChoice   Kind = "PROCESS_CHOICE"
	KindGather          Kind = "GATHER"
	KindMove            Kind = "MOVE"
	KindUseItem         Kind = "USE_ITEM"
	KindCancelTask      Kind = "CANCEL_TASK"
)

// Request 是宿主传进来的动作：{ type, payload }。
type Request struct {
	Type    Kind           `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Env 是一次动作处理的上下文。
type Env struct {
	Catalogs  *gameconfig.Catalogs
	Events    *event.Engine
	Now       int64
	Unlimited bool          // 无限资源模式：跳过资源校验，花费视为免费
	NewID     func() string // 建筑实例 id
}

// Handler 处理一种动作。
type Handler interface {
	Handle(env *Env, s *model.GameState, payload map[string]any) (*model.Result, error)
}

type HandlerFunc func(env *Env, s *model.GameState, payload map[string]any) (*model.Result, error)

func (f HandlerFunc) Handle(env *Env, s *model.GameState, payload map[string]any) (*model.Result, error) {
	return f(env, s, payload)
}

// Registry 是动作类型到处理器的查找表。
type Registry struct {
	handlers map[Kind]Handler
}

// NewRegistry 注册全部内置动作。
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[Kind]Handler, 12)}
	r.Register(KindBuild, typed(build))
	r.Register(KindDemolish, typed(demolish))
	r.Register(KindTrainVillager, typed(trainVillager))
	r.Register(KindTrainUnit, typed(trainUnit))
	r.Register(KindUpgradeBuilding, typed(upgrade))
	r.Register(KindStartResearch, typed(startResearch))
	r.Register(KindAdvanceAge, typed(advanceAge))
	r.Register(KindProcessChoice, typed(processChoice))
	r.Register(KindGather, typed(gather))
	r.Register(KindMove, typed(move))
	r.Register(KindUseItem, typed(useItem))
	r.Register(KindCancelTask, typed(cancelTask))
	return r
}

func (r *Registry) Register(kind Kind, h Handler) {
	r.handlers[kind] = h
}

// Kinds 返回已注册的动作类型。
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, 0, len(r.handlers))
	for k := range r.handlers {
		out = append(out, k)
	}
	return out
}

// Dispatch 查表执行；未注册的类型返回 unknown action。
func (r *Registry) Dispatch(env *Env, s *model.GameState, req Request) (*model.Result, error) {
	h, ok := r.handlers[req.Type]
	if !ok {
		return nil, model.UnknownAction(string(req.Type))
	}
	return h.Handle(env, s, req.Payload)
}

// typed 把 payload 解码成具体的请求结构再交给处理器。
func typed[P any](fn func(env *Env, s *model.GameState, p P) (*model.Result, error)) Handler {
	return HandlerFunc(func(env *Env, s *model.GameState, payload map[string]any) (*model.Result, error) {
		var p P
		if err := decode(payload, &p); err != nil {
			return nil, model.InvalidTarget("malformed payload: %v", err).WithCause(err)
		}
		return fn(env, s, p)
	})
}

func decode(in map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// costDelta 无限资源模式下不扣费。
func (env *Env) costDelta(cost resource.Ledger, multiplier int) resource.Ledger {
	if env.Unlimited {
		return nil
	}
	return resource.Cost(cost, multiplier)
}

func (env *Env) afford(s *model.GameState, cost resource.Ledger, multiplier int) error {
	if s.Resources.CanAfford(cost, multiplier, env.Unlimited) {
		return nil
	}
	return model.InsufficientResources(s.Resources.Missing(cost, multiplier))
}
