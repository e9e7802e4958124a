package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/game/event"
	"Dawnforge/internal/game/inventory"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/naming"
	"Dawnforge/internal/game/resolve"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/rng"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/game/worldgen"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/shared/gameconfig"
	"Dawnforge/modules/kit/logx"
)

const (
	townCenterType = "town_center"
	villagerType   = "villager"
	defaultLogCap  = 50
)

type Options struct {
	Catalogs          *gameconfig.Catalogs
	LogLimit          int
	Unlimited         bool
	StartingResources resource.Ledger
	StartingVillagers int
	World             worldgen.Config
	Rand              rng.Source    // 事件结算；为空时按时间播种
	NewID             func() string // 建筑、单位、物品 id；为空用 uuid
	Logger            logx.Logger
}

// Service 把核心规则接到一个存档上：校验、合并、结算。
// 不持有存档本身，同一存档的调用由 actor 串行化。
type Service struct {
	cat       *gameconfig.Catalogs
	registry  *action.Registry
	events    *event.Engine
	newID     func() string
	logLimit  int
	unlimited bool
	starting  resource.Ledger
	villagers int
	world     worldgen.Config
	log       logx.Logger
}

func NewService(opts Options) *Service {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Rand == nil {
		opts.Rand = rng.NewSeeded(uint64(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logx.Nop()
	}
	if opts.LogLimit <= 0 {
		opts.LogLimit = defaultLogCap
	}
	return &Service{
		cat:       opts.Catalogs,
		registry:  action.NewRegistry(),
		events:    event.New(opts.Catalogs, event.WithRand(opts.Rand), event.WithIDFunc(opts.NewID)),
		newID:     opts.NewID,
		logLimit:  opts.LogLimit,
		unlimited: opts.Unlimited,
		starting:  opts.StartingResources.Clone(),
		villagers: opts.StartingVillagers,
		world:     opts.World,
		log:       opts.Logger,
	}
}

func (s *Service) Catalogs() *gameconfig.Catalogs {
	return s.cat
}

// NewGame 开新局：第一个时代、起始资源、原点城镇中心、起始村民和随机资源点。
func (s *Service) NewGame(name string, now int64) (*entity.Settlement, error) {
	if !ValidSaveName(name) {
		return nil, ErrInvalidSaveName.WithData("save", name)
	}
	state := model.NewGameState(s.cat.FirstAge().ID)

	kinds := make([]resource.Kind, 0, len(s.cat.Resources()))
	for _, r := range s.cat.Resources() {
		state.Resources[r.ID] = s.starting[r.ID]
		kinds = append(kinds, r.ID)
	}

	world := s.world
	if world.Seed == 0 {
		world.Seed = now
	}
	state.Nodes = worldgen.Generate(world, kinds)

	st := entity.New(name, state, s.cat.Digest(), now)

	founding := &model.Result{Log: fmt.Sprintf("The settlement of %s is founded.", name)}
	if def, ok := s.cat.Building(townCenterType); ok {
		founding.NewBuildings = append(founding.NewBuildings, model.BuildingInstance{
			ID:   s.newID(),
			Type: def.ID,
			Name: def.Name,
			HP:   def.HP,
		})
	}
	if def, ok := s.cat.Unit(villagerType); ok {
		for i := 0; i < s.villagers; i++ {
			founding.UpdatedUnits = append(founding.UpdatedUnits, model.Unit{
				ID:       s.newID(),
				Name:     st.Names().Next(naming.Villager),
				Kind:     def.Kind,
				UnitType: def.ID,
			})
		}
	}
	st.Apply(founding, now, s.logLimit)
	return st, nil
}

// Dispatch 校验并执行一个动作，成功时合并结果。被拒绝时状态不变。
func (s *Service) Dispatch(ctx context.Context, st *entity.Settlement, req action.Request, now int64) (*model.Result, error) {
	env := &action.Env{
		Catalogs:  s.cat,
		Events:    s.events,
		Now:       now,
		Unlimited: s.unlimited,
		NewID:     s.newID,
	}
	res, err := s.registry.Dispatch(env, st.State(), req)
	if err != nil {
		s.report(ctx, st, string(req.Type), err)
		return nil, err
	}
	st.Apply(res, now, s.logLimit)
	return res, nil
}

func (s *Service) report(ctx context.Context, st *entity.Settlement, act string, err error) {
	// 规则拒绝走 biz 日志，其余走 sys 日志
	logx.ReportErrorWithLoggerContext(ctx, s.log, act, err, zap.String("save", st.Name()))
}

// TickReport 是一次推进的产出。
type TickReport struct {
	Resolved []task.Task
	Result   *model.Result
}

// Tick 推进时钟：先结采集，再结到期任务（每个只结一次），最后清过期 buff。
// 三步依次合并，后一步读到前一步的结果。
func (s *Service) Tick(ctx context.Context, st *entity.Settlement, now int64) *TickReport {
	report := &TickReport{Result: &model.Result{}}

	if r := resolve.PollGather(st.State(), s.cat, now); r != nil {
		st.Apply(r, now, s.logLimit)
		report.Result.Merge(r)
	}

	deps := resolve.Deps{Catalogs: s.cat, Names: st.Names(), NewID: s.newID}
	if r, done := resolve.DueResults(st.State(), now, deps); r != nil {
		st.Apply(r, now, s.logLimit)
		report.Result.Merge(r)
		report.Resolved = done
	}

	if r := inventory.ExpireBuffs(st.State(), now); r != nil {
		st.Apply(r, now, s.logLimit)
		report.Result.Merge(r)
	}

	if len(report.Resolved) > 0 {
		s.log.WithContext(ctx).Debug("tasks resolved",
			zap.String("save", st.Name()),
			zap.Int("count", len(report.Resolved)),
		)
	}
	return report
}

// UsableItems 当前可以使用的物品，按稀有度排序。
func (s *Service) UsableItems(st *entity.Settlement, now int64) []model.InventoryItem {
	return inventory.UsableItems(st.State(), now)
}

// TaskView 是任务加上当前进度，供界面展示。
type TaskView struct {
	task.Task
	Progress  float64 `json:"progress"`  // 0..1，采集任务恒为 0
	Remaining int64   `json:"remaining"` // 毫秒
}

func (s *Service) Progress(st *entity.Settlement, now int64) []TaskView {
	tasks := st.State().Tasks
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		v := TaskView{Task: t, Progress: task.Progress(t, now)}
		if t.Kind != task.KindGather {
			v.Remaining = max(0, t.Deadline()-now)
		}
		out = append(out, v)
	}
	return out
}
