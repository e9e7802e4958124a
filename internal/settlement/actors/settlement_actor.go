package actors

import (
	"context"
	"errors"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Dawnforge/internal/game/task"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/dc"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/modules/kit/logx"
)

type State int

const (
	None State = iota
	Init
	Absent // 存档不存在，只接受 CreateGame
	Online
	Stopping
	Offline
)

// Notifier 接收后台推进中结算完成的任务。
type Notifier interface {
	TasksResolved(save string, tasks []task.Task, view StateView)
}

type nopNotifier struct{}

func (nopNotifier) TasksResolved(string, []task.Task, StateView) {}

// Deps 是所有存档 actor 共用的依赖。
type Deps struct {
	Service     *app.Service
	Repo        app.SaveRepository
	Notifier    Notifier
	Logger      logx.Logger
	Now         func() int64 // 毫秒
	TickEvery   time.Duration
	FlushEvery  time.Duration
	IdleTimeout time.Duration // 0 表示不卸载
}

func (d Deps) withDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Logger == nil {
		d.Logger = logx.Nop()
	}
	if d.Now == nil {
		d.Now = func() int64 { return time.Now().UnixMilli() }
	}
	if d.TickEvery <= 0 {
		d.TickEvery = time.Second
	}
	return d
}

// SettlementActor 独占一个存档：一次只处理一条消息，动作之间天然串行。
type SettlementActor struct {
	state      State
	name       string
	deps       Deps
	dc         *dc.SettlementDC
	entity     *entity.Settlement
	dispatcher *Dispatcher
	tickStop   chan struct{}
	flushStop  chan struct{}
}

type tickMsg struct{}

func (tickMsg) NotInfluenceReceiveTimeout() {}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewSettlementActor(name string, deps Deps) *SettlementActor {
	deps = deps.withDefaults()
	return &SettlementActor{
		state:      None,
		name:       name,
		deps:       deps,
		dc:         dc.NewSettlementDC(deps.Repo, deps.FlushEvery, deps.Logger),
		dispatcher: NewDispatcher(),
	}
}

func (a *SettlementActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		a.state = Init
		if a.deps.IdleTimeout > 0 {
			ctx.SetReceiveTimeout(a.deps.IdleTimeout)
		}
		a.init(ctx)
	case *actor.ReceiveTimeout:
		ctx.Stop(ctx.Self())
	case *actor.Stopping:
		a.stopLoops()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := a.dc.Close(closeCtx); err != nil {
			a.deps.Logger.Error("settlement dc close failed", zap.String("save", a.name), zap.Error(err))
		}
		a.state = Stopping
	case *actor.Stopped:
		a.stopLoops()
		a.state = Offline
	case *actor.Restarting:
		// 重启会换一个新的 actor 实例，旧的 dc 先写空
		a.stopLoops()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = a.dc.Close(closeCtx)
		a.state = Init
	case tickMsg:
		if a.state != Online {
			return
		}
		a.advance(context.Background())
	case flushTick:
		if a.state != Online {
			return
		}
		a.dc.Flush()
	case Request:
		if a.state == Stopping || a.state == Offline {
			ctx.Respond(fail(app.ErrSaveNotFound.WithData("save", a.name)))
			return
		}
		a.dispatcher.Dispatch(ctx, a, msg)
	}
}

// init 读档；找不到时进入 Absent 等待 CreateGame，其他错误直接退出。
func (a *SettlementActor) init(ctx actor.Context) {
	loadCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	e, err := a.dc.Load(loadCtx, a.name)
	switch {
	case err == nil:
		a.goOnline(ctx, e)
		// 卸载期间到期的任务在这里补结
		a.advance(loadCtx)
	case errors.Is(err, app.ErrSaveNotFound):
		a.state = Absent
	default:
		logx.ReportErrorWithLoggerContext(loadCtx, a.deps.Logger, "settlement.load", err, zap.String("save", a.name))
		a.state = Stopping
		ctx.Stop(ctx.Self())
	}
}

func (a *SettlementActor) goOnline(ctx actor.Context, e *entity.Settlement) {
	a.entity = e
	a.state = Online
	a.tickStop = a.startLoop(ctx, a.deps.TickEvery, tickMsg{})
	a.flushStop = a.startLoop(ctx, a.dc.FlushEvery(), flushTick{})
}

// advance 把存档推进到当前时刻，有任务结算时通知订阅方。
func (a *SettlementActor) advance(ctx context.Context) {
	now := a.deps.Now()
	report := a.deps.Service.Tick(ctx, a.entity, now)
	if len(report.Resolved) > 0 {
		a.deps.Notifier.TasksResolved(a.name, report.Resolved, a.view(now))
	}
}

func (a *SettlementActor) view(now int64) StateView {
	return StateView{
		Save:    a.name,
		Version: a.entity.Version(),
		Now:     now,
		State:   a.entity.State().Clone(),
	}
}

func (a *SettlementActor) Name() string {
	return a.name
}

func (a *SettlementActor) Entity() *entity.Settlement {
	return a.entity
}

func (a *SettlementActor) DC() *dc.SettlementDC {
	return a.dc
}

func (a *SettlementActor) startLoop(ctx actor.Context, every time.Duration, msg any) chan struct{} {
	if every <= 0 {
		return nil
	}
	stop := make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, msg)
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func (a *SettlementActor) stopLoops() {
	if a.tickStop != nil {
		close(a.tickStop)
		a.tickStop = nil
	}
	if a.flushStop != nil {
		close(a.flushStop)
		a.flushStop = nil
	}
}
