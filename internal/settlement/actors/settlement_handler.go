package actors

import (
	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/modules/kit/logx"
)

type SettlementHandler struct{}

// 全局实例
var SH = &SettlementHandler{}

func (h *SettlementHandler) HandleCreateGame(ctx actor.Context, a *SettlementActor, req *CreateGame) {
	if a.state == Online {
		ctx.Respond(fail(app.ErrSaveExists.WithData("save", a.name)))
		return
	}
	if a.state != Absent {
		ctx.Respond(fail(app.ErrSaveNotFound.WithData("save", a.name)))
		return
	}
	now := a.deps.Now()
	st, err := a.deps.Service.NewGame(a.name, now)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	a.dc.Attach(st)
	a.goOnline(ctx, st)

	// 新档立即落库，列表里马上可见
	if err := a.dc.FlushSync(req.context()); err != nil {
		logx.ReportErrorWithLoggerContext(req.context(), a.deps.Logger, "settlement.create", err, zap.String("save", a.name))
	}
	ctx.Respond(ok(a.view(now)))
}

func (h *SettlementHandler) HandleDispatchAction(ctx actor.Context, a *SettlementActor, req *DispatchAction) {
	if !h.requireOnline(ctx, a) {
		return
	}
	c := req.context()
	a.advance(c)

	now := a.deps.Now()
	res, err := a.deps.Service.Dispatch(c, a.entity, req.Action, now)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(ok(&ActionReply{Result: res, State: a.view(now)}))
}

func (h *SettlementHandler) HandleGetState(ctx actor.Context, a *SettlementActor, req *GetState) {
	if !h.requireOnline(ctx, a) {
		return
	}
	a.advance(req.context())
	ctx.Respond(ok(a.view(a.deps.Now())))
}

func (h *SettlementHandler) HandleGetTasks(ctx actor.Context, a *SettlementActor, req *GetTasks) {
	if !h.requireOnline(ctx, a) {
		return
	}
	a.advance(req.context())
	now := a.deps.Now()
	ctx.Respond(ok(&TasksReply{Now: now, Tasks: a.deps.Service.Progress(a.entity, now)}))
}

func (h *SettlementHandler) HandleGetItems(ctx actor.Context, a *SettlementActor, req *GetItems) {
	if !h.requireOnline(ctx, a) {
		return
	}
	a.advance(req.context())
	now := a.deps.Now()
	ctx.Respond(ok(&ItemsReply{Now: now, Items: a.deps.Service.UsableItems(a.entity, now)}))
}

// requireOnline 存档不存在时回 not found 并退出，别让空 actor 常驻。
func (h *SettlementHandler) requireOnline(ctx actor.Context, a *SettlementActor) bool {
	if a.state == Online {
		return true
	}
	ctx.Respond(fail(app.ErrSaveNotFound.WithData("save", a.name)))
	if a.state == Absent {
		ctx.Stop(ctx.Self())
	}
	return false
}
