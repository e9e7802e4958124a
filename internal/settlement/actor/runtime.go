package actor

import (
	"context"
	"errors"
	"time"

	protoactor "github.com/asynkron/protoactor-go/actor"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/settlement/actors"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/errx"
)

const defaultAskTimeout = 3 * time.Second

type RuntimeError struct {
	Code    int
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Runtime 是 actor 系统对外的入口：HTTP/WS 只通过它和存档 actor 交互。
type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}
	system := protoactor.NewActorSystem()
	root := system.Root
	// manager 只路由，不干重活
	manager := root.Spawn(protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	}))
	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 先停 manager，子 actor 随之停止并把 dc 写空。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) Create(ctx context.Context, save string) (actors.StateView, error) {
	if !app.ValidSaveName(save) {
		return actors.StateView{}, app.ErrInvalidSaveName.WithData("save", save)
	}
	return ask[actors.StateView](ctx, r, &actors.CreateGame{Envelope: actors.NewEnvelope(ctx, save)})
}

func (r *Runtime) Dispatch(ctx context.Context, save string, req action.Request) (*actors.ActionReply, error) {
	return ask[*actors.ActionReply](ctx, r, &actors.DispatchAction{Envelope: actors.NewEnvelope(ctx, save), Action: req})
}

func (r *Runtime) State(ctx context.Context, save string) (actors.StateView, error) {
	return ask[actors.StateView](ctx, r, &actors.GetState{Envelope: actors.NewEnvelope(ctx, save)})
}

func (r *Runtime) Tasks(ctx context.Context, save string) (*actors.TasksReply, error) {
	return ask[*actors.TasksReply](ctx, r, &actors.GetTasks{Envelope: actors.NewEnvelope(ctx, save)})
}

func (r *Runtime) Items(ctx context.Context, save string) (*actors.ItemsReply, error) {
	return ask[*actors.ItemsReply](ctx, r, &actors.GetItems{Envelope: actors.NewEnvelope(ctx, save)})
}

func ask[T any](ctx context.Context, r *Runtime, msg actors.Request) (T, error) {
	var zero T
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if errors.Is(err, protoactor.ErrDeadLetter) {
		// 目标 actor 刚好空闲卸载，manager 会重新拉起
		res, err = r.request(r.manager, msg, r.timeoutFromContext(ctx))
	}
	if err != nil {
		return zero, err
	}
	resp, ok := res.(*actors.Response)
	if !ok || resp == nil {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor reply"}
	}
	if resp.Err != nil {
		return zero, resp.Err
	}
	data, ok := resp.Data.(T)
	if !ok {
		return zero, &RuntimeError{Code: transport.SystemError, Message: "unexpected actor reply payload"}
	}
	return data, nil
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor runtime not initialized"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor pid is nil"}
	}
	res, err := r.root.RequestFuture(pid, msg, timeout).Result()
	if err != nil {
		if errors.Is(err, protoactor.ErrDeadLetter) {
			return nil, err
		}
		return nil, &RuntimeError{Code: transport.SystemError, Message: "actor request failed", Cause: err}
	}
	return res, nil
}

// timeoutFromContext 取 ctx 剩余时间和默认超时中较小的一个。
func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	return min(remain, r.timeout)
}

// CodeFromError 把错误映射为响应业务码。
func CodeFromError(err error) int {
	if err == nil {
		return transport.OK
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != 0 {
		return re.Code
	}
	e, ok := errx.From(err)
	if !ok || !e.IsBiz() {
		return transport.SystemError
	}
	switch e.Code() {
	case errx.CodeNotFound:
		return transport.NotFound
	case errx.CodeReqParamError, app.CodeInvalidSaveName:
		return transport.InvalidParam
	default:
		return transport.Rejected
	}
}
