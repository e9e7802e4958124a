package actors

import (
	"reflect"

	"github.com/asynkron/protoactor-go/actor"

	"Dawnforge/modules/kit/errx"
)

type handlerFunc func(ctx actor.Context, a *SettlementActor, msg Request)

// Dispatcher 按消息的具体类型找处理函数。
type Dispatcher struct {
	handlers map[reflect.Type]handlerFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{handlers: make(map[reflect.Type]handlerFunc)}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, SH.HandleCreateGame)
	register(d, SH.HandleDispatchAction)
	register(d, SH.HandleGetState)
	register(d, SH.HandleGetTasks)
	register(d, SH.HandleGetItems)
}

// register 要求 Req 是指针消息，同一类型只能注册一次。
func register[Req Request](d *Dispatcher, fn func(ctx actor.Context, a *SettlementActor, req Req)) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType.Kind() != reflect.Ptr {
		panic("dispatcher req type must be pointer message")
	}
	if _, dup := d.handlers[reqType]; dup {
		panic("dispatcher duplicate handler for " + reqType.String())
	}
	d.handlers[reqType] = func(ctx actor.Context, a *SettlementActor, msg Request) {
		fn(ctx, a, msg.(Req))
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, a *SettlementActor, msg Request) {
	h, ok := d.handlers[reflect.TypeOf(msg)]
	if !ok {
		ctx.Respond(fail(errx.ErrReqParamERR.WithMsgf("no handler for %T", msg)))
		return
	}
	h(ctx, a, msg)
}

func ok(data any) *Response {
	return &Response{Data: data}
}

func fail(err error) *Response {
	return &Response{Err: err}
}
