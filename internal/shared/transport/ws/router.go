package ws

import (
	"context"
	"strings"

	"Dawnforge/internal/shared/logs"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Group 是路由前缀，例如 settlement.*。
type Group struct {
	prefix string
	r      *Router
}

func (g *Group) Handle(name string, h HandlerFunc) {
	g.r.routes[g.prefix+"."+name] = h
}

// Router 按 "组.处理器" 的完整名字查表分发，例如 settlement.action。
// 注册只在启动时进行，之后只读。
type Router struct {
	routes   map[string]HandlerFunc
	prefixes map[string]bool
	log      logx.Logger
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.NewZapLogger(logs.L())
	}
	return &Router{
		routes:   make(map[string]HandlerFunc),
		prefixes: make(map[string]bool),
		log:      l,
	}
}

func (r *Router) Group(prefix string) *Group {
	r.prefixes[prefix] = true
	return &Group{prefix: prefix, r: r}
}

// Registrar 由业务模块实现，把自己的路由挂到 Router 上。
type Registrar interface {
	WsRegister(r *Router)
}

func (r *Router) Register(modules ...Registrar) {
	for _, m := range modules {
		m.WsRegister(r)
	}
}

func (r *Router) Dispatch(req *WsMsgReq, resp *WsMsgResp) {
	if req == nil || req.Body == nil || resp == nil || resp.Body == nil {
		ctx := transport.NewContext("WS unknown")
		fail(resp, transport.InvalidParam, "invalid request")
		transport.Finish(ctx, r.log, transport.InvalidParam)
		return
	}

	ctx := transport.NewContext("WS " + req.Body.Name)
	if req.Conn != nil {
		ctx = context.WithValue(ctx, connKey{}, req.Conn)
	}
	// handler 没有设码时按系统错误记
	resp.Body.Code, resp.Body.Msg = transport.SystemError, nil
	defer func() { transport.Finish(ctx, r.log, resp.Body.Code) }()

	h, code, msg := r.lookup(req.Body.Name)
	if h == nil {
		fail(resp, code, msg)
		return
	}
	h(ctx, req, resp)
}

// lookup 找不到时给出参数错误的原因。
func (r *Router) lookup(route string) (HandlerFunc, int, string) {
	prefix, name, ok := strings.Cut(route, ".")
	if !ok || prefix == "" || name == "" || strings.Contains(name, ".") {
		return nil, transport.InvalidParam, "invalid route"
	}
	if !r.prefixes[prefix] {
		return nil, transport.InvalidParam, "unknown route group"
	}
	if h := r.routes[route]; h != nil {
		return h, 0, ""
	}
	return nil, transport.InvalidParam, "unknown route"
}

func fail(resp *WsMsgResp, code int, msg string) {
	if resp != nil && resp.Body != nil {
		resp.Body.Code, resp.Body.Msg = code, msg
	}
}

type connKey struct{}

// ConnFrom 取出当前请求所在的连接。
func ConnFrom(ctx context.Context) (WSConn, bool) {
	c, ok := ctx.Value(connKey{}).(WSConn)
	return c, ok
}
