package ws

import (
	"context"

	"Dawnforge/internal/settlement/interfaces/handler"
	"Dawnforge/internal/settlement/interfaces/handler/dto"
	"Dawnforge/internal/shared/security"
	"Dawnforge/internal/shared/session"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/internal/shared/transport/ws"
	"Dawnforge/modules/kit/logx"
)

type WsHandler struct {
	settlements handler.Settlements
	sessions    session.Manager
	log         logx.Logger
}

func NewWsHandler(s handler.Settlements, sessions session.Manager, l logx.Logger) *WsHandler {
	if l == nil {
		l = logx.Nop()
	}
	return &WsHandler{settlements: s, sessions: sessions, log: l}
}

func (h *WsHandler) RegisterRoutes(r *ws.Router) {
	g := r.Group("settlement")
	g.Handle("subscribe", h.Subscribe)
	g.Handle("action", h.Action)
	g.Handle("state", h.State)
}

// Subscribe 用开局时拿到的 token 把连接绑到存档上，之后的请求和推送都针对这个存档。
func (h *WsHandler) Subscribe(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	if wsReq == nil || wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return
	}
	var req dto.SubscribeReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Token == "" {
		h.fail(wsResp, transport.InvalidParam, "token is required")
		return
	}
	_, claims, err := security.ParseToken(req.Token)
	if err != nil {
		transport.SetErrorReason(ctx, "TOKEN_INVALID")
		h.fail(wsResp, transport.Unauthorized, "invalid token")
		return
	}
	h.sessions.Subscribe(claims.Save, wsReq.Conn)
	h.ok(wsResp, dto.SubscribeResp{Save: claims.Save})
}

func (h *WsHandler) Action(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	save, ok := h.saveOf(wsReq, wsResp)
	if !ok {
		return
	}
	var req dto.ActionReq
	if err := ws.BindJSON(wsReq, &req); err != nil || req.Type == "" {
		h.fail(wsResp, transport.InvalidParam, "invalid action body")
		return
	}
	reply, err := h.settlements.Dispatch(ctx, save, req.Request())
	if err != nil {
		h.error(ctx, wsResp, "dispatch action", err)
		return
	}
	h.ok(wsResp, reply)
}

func (h *WsHandler) State(ctx context.Context, wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) {
	save, ok := h.saveOf(wsReq, wsResp)
	if !ok {
		return
	}
	view, err := h.settlements.State(ctx, save)
	if err != nil {
		h.error(ctx, wsResp, "get state", err)
		return
	}
	h.ok(wsResp, view)
}

func (h *WsHandler) saveOf(wsReq *ws.WsMsgReq, wsResp *ws.WsMsgResp) (string, bool) {
	if wsReq == nil || wsReq.Conn == nil {
		h.fail(wsResp, transport.InvalidParam, "invalid request")
		return "", false
	}
	save, ok := h.sessions.SaveOf(wsReq.Conn)
	if !ok {
		h.fail(wsResp, transport.Unauthorized, "subscribe to a save first")
		return "", false
	}
	return save, true
}

func (h *WsHandler) ok(resp *ws.WsMsgResp, data any) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = transport.OK
	resp.Body.Msg = data
}

func (h *WsHandler) fail(resp *ws.WsMsgResp, code int, msg string) {
	if resp == nil || resp.Body == nil {
		return
	}
	resp.Body.Code = code
	if msg != "" {
		resp.Body.Msg = msg
	}
}

func (h *WsHandler) error(ctx context.Context, resp *ws.WsMsgResp, action string, err error) {
	code, msg := handler.HandleError(ctx, h.log, action, err)
	h.fail(resp, code, msg)
}
