package dto

import (
	"Dawnforge/internal/game/action"
	"Dawnforge/internal/settlement/actors"
)

// Response 是 HTTP 响应体：code 为业务码，HTTP 状态恒为 200。
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data,omitempty"`
}

func Success(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func Error(code int, msg string) Response {
	return Response{Code: code, Msg: msg}
}

type CreateResp struct {
	Token string            `json:"token"`
	State actors.StateView `json:"state"`
}

// ActionReq 与 action.Request 同形，WS 里 save 取自订阅。
type ActionReq struct {
	Type    action.Kind    `json:"type"`
	Payload map[string]any `json:"payload"`
}

func (r ActionReq) Request() action.Request {
	return action.Request{Type: r.Type, Payload: r.Payload}
}

type SubscribeReq struct {
	Token string `json:"token"`
}

type SubscribeResp struct {
	Save string `json:"save"`
}

// ResolvedPush 是 settlement.resolved 推送体。
type ResolvedPush struct {
	Save  string           `json:"save"`
	Tasks any              `json:"tasks"`
	State actors.StateView `json:"state"`
}
