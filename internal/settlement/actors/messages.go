package actors

import (
	"context"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/modules/kit/tracex"
)

// Request 是发给存档 actor 的消息，ManagerActor 按 SaveName 路由。
type Request interface {
	SaveName() string
}

// Envelope 携带调用方的 trace id，actor 内部据此重建 ctx。
type Envelope struct {
	Save    string
	TraceID string
}

func (e Envelope) SaveName() string { return e.Save }

func (e Envelope) context() context.Context {
	ctx := context.Background()
	if e.TraceID != "" {
		ctx = tracex.WithTraceID(ctx, e.TraceID)
	}
	return ctx
}

// NewEnvelope 从调用方 ctx 取 trace id。
func NewEnvelope(ctx context.Context, save string) Envelope {
	traceID, _ := tracex.TraceIDFrom(ctx)
	return Envelope{Save: save, TraceID: traceID}
}

type CreateGame struct {
	Envelope
}

type DispatchAction struct {
	Envelope
	Action action.Request
}

type GetState struct {
	Envelope
}

type GetTasks struct {
	Envelope
}

type GetItems struct {
	Envelope
}

// Response 是所有请求的统一回复；Err 非空时 Data 无意义。
type Response struct {
	Data any
	Err  error
}

// StateView 是某一时刻的状态副本，可以安全地跨 goroutine 读。
type StateView struct {
	Save    string           `json:"save"`
	Version uint64           `json:"version"`
	Now     int64            `json:"now"`
	State   *model.GameState `json:"state"`
}

type ActionReply struct {
	Result *model.Result `json:"result"`
	State  StateView     `json:"state"`
}

type TasksReply struct {
	Now   int64          `json:"now"`
	Tasks []app.TaskView `json:"tasks"`
}

type ItemsReply struct {
	Now   int64                 `json:"now"`
	Items []model.InventoryItem `json:"items"`
}
