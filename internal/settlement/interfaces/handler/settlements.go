package handler

import (
	"context"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/settlement/actors"
)

// Settlements 是 handler 依赖的存档入口，由 actor.Runtime 实现。
type Settlements interface {
	Create(ctx context.Context, save string) (actors.StateView, error)
	Dispatch(ctx context.Context, save string, req action.Request) (*actors.ActionReply, error)
	State(ctx context.Context, save string) (actors.StateView, error)
	Tasks(ctx context.Context, save string) (*actors.TasksReply, error)
	Items(ctx context.Context, save string) (*actors.ItemsReply, error)
}
