package ws

import (
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/settlement/actors"
	"Dawnforge/internal/settlement/interfaces/handler/dto"
	"Dawnforge/internal/shared/session"
)

const ResolvedPushName = "settlement.resolved"

// Notifier 把后台结算的任务推给订阅了该存档的连接。
type Notifier struct {
	sessions session.Manager
}

func NewNotifier(sessions session.Manager) *Notifier {
	return &Notifier{sessions: sessions}
}

func (n *Notifier) TasksResolved(save string, tasks []task.Task, view actors.StateView) {
	n.sessions.Broadcast(save, ResolvedPushName, dto.ResolvedPush{Save: save, Tasks: tasks, State: view})
}
