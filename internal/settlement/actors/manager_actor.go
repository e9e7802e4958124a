package actors

import (
	"github.com/asynkron/protoactor-go/actor"

	"Dawnforge/modules/kit/errx"
)

// ManagerActor 按存档名路由，每个存档至多一个子 actor。
// 只做查表和转发，不碰存档数据。
type ManagerActor struct {
	deps     Deps
	children map[string]*actor.PID
	names    map[string]string // pid.Id -> save
}

func NewManagerActor(deps Deps) *ManagerActor {
	return &ManagerActor{
		deps:     deps,
		children: make(map[string]*actor.PID),
		names:    make(map[string]string),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
	case Request:
		if msg.SaveName() == "" {
			ctx.Respond(fail(errx.ErrReqParamERR.WithMsg("empty save name")))
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.SaveName()))
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, save string) *actor.PID {
	if pid, ok := m.children[save]; ok && pid != nil {
		return pid
	}
	props := actor.PropsFromProducer(func() actor.Actor {
		return NewSettlementActor(save, m.deps)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.children[save] = pid
	m.names[pid.Id] = save
	return pid
}

func (m *ManagerActor) forget(pid *actor.PID) {
	if pid == nil {
		return
	}
	save, ok := m.names[pid.Id]
	if !ok {
		return
	}
	delete(m.names, pid.Id)
	if cur, ok := m.children[save]; ok && cur.Id == pid.Id {
		delete(m.children, save)
	}
}
