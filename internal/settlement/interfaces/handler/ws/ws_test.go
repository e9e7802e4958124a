package ws

import (
	"context"
	"sync"
	"testing"
	"time"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/settlement/actors"
	"Dawnforge/internal/shared/security"
	"Dawnforge/internal/shared/session"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/internal/shared/transport/ws"
)

type fakeConn struct {
	mu     sync.Mutex
	props  map[string]any
	pushed []string
	done   chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{props: map[string]any{}, done: make(chan struct{})}
}

func (c *fakeConn) SetProperty(k string, v any) { c.mu.Lock(); c.props[k] = v; c.mu.Unlock() }
func (c *fakeConn) GetProperty(k string) any    { c.mu.Lock(); defer c.mu.Unlock(); return c.props[k] }
func (c *fakeConn) RemoveProperty(k string)     { c.mu.Lock(); delete(c.props, k); c.mu.Unlock() }
func (c *fakeConn) Addr() string                { return "fake" }
func (c *fakeConn) Push(name string, _ any)     { c.mu.Lock(); c.pushed = append(c.pushed, name); c.mu.Unlock() }
func (c *fakeConn) Close()                      {}
func (c *fakeConn) Done() <-chan struct{}       { return c.done }

type fakeSettlements struct {
	dispatched []string
}

func (f *fakeSettlements) Create(_ context.Context, save string) (actors.StateView, error) {
	return actors.StateView{Save: save}, nil
}

func (f *fakeSettlements) Dispatch(_ context.Context, save string, req action.Request) (*actors.ActionReply, error) {
	f.dispatched = append(f.dispatched, save+":"+string(req.Type))
	return &actors.ActionReply{Result: &model.Result{}}, nil
}

func (f *fakeSettlements) State(_ context.Context, save string) (actors.StateView, error) {
	return actors.StateView{Save: save}, nil
}

func (f *fakeSettlements) Tasks(context.Context, string) (*actors.TasksReply, error) {
	return &actors.TasksReply{}, nil
}

func (f *fakeSettlements) Items(context.Context, string) (*actors.ItemsReply, error) {
	return &actors.ItemsReply{}, nil
}

func call(r *ws.Router, conn ws.WSConn, name string, msg any) *ws.RespBody {
	resp := &ws.WsMsgResp{Body: &ws.RespBody{Name: name}}
	r.Dispatch(&ws.WsMsgReq{Body: &ws.ReqBody{Name: name, Msg: msg}, Conn: conn}, resp)
	return resp.Body
}

func setup() (*ws.Router, *fakeSettlements, *session.SessMgr) {
	s := &fakeSettlements{}
	sessions := session.NewSessMgr()
	r := ws.NewRouter(nil)
	NewWsHandler(s, sessions, nil).RegisterRoutes(r)
	return r, s, sessions
}

func TestAction_未订阅时拒绝(t *testing.T) {
	r, s, _ := setup()
	resp := call(r, newFakeConn(), "settlement.action", map[string]any{"type": "BUILD"})
	if resp.Code != transport.Unauthorized {
		t.Fatalf("期望 Unauthorized，got=%d", resp.Code)
	}
	if len(s.dispatched) != 0 {
		t.Fatalf("期望没有动作被执行")
	}
}

func TestSubscribe_订阅后动作落到token绑定的存档(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-secret")
	token, err := security.Award("alpha", time.Hour)
	if err != nil {
		t.Fatalf("Award err=%v", err)
	}
	r, s, sessions := setup()
	conn := newFakeConn()

	if resp := call(r, conn, "settlement.subscribe", map[string]any{"token": token}); resp.Code != transport.OK {
		t.Fatalf("期望订阅成功，got=%+v", resp)
	}
	if save, ok := sessions.SaveOf(conn); !ok || save != "alpha" {
		t.Fatalf("期望连接绑定 alpha，got=%q", save)
	}
	resp := call(r, conn, "settlement.action", map[string]any{"type": "GATHER", "payload": map[string]any{}})
	if resp.Code != transport.OK {
		t.Fatalf("期望动作成功，got=%+v", resp)
	}
	if len(s.dispatched) != 1 || s.dispatched[0] != "alpha:GATHER" {
		t.Fatalf("期望动作发往 alpha，got=%v", s.dispatched)
	}
}

func TestSubscribe_无效token(t *testing.T) {
	t.Setenv("JWT_SECRET", "ws-secret")
	r, _, _ := setup()
	resp := call(r, newFakeConn(), "settlement.subscribe", map[string]any{"token": "garbage"})
	if resp.Code != transport.Unauthorized {
		t.Fatalf("期望 Unauthorized，got=%d", resp.Code)
	}
}

func TestNotifier_推送给订阅者(t *testing.T) {
	sessions := session.NewSessMgr()
	conn := newFakeConn()
	sessions.Subscribe("alpha", conn)

	NewNotifier(sessions).TasksResolved("alpha", []task.Task{{ID: "t1"}}, actors.StateView{Save: "alpha"})

	conn.mu.Lock()
	defer conn.mu.Unlock()
	if len(conn.pushed) != 1 || conn.pushed[0] != ResolvedPushName {
		t.Fatalf("期望收到一次 %s 推送，got=%v", ResolvedPushName, conn.pushed)
	}
}
