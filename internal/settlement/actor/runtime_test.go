package actor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"Dawnforge/internal/game/action"
	"Dawnforge/internal/game/gametest"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/game/rng"
	"Dawnforge/internal/game/task"
	"Dawnforge/internal/game/worldgen"
	"Dawnforge/internal/settlement/actors"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/memory"
	"Dawnforge/internal/shared/transport"
	"Dawnforge/modules/kit/errx"
)

type fakeNotifier struct {
	mu    sync.Mutex
	tasks []task.Task
}

func (f *fakeNotifier) TasksResolved(_ string, tasks []task.Task, _ actors.StateView) {
	f.mu.Lock()
	f.tasks = append(f.tasks, tasks...)
	f.mu.Unlock()
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

type harness struct {
	rt       *Runtime
	repo     *memory.SaveRepo
	clock    *atomic.Int64
	notifier *fakeNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &atomic.Int64{}
	clock.Store(gametest.Now)
	repo := memory.NewSaveRepo(codec.New(false))
	notifier := &fakeNotifier{}
	svc := app.NewService(app.Options{
		Catalogs:          gametest.Catalogs(),
		StartingResources: resource.Ledger{resource.Food: 200, resource.Wood: 200, resource.Gold: 100},
		StartingVillagers: 2,
		World:             worldgen.Config{},
		Rand:              rng.Fixed(0),
		NewID:             gametest.IDs("id"),
	})
	rt := NewRuntime(actors.Deps{
		Service:    svc,
		Repo:       repo,
		Notifier:   notifier,
		Now:        clock.Load,
		TickEvery:  time.Hour,
		FlushEvery: time.Hour,
	}, 2*time.Second)
	t.Cleanup(rt.Shutdown)
	return &harness{rt: rt, repo: repo, clock: clock, notifier: notifier}
}

func TestRuntime_开局后可查询状态且立即落库(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	view, err := h.rt.Create(ctx, "alpha")
	if err != nil {
		t.Fatalf("期望开局成功，err=%v", err)
	}
	if view.State == nil || len(view.State.Villagers) != 2 {
		t.Fatalf("期望 2 个村民，got=%+v", view.State)
	}
	got, err := h.rt.State(ctx, "alpha")
	if err != nil || got.State.Era != view.State.Era {
		t.Fatalf("期望查询到同一个存档，err=%v", err)
	}
	list, _ := h.repo.List(ctx)
	if len(list) != 1 || list[0].Name != "alpha" {
		t.Fatalf("期望新档已落库，got=%+v", list)
	}
}

func TestRuntime_重复开局被拒绝(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.rt.Create(ctx, "alpha"); err != nil {
		t.Fatalf("err=%v", err)
	}
	_, err := h.rt.Create(ctx, "alpha")
	if !errors.Is(err, app.ErrSaveExists) {
		t.Fatalf("期望 ErrSaveExists，err=%v", err)
	}
	if CodeFromError(err) != transport.Rejected {
		t.Fatalf("期望映射为 Rejected，got=%d", CodeFromError(err))
	}
}

func TestRuntime_不存在的存档返回NotFound(t *testing.T) {
	h := newHarness(t)
	_, err := h.rt.State(context.Background(), "ghost")
	if !errors.Is(err, errx.ErrNotFound) {
		t.Fatalf("期望 not found，err=%v", err)
	}
	if CodeFromError(err) != transport.NotFound {
		t.Fatalf("期望映射为 NotFound，got=%d", CodeFromError(err))
	}
}

func TestRuntime_非法存档名(t *testing.T) {
	h := newHarness(t)
	_, err := h.rt.Create(context.Background(), "../etc")
	if CodeFromError(err) != transport.InvalidParam {
		t.Fatalf("期望 InvalidParam，err=%v", err)
	}
}

func TestRuntime_建造到期后结算并通知(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	if _, err := h.rt.Create(ctx, "alpha"); err != nil {
		t.Fatalf("err=%v", err)
	}
	reply, err := h.rt.Dispatch(ctx, "alpha", action.Request{Type: action.KindBuild, Payload: map[string]any{
		"buildingType": "house",
		"position":     map[string]any{"x": 3, "y": 3},
	}})
	if err != nil {
		t.Fatalf("期望建造成功，err=%v", err)
	}
	if len(reply.State.State.Tasks) != 1 {
		t.Fatalf("期望一个进行中的任务，got=%d", len(reply.State.State.Tasks))
	}

	tasks, err := h.rt.Tasks(ctx, "alpha")
	if err != nil || len(tasks.Tasks) != 1 || tasks.Tasks[0].Progress != 0 {
		t.Fatalf("期望任务进度为 0，got=%+v err=%v", tasks, err)
	}

	h.clock.Add(60_000)
	view, err := h.rt.State(ctx, "alpha")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if !view.State.HasBuildingType("house") || len(view.State.Tasks) != 0 {
		t.Fatalf("期望房屋建成且任务清空，got=%+v", view.State.Buildings)
	}
	if h.notifier.count() != 1 {
		t.Fatalf("期望通知 1 个结算任务，got=%d", h.notifier.count())
	}
}

func TestRuntime_被拒绝的动作不改状态(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before, _ := h.rt.Create(ctx, "alpha")

	_, err := h.rt.Dispatch(ctx, "alpha", action.Request{Type: "FLY"})
	if CodeFromError(err) != transport.Rejected {
		t.Fatalf("期望未知动作被拒绝，err=%v", err)
	}
	after, _ := h.rt.State(ctx, "alpha")
	if after.State.Resources[resource.Wood] != before.State.Resources[resource.Wood] {
		t.Fatalf("期望资源不变")
	}
}

func TestCodeFromError_运行时错误保留自身码(t *testing.T) {
	if got := CodeFromError(nil); got != transport.OK {
		t.Fatalf("期望 OK，got=%d", got)
	}
	err := &RuntimeError{Code: transport.SystemError, Message: "actor request failed"}
	if got := CodeFromError(err); got != transport.SystemError {
		t.Fatalf("期望 SystemError，got=%d", got)
	}
	if got := CodeFromError(errors.New("plain")); got != transport.SystemError {
		t.Fatalf("期望普通错误为 SystemError，got=%d", got)
	}
}
