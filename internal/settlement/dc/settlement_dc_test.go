package dc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"Dawnforge/internal/game/gametest"
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/resource"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
)

type fakeRepo struct {
	mu       sync.Mutex
	saved    []uint64
	failLeft int
	stored   *entity.Settlement
}

func (f *fakeRepo) Load(_ context.Context, name string) (*entity.Settlement, error) {
	if f.stored == nil {
		return nil, app.ErrSaveNotFound.WithData("save", name)
	}
	return f.stored, nil
}

func (f *fakeRepo) Save(_ context.Context, s *entity.PersistSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failLeft > 0 {
		f.failLeft--
		return errors.New("disk full")
	}
	f.saved = append(f.saved, s.Version)
	return nil
}

func (f *fakeRepo) List(context.Context) ([]app.SaveSummary, error) { return nil, nil }
func (f *fakeRepo) Delete(context.Context, string) error           { return nil }

func (f *fakeRepo) versions() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint64(nil), f.saved...)
}

func newSettlement() *entity.Settlement {
	return entity.New("alpha", gametest.NewState().Build(), "d", gametest.Now)
}

func TestSettlementDC_Close会写出最后一份快照(t *testing.T) {
	repo := &fakeRepo{}
	d := NewSettlementDC(repo, time.Hour, nil)
	d.Attach(newSettlement())

	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("期望 Close 成功，err=%v", err)
	}
	got := repo.versions()
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("期望写出 version=1，got=%v", got)
	}
	if d.IsDirty() {
		t.Fatalf("期望 flush 后清脏")
	}
}

func TestSettlementDC_干净时不写库(t *testing.T) {
	repo := &fakeRepo{}
	d := NewSettlementDC(repo, time.Hour, nil)
	st := newSettlement()
	st.ClearDirty()
	d.Attach(st)

	_ = d.Close(context.Background())
	if got := repo.versions(); len(got) != 0 {
		t.Fatalf("期望不写库，got=%v", got)
	}
}

func TestSettlementDC_版本号从已加载版本继续(t *testing.T) {
	st := newSettlement()
	snap, _ := st.BuildPersistSnapshot(7)
	loaded := entity.Hydrate(snap)
	repo := &fakeRepo{stored: loaded}

	d := NewSettlementDC(repo, time.Hour, nil)
	got, err := d.Load(context.Background(), "alpha")
	if err != nil || got != loaded {
		t.Fatalf("期望加载成功，err=%v", err)
	}
	got.Apply(&model.Result{ResourceDeltas: resource.Ledger{resource.Food: 1}}, gametest.Now+1, 50)

	_ = d.Close(context.Background())
	if v := repo.versions(); len(v) != 1 || v[0] != 8 {
		t.Fatalf("期望新快照 version=8，got=%v", v)
	}
}

func TestSettlementDC_写失败后重试(t *testing.T) {
	repo := &fakeRepo{failLeft: 2}
	d := NewSettlementDC(repo, time.Hour, nil)
	d.Attach(newSettlement())
	d.Flush()

	deadline := time.Now().Add(3 * time.Second)
	for len(repo.versions()) == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if got := repo.versions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("期望重试后写入 version=1，got=%v", got)
	}
	_ = d.Close(context.Background())
}

func TestSettlementDC_Load找不到返回错误(t *testing.T) {
	d := NewSettlementDC(&fakeRepo{}, time.Hour, nil)
	defer d.Close(context.Background())
	if _, err := d.Load(context.Background(), "ghost"); !errors.Is(err, app.ErrSaveNotFound) {
		t.Fatalf("期望 ErrSaveNotFound，err=%v", err)
	}
}

func TestSettlementDC_FlushSync失败时退回队列(t *testing.T) {
	repo := &fakeRepo{failLeft: 1}
	d := NewSettlementDC(repo, time.Hour, nil)
	d.Attach(newSettlement())

	if err := d.FlushSync(context.Background()); err == nil {
		t.Fatalf("期望同步写失败返回错误")
	}
	if err := d.Close(context.Background()); err != nil {
		t.Fatalf("期望 Close 成功，err=%v", err)
	}
	if got := repo.versions(); len(got) != 1 || got[0] != 1 {
		t.Fatalf("期望退回的快照最终写入，got=%v", got)
	}
}

func TestSettlementDC_存储一直失败时Close不会卡住(t *testing.T) {
	repo := &fakeRepo{failLeft: 1 << 30}
	d := NewSettlementDC(repo, time.Hour, nil)
	d.Attach(newSettlement())
	d.Flush()
	// 让写协程进入非关闭状态的重试
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := d.Close(ctx); err != nil {
		t.Fatalf("期望写协程有限次重试后退出，err=%v", err)
	}
	select {
	case <-d.done:
	default:
		t.Fatalf("期望写协程已退出")
	}
	if got := repo.versions(); len(got) != 0 {
		t.Fatalf("期望没有写入成功，got=%v", got)
	}
}
