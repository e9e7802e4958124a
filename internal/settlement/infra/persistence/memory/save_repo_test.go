package memory

import (
	"context"
	"errors"
	"testing"

	"Dawnforge/internal/game/gametest"
	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/infra/persistence/codec"
)

func snapshot(name string, version uint64, villagers int) *entity.PersistSnapshot {
	st := entity.New(name, gametest.NewState().Villagers(villagers).Build(), "d", gametest.Now)
	s, _ := st.BuildPersistSnapshot(version)
	return s
}

func TestSaveRepo_存取与列表(t *testing.T) {
	ctx := context.Background()
	repo := NewSaveRepo(codec.New(true))
	if err := repo.Save(ctx, snapshot("beta", 1, 1)); err != nil {
		t.Fatalf("Save err=%v", err)
	}
	if err := repo.Save(ctx, snapshot("alpha", 1, 2)); err != nil {
		t.Fatalf("Save err=%v", err)
	}

	st, err := repo.Load(ctx, "alpha")
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if len(st.State().Villagers) != 2 || st.Dirty() {
		t.Fatalf("期望读回 2 个村民且干净，got=%d dirty=%v", len(st.State().Villagers), st.Dirty())
	}

	list, _ := repo.List(ctx)
	if len(list) != 2 || list[0].Name != "alpha" || list[0].Size == 0 {
		t.Fatalf("期望按名字排序的两条记录，got=%+v", list)
	}
}

func TestSaveRepo_旧版本不覆盖新版本(t *testing.T) {
	ctx := context.Background()
	repo := NewSaveRepo(codec.New(false))
	_ = repo.Save(ctx, snapshot("alpha", 5, 3))
	_ = repo.Save(ctx, snapshot("alpha", 4, 1))

	st, _ := repo.Load(ctx, "alpha")
	if st.Version() != 5 || len(st.State().Villagers) != 3 {
		t.Fatalf("期望保留 version=5，got=%d", st.Version())
	}
}

func TestSaveRepo_不存在的存档(t *testing.T) {
	repo := NewSaveRepo(codec.New(false))
	if _, err := repo.Load(context.Background(), "ghost"); !errors.Is(err, app.ErrSaveNotFound) {
		t.Fatalf("期望 ErrSaveNotFound，got=%v", err)
	}
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, app.ErrSaveNotFound) {
		t.Fatalf("期望 ErrSaveNotFound，got=%v", err)
	}
}
