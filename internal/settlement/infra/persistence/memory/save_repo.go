package memory

import (
	"context"
	"sort"
	"sync"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/infra/persistence/codec"
)

type entry struct {
	summary app.SaveSummary
	blob    []byte
}

// SaveRepo 进程内存储，测试和 storage.driver=memory 使用。同样经过编解码。
type SaveRepo struct {
	mu    sync.RWMutex
	codec *codec.Codec
	saves map[string]entry
}

func NewSaveRepo(c *codec.Codec) *SaveRepo {
	return &SaveRepo{codec: c, saves: make(map[string]entry)}
}

func (r *SaveRepo) Load(_ context.Context, name string) (*entity.Settlement, error) {
	r.mu.RLock()
	e, ok := r.saves[name]
	r.mu.RUnlock()
	if !ok {
		return nil, app.ErrSaveNotFound.WithData("save", name)
	}
	return r.codec.DecodeSettlement(e.blob)
}

// Save 旧版本不覆盖新版本。
func (r *SaveRepo) Save(_ context.Context, s *entity.PersistSnapshot) error {
	if s == nil {
		return nil
	}
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.saves[s.Name]; ok && old.summary.Version > s.Version {
		return nil
	}
	r.saves[s.Name] = entry{
		summary: app.SaveSummary{Name: s.Name, Era: s.State.Era, Version: s.Version, UpdatedAt: s.UpdatedAt, Size: len(blob)},
		blob:    blob,
	}
	return nil
}

func (r *SaveRepo) List(_ context.Context) ([]app.SaveSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]app.SaveSummary, 0, len(r.saves))
	for _, e := range r.saves {
		out = append(out, e.summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SaveRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.saves[name]; !ok {
		return app.ErrSaveNotFound.WithData("save", name)
	}
	delete(r.saves, name)
	return nil
}
