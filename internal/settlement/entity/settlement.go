package entity

import (
	"hash/fnv"

	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/naming"
	"Dawnforge/internal/game/rng"
)

// Settlement 是一个存档在内存里的聚合：状态树 + 脏标记 + 持久化版本。
// 只允许通过 Apply 修改状态。
type Settlement struct {
	name          string
	state         *model.GameState
	catalogDigest string
	version       uint64
	createdAt     int64
	updatedAt     int64
	dirty         bool
	names         *naming.Allocator
	nameCounters  map[naming.Category]int
}

// New 新开局，默认是脏的，下一次 flush 会落库。
func New(name string, state *model.GameState, catalogDigest string, now int64) *Settlement {
	return &Settlement{
		name:          name,
		state:         state,
		catalogDigest: catalogDigest,
		createdAt:     now,
		updatedAt:     now,
		dirty:         true,
	}
}

// Hydrate 从持久化快照恢复，恢复后是干净的。
func Hydrate(s *PersistSnapshot) *Settlement {
	state := s.State
	if state == nil {
		state = model.NewGameState("")
	}
	if state.Buildings == nil {
		state.Buildings = map[string][]model.BuildingInstance{}
	}
	if state.Buffs == nil {
		state.Buffs = model.ActiveBuffs{}
	}
	return &Settlement{
		name:          s.Name,
		state:         state,
		catalogDigest: s.CatalogDigest,
		version:       s.Version,
		createdAt:     s.CreatedAt,
		updatedAt:     s.UpdatedAt,
		nameCounters:  s.NameCounters,
	}
}

func (s *Settlement) Name() string {
	return s.name
}

// State 返回当前状态，调用方只读。
func (s *Settlement) State() *model.GameState {
	return s.state
}

func (s *Settlement) CatalogDigest() string {
	return s.catalogDigest
}

func (s *Settlement) Version() uint64 {
	return s.version
}

func (s *Settlement) UpdatedAt() int64 {
	return s.updatedAt
}

// Names 每个存档一个命名器，种子取存档名；读档时恢复分配进度。
func (s *Settlement) Names() *naming.Allocator {
	if s.names == nil {
		h := fnv.New64a()
		_, _ = h.Write([]byte(s.name))
		s.names = naming.New(rng.NewSeeded(h.Sum64()))
		s.names.Restore(s.nameCounters)
	}
	return s.names
}

// Apply 合并结果包；空结果不改任何东西，返回 false。
func (s *Settlement) Apply(r *model.Result, now int64, logLimit int) bool {
	if r == nil || r.Empty() {
		return false
	}
	model.Apply(s.state, r, now, logLimit)
	s.updatedAt = now
	s.dirty = true
	return true
}

func (s *Settlement) Dirty() bool {
	return s != nil && s.dirty
}

func (s *Settlement) ClearDirty() {
	if s != nil {
		s.dirty = false
	}
}

// BuildPersistSnapshot 深拷贝一份状态交给异步写库，version 单调递增。
func (s *Settlement) BuildPersistSnapshot(version uint64) (*PersistSnapshot, bool) {
	if s == nil || !s.dirty {
		return nil, false
	}
	if version > s.version {
		s.version = version
	}
	counters := s.nameCounters
	if s.names != nil {
		counters = s.names.Counters()
	}
	return &PersistSnapshot{
		NameCounters:  counters,
		Version:       s.version,
		Name:          s.name,
		CatalogDigest: s.catalogDigest,
		CreatedAt:     s.createdAt,
		UpdatedAt:     s.updatedAt,
		State:         s.state.Clone(),
	}, true
}
