package entity

import (
	"Dawnforge/internal/game/model"
	"Dawnforge/internal/game/naming"
)

// PersistSnapshot 是写库的单位，整份状态一起存。
type PersistSnapshot struct {
	Version       uint64           `json:"version"`
	Name          string           `json:"name"`
	CatalogDigest string           `json:"catalogDigest"`
	CreatedAt     int64            `json:"createdAt"`
	UpdatedAt     int64            `json:"updatedAt"`
	State         *model.GameState `json:"state"`

	NameCounters map[naming.Category]int `json:"nameCounters,omitempty"` // 命名器进度

}
