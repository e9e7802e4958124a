package app

import (
	"context"

	"Dawnforge/internal/settlement/entity"
)

// SaveSummary 是存档列表里的一行。
type SaveSummary struct {
	Name      string `json:"name"`
	Era       string `json:"era"`
	Version   uint64 `json:"version"`
	UpdatedAt int64  `json:"updatedAt"`
	Size      int    `json:"size"` // 编码后的字节数
}

// SaveRepository 由各存储实现。Load 找不到时返回 ErrSaveNotFound。
type SaveRepository interface {
	Load(ctx context.Context, name string) (*entity.Settlement, error)
	Save(ctx context.Context, s *entity.PersistSnapshot) error
	List(ctx context.Context) ([]SaveSummary, error)
	Delete(ctx context.Context, name string) error
}
