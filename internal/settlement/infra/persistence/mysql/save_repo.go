package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/errs"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/model"
)

const (
	OpMigrate = "repo.mysql.Migrate"
	OpLoad    = "repo.mysql.Load"
	OpSave    = "repo.mysql.Save"
	OpList    = "repo.mysql.List"
	OpDelete  = "repo.mysql.Delete"
)

type SaveRepo struct {
	db     *gorm.DB
	codec  *codec.Codec
	nextID func() (int64, error)
}

// NewSaveRepo nextID 分配新行主键（雪花 id）。
func NewSaveRepo(db *gorm.DB, c *codec.Codec, nextID func() (int64, error)) (*SaveRepo, error) {
	if err := db.AutoMigrate(&model.SaveRecord{}); err != nil {
		return nil, errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return &SaveRepo{db: db, codec: c, nextID: nextID}, nil
}

func (r *SaveRepo) Load(ctx context.Context, name string) (*entity.Settlement, error) {
	var m model.SaveRecord
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error
	switch {
	case err == nil:
		return r.codec.DecodeSettlement(m.Blob)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, app.ErrSaveNotFound.WithData("save", name)
	default:
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"save": name})
	}
}

// Save 按 name 唯一键 upsert；旧版本的快照在事务里被丢弃。
func (r *SaveRepo) Save(ctx context.Context, s *entity.PersistSnapshot) error {
	if s == nil {
		return nil
	}
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	meta := map[string]any{"save": s.Name, "version": s.Version}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.SaveRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "version").Where("name = ?", s.Name).First(&cur).Error
		switch {
		case err == nil:
			if cur.Version > s.Version {
				return nil
			}
			return tx.Model(&model.SaveRecord{}).Where("id = ?", cur.ID).Updates(map[string]any{
				"era":            s.State.Era,
				"version":        s.Version,
				"catalog_digest": s.CatalogDigest,
				"data":           blob,
				"updated_at":     s.UpdatedAt,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			id, err := r.nextID()
			if err != nil {
				return err
			}
			return tx.Create(&model.SaveRecord{
				ID:            id,
				Name:          s.Name,
				Era:           s.State.Era,
				Version:       s.Version,
				CatalogDigest: s.CatalogDigest,
				Blob:          blob,
				CreatedAt:     s.CreatedAt,
				UpdatedAt:     s.UpdatedAt,
			}).Error
		default:
			return err
		}
	})
	if err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, meta)
	}
	return nil
}

func (r *SaveRepo) List(ctx context.Context) ([]app.SaveSummary, error) {
	var rows []struct {
		Name      string
		Era       string
		Version   uint64
		UpdatedAt int64
		Size      int
	}
	err := r.db.WithContext(ctx).Model(&model.SaveRecord{}).
		Select("name, era, version, updated_at, LENGTH(data) AS size").
		Order("name").Scan(&rows).Error
	if err != nil {
		return nil, errs.Wrap(OpList, errs.KindInfra, err, nil)
	}
	out := make([]app.SaveSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, app.SaveSummary{Name: row.Name, Era: row.Era, Version: row.Version, UpdatedAt: row.UpdatedAt, Size: row.Size})
	}
	return out, nil
}

func (r *SaveRepo) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.SaveRecord{})
	if res.Error != nil {
		return errs.Wrap(OpDelete, errs.KindInfra, res.Error, map[string]any{"save": name})
	}
	if res.RowsAffected == 0 {
		return app.ErrSaveNotFound.WithData("save", name)
	}
	return nil
}
