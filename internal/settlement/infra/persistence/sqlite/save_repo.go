package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/errs"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/model"
)

const (
	OpMigrate = "repo.sqlite.Migrate"
	OpLoad    = "repo.sqlite.Load"
	OpSave    = "repo.sqlite.Save"
	OpList    = "repo.sqlite.List"
	OpDelete  = "repo.sqlite.Delete"
)

const schema = `
CREATE TABLE IF NOT EXISTS saves (
	name TEXT PRIMARY KEY,
	era TEXT NOT NULL,
	version INTEGER NOT NULL,
	catalog_digest TEXT NOT NULL,
	data BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

type SaveRepo struct {
	db    *sqlx.DB
	codec *codec.Codec
}

// NewSaveRepo 建表后返回。
func NewSaveRepo(db *sqlx.DB, c *codec.Codec) (*SaveRepo, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return &SaveRepo{db: db, codec: c}, nil
}

func (r *SaveRepo) Load(ctx context.Context, name string) (*entity.Settlement, error) {
	var row model.SaveRow
	err := r.db.GetContext(ctx, &row, `SELECT * FROM saves WHERE name = ?`, name)
	switch {
	case err == nil:
		return r.codec.DecodeSettlement(row.Blob)
	case errors.Is(err, sql.ErrNoRows):
		return nil, app.ErrSaveNotFound.WithData("save", name)
	default:
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"save": name})
	}
}

// Save upsert，只有更高的 version 才会覆盖。
func (r *SaveRepo) Save(ctx context.Context, s *entity.PersistSnapshot) error {
	if s == nil {
		return nil
	}
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	row := model.SaveRow{
		Name:          s.Name,
		Era:           s.State.Era,
		Version:       s.Version,
		CatalogDigest: s.CatalogDigest,
		Blob:          blob,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO saves (name, era, version, catalog_digest, data, created_at, updated_at)
		VALUES (:name, :era, :version, :catalog_digest, :data, :created_at, :updated_at)
		ON CONFLICT(name) DO UPDATE SET
			era = excluded.era,
			version = excluded.version,
			catalog_digest = excluded.catalog_digest,
			data = excluded.data,
			updated_at = excluded.updated_at
		WHERE excluded.version >= saves.version`, row)
	if err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"save": s.Name, "version": s.Version})
	}
	return nil
}

func (r *SaveRepo) List(ctx context.Context) ([]app.SaveSummary, error) {
	var rows []struct {
		Name      string `db:"name"`
		Era       string `db:"era"`
		Version   uint64 `db:"version"`
		UpdatedAt int64  `db:"updated_at"`
		Size      int    `db:"size"`
	}
	err := r.db.SelectContext(ctx, &rows,
		`SELECT name, era, version, updated_at, length(data) AS size FROM saves ORDER BY name`)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM saves WHERE name = ?`, name)
	if err != nil {
		return errs.Wrap(OpDelete, errs.KindInfra, err, map[string]any{"save": name})
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return app.ErrSaveNotFound.WithData("save", name)
	}
	return nil
}
