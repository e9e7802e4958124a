package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/internal/settlement/errs"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/model"
)

const defaultCollectionName = "settlement_save"

const (
	OpLoad   = "repo.mongodb.Load"
	OpSave   = "repo.mongodb.Save"
	OpList   = "repo.mongodb.List"
	OpDelete = "repo.mongodb.Delete"
)

var errNilCollection = errors.New("mongodb save collection is nil")

type SaveRepo struct {
	coll  *mongo.Collection
	codec *codec.Codec
}

func NewSaveRepo(db *mongo.Database, collection string, c *codec.Codec) *SaveRepo {
	if db == nil {
		return &SaveRepo{codec: c}
	}
	if collection == "" {
		collection = defaultCollectionName
	}
	return &SaveRepo{coll: db.Collection(collection), codec: c}
}

func (r *SaveRepo) Load(ctx context.Context, name string) (*entity.Settlement, error) {
	if r.coll == nil {
		return nil, errs.Wrap(OpLoad, errs.KindInfra, errNilCollection, nil)
	}
	var doc model.SaveDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	switch {
	case err == nil:
		return r.codec.DecodeSettlement(doc.Blob)
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, app.ErrSaveNotFound.WithData("save", name)
	default:
		return nil, errs.Wrap(OpLoad, errs.KindInfra, err, map[string]any{"save": name})
	}
}

// Save 整文档 ReplaceOne upsert。
func (r *SaveRepo) Save(ctx context.Context, s *entity.PersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r.coll == nil {
		return errs.Wrap(OpSave, errs.KindInfra, errNilCollection, nil)
	}
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	doc := model.SaveDoc{
		Name:          s.Name,
		Era:           s.State.Era,
		Version:       s.Version,
		CatalogDigest: s.CatalogDigest,
		Blob:          blob,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": doc.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(OpSave, errs.KindInfra, err, map[string]any{"save": s.Name, "version": s.Version})
	}
	return nil
}

func (r *SaveRepo) List(ctx context.Context) ([]app.SaveSummary, error) {
	if r.coll == nil {
		return nil, errs.Wrap(OpList, errs.KindInfra, errNilCollection, nil)
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(OpList, errs.KindInfra, err, nil)
	}
	var docs []model.SaveDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errs.Wrap(OpList, errs.KindInfra, err, nil)
	}
	out := make([]app.SaveSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, app.SaveSummary{Name: d.Name, Era: d.Era, Version: d.Version, UpdatedAt: d.UpdatedAt, Size: len(d.Blob)})
	}
	return out, nil
}

func (r *SaveRepo) Delete(ctx context.Context, name string) error {
	if r.coll == nil {
		return errs.Wrap(OpDelete, errs.KindInfra, errNilCollection, nil)
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errs.Wrap(OpDelete, errs.KindInfra, err, map[string]any{"save": name})
	}
	if res.DeletedCount == 0 {
		return app.ErrSaveNotFound.WithData("save", name)
	}
	return nil
}
