// Package persistence 按 storage.driver 选择存档库。
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/infra/persistence/codec"
	"Dawnforge/internal/settlement/infra/persistence/memory"
	"Dawnforge/internal/settlement/infra/persistence/mongodb"
	"Dawnforge/internal/settlement/infra/persistence/mysql"
	"Dawnforge/internal/settlement/infra/persistence/sqlite"
	"Dawnforge/internal/shared/config"
	"Dawnforge/internal/shared/infrastructure/db"
	sharedmongo "Dawnforge/internal/shared/infrastructure/mongo"
	sqliteinfra "Dawnforge/internal/shared/infrastructure/sqlite"
	"Dawnforge/internal/shared/utils"
)

const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverMySQL   = "mysql"
	DriverMongoDB = "mongodb"
)

// Open 返回存档库和释放底层连接的函数。driver 为空时用 sqlite。
func Open(ctx context.Context, cfg config.Config, l *zap.Logger) (app.SaveRepository, func(), error) {
	c := codec.New(cfg.Storage.Compress)
	nop := func() {}

	switch cfg.Storage.Driver {
	case DriverMemory:
		return memory.NewSaveRepo(c), nop, nil
	case DriverSQLite, "":
		sdb, err := sqliteinfra.Open(cfg.SQLite)
		if err != nil {
			return nil, nop, err
		}
		repo, err := sqlite.NewSaveRepo(sdb, c)
		if err != nil {
			_ = sdb.Close()
			return nil, nop, err
		}
		return repo, func() { _ = sdb.Close() }, nil
	case DriverMySQL:
		gdb, err := db.Open(cfg.MySQL)
		if err != nil {
			return nil, nop, err
		}
		closeFn := func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		repo, err := mysql.NewSaveRepo(gdb, c, utils.NextSnowflakeID)
		if err != nil {
			closeFn()
			return nil, nop, err
		}
		return repo, closeFn, nil
	case DriverMongoDB:
		client, err := sharedmongo.Open(ctx, cfg.MongoDB, l)
		if err != nil {
			return nil, nop, err
		}
		repo := mongodb.NewSaveRepo(client.Database(cfg.MongoDB.Database), cfg.MongoDB.Collection, c)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	default:
		return nil, nop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
