package model

// SaveRecord 是 mysql 里的一行存档，状态整体放在 blob 里。
type SaveRecord struct {
	ID            int64  `gorm:"column:id;type:bigint;primaryKey;not null;comment:雪花id"`
	Name          string `gorm:"column:name;type:varchar(64);uniqueIndex:uk_name;not null;comment:存档名"`
	Era           string `gorm:"column:era;type:varchar(64);not null;comment:时代"`
	Version       uint64 `gorm:"column:version;type:bigint UNSIGNED;not null;comment:快照版本"`
	CatalogDigest string `gorm:"column:catalog_digest;type:char(64);not null;comment:目录摘要"`
	Blob          []byte `gorm:"column:data;type:longblob;not null;comment:编码后的状态"`
	CreatedAt     int64  `gorm:"column:created_at;type:bigint;not null;autoCreateTime:false"`
	UpdatedAt     int64  `gorm:"column:updated_at;type:bigint;not null;autoUpdateTime:false"`
}

func (SaveRecord) TableName() string {
	return "settlement_save"
}

// SaveRow 是 sqlite 的一行。
type SaveRow struct {
	Name          string `db:"name"`
	Era           string `db:"era"`
	Version       uint64 `db:"version"`
	CatalogDigest string `db:"catalog_digest"`
	Blob          []byte `db:"data"`
	CreatedAt     int64  `db:"created_at"`
	UpdatedAt     int64  `db:"updated_at"`
}

// SaveDoc 是 mongodb 的一个文档，_id 即存档名。
type SaveDoc struct {
	Name          string `bson:"_id"`
	Era           string `bson:"era"`
	Version       uint64 `bson:"version"`
	CatalogDigest string `bson:"catalog_digest"`
	Blob          []byte `bson:"data"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
}
