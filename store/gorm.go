package store

import (
	"context"

	json "github.com/goccy/go-json"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"musicee/domain"
	"musicee/errs"
)

// document is the single table backing the Postgres store. Each row holds
// one JSON document of a collection.
type document struct {
	Collection string `gorm:"primaryKey"`
	Key        string `gorm:"primaryKey"`
	Data       []byte `gorm:"type:jsonb"`
}

// Gorm is a Store backed by Postgres. Filter matching happens on the
// decoded documents, not in SQL, so its behavior is identical to the
// Badger backend.
type Gorm struct {
	db *gorm.DB
}

// OpenGorm connects to Postgres and migrates the documents table.
// Query logging is silenced in production.
func OpenGorm(dsn string, isProd bool) (*Gorm, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if !isProd {
		cfg.Logger = logger.Default.LogMode(logger.Warn)
	}
	db, err := gorm.Open(postgres.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, err
	}
	return &Gorm{db: db}, nil
}

var _ domain.Store = &Gorm{}

// scan loads a collection in key order, skipping rows whose payload does
// not decode.
func (g *Gorm) scan(ctx context.Context, collection string) ([]document, []map[string]any, error) {
	var rows []document
	err := g.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("key").
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	var kept []document
	var decoded []map[string]any
	for _, row := range rows {
		var doc map[string]any
		if err := json.Unmarshal(row.Data, &doc); err != nil {
			continue
		}
		kept = append(kept, row)
		decoded = append(decoded, doc)
	}
	return kept, decoded, nil
}

func (g *Gorm) Get(ctx context.Context, collection string, filter domain.Filter) ([]byte, error) {
	rows, decoded, err := g.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	for i, doc := range decoded {
		if matches(doc, filter) {
			return rows[i].Data, nil
		}
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (g *Gorm) Find(ctx context.Context, collection string, filter domain.Filter) ([][]byte, error) {
	rows, decoded, err := g.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	var out [][]byte
	for i, doc := range decoded {
		if matches(doc, filter) {
			out = append(out, rows[i].Data)
		}
	}
	return out, nil
}

func (g *Gorm) Insert(ctx context.Context, collection string, doc any) error {
	row, err := toRow(collection, doc)
	if err != nil {
		return err
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (g *Gorm) InsertMany(ctx context.Context, collection string, docs []any) error {
	rows := make([]document, 0, len(docs))
	for _, doc := range docs {
		row, err := toRow(collection, doc)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

func toRow(collection string, doc any) (document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return document{}, err
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return document{}, err
	}
	key, err := docKey(collection, decoded)
	if err != nil {
		return document{}, err
	}
	return document{Collection: collection, Key: key, Data: data}, nil
}

func (g *Gorm) UpdateOne(ctx context.Context, collection string, filter, patch domain.Filter) ([]byte, error) {
	rows, decoded, err := g.scan(ctx, collection)
	if err != nil {
		return nil, err
	}
	for i, doc := range decoded {
		if !matches(doc, filter) {
			continue
		}
		applyPatch(doc, patch)
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		err = g.db.WithContext(ctx).
			Model(&document{}).
			Where("collection = ? AND key = ?", collection, rows[i].Key).
			Update("data", data).Error
		if err != nil {
			return nil, err
		}
		return data, nil
	}
	return nil, errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (g *Gorm) DeleteOne(ctx context.Context, collection string, filter domain.Filter) error {
	rows, decoded, err := g.scan(ctx, collection)
	if err != nil {
		return err
	}
	for i, doc := range decoded {
		if matches(doc, filter) {
			return g.db.WithContext(ctx).
				Where("collection = ? AND key = ?", collection, rows[i].Key).
				Delete(&document{}).Error
		}
	}
	return errs.Errorf(errs.ENOTFOUND, "No document matches in %s.", collection)
}

func (g *Gorm) Count(ctx context.Context, collection string, filter domain.Filter) (int, error) {
	_, decoded, err := g.scan(ctx, collection)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, doc := range decoded {
		if matches(doc, filter) {
			count++
		}
	}
	return count, nil
}

// Close closes the underlying connection pool.
func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
