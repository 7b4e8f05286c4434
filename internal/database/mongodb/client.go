package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Store реализует ports.DocumentStore поверх MongoDB.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// NewStore подключается к MongoDB и проверяет соединение.
func NewStore(ctx context.Context, uri, database string, logger *slog.Logger) (*Store, error) {
	start := time.Now()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		logger.Error("failed to create MongoDB client", "error", err)
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("failed to ping MongoDB", "error", err)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("MongoDB connection established successfully",
		"database", database,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Store{client: client, db: client.Database(database), logger: logger}, nil
}

func (s *Store) Create(ctx context.Context, collection string, docs ...ports.Document) ([]ports.Document, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("create in %s: no documents", collection)
	}
	start := time.Now()
	now := time.Now().UTC().Truncate(time.Millisecond)

	prepared := make([]any, len(docs))
	for i, doc := range docs {
		d := bson.M{}
		for k, v := range doc {
			if k == ports.FieldID {
				continue
			}
			d[k] = v
		}
		d[ports.FieldCreatedAt] = now
		d[ports.FieldUpdatedAt] = now
		prepared[i] = d
	}

	col := s.db.Collection(collection)
	var ids []any
	if len(prepared) == 1 {
		res, err := col.InsertOne(ctx, prepared[0])
		if err != nil {
			return nil, s.insertError(collection, err)
		}
		ids = []any{res.InsertedID}
	} else {
		res, err := col.InsertMany(ctx, prepared)
		if err != nil {
			return nil, s.insertError(collection, err)
		}
		ids = res.InsertedIDs
	}

	cur, err := col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("read back inserted documents from %s: %w", collection, err)
	}
	out, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("read back inserted documents from %s: %w", collection, err)
	}
	orderByIDs(out, ids)

	s.logger.Info("documents created",
		"collection", collection,
		"count", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *Store) List(ctx context.Context, collection string, filter ports.Filter, opts ports.ListOptions) ([]ports.Document, error) {
	start := time.Now()

	query, err := toQuery(filter)
	if err != nil {
		return nil, err
	}

	findOpts := options.Find()
	if len(opts.Sort) > 0 {
		sortDoc := bson.D{}
		for _, f := range opts.Sort {
			dir := 1
			if f.Desc {
				dir = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: fieldName(f.Field), Value: dir})
		}
		findOpts.SetSort(sortDoc)
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, query, findOpts)
	if err != nil {
		s.logger.Error("failed to list documents", "collection", collection, "error", err)
		return nil, fmt.Errorf("find in %s: %w", collection, err)
	}
	out, err := decodeAll(ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode %s documents: %w", collection, err)
	}

	s.logger.Debug("documents listed",
		"collection", collection,
		"count", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func (s *Store) Update(ctx context.Context, collection string, filter ports.Filter, changes ports.Document) (int64, error) {
	query, err := toQuery(filter)
	if err != nil {
		return 0, err
	}

	set := bson.M{}
	for k, v := range changes {
		if k == ports.FieldID || k == ports.FieldCreatedAt {
			continue
		}
		set[k] = v
	}
	set[ports.FieldUpdatedAt] = time.Now().UTC().Truncate(time.Millisecond)

	res, err := s.db.Collection(collection).UpdateMany(ctx, query, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("update in %s: %w", collection, ports.ErrDuplicate)
		}
		return 0, fmt.Errorf("update in %s: %w", collection, err)
	}
	return res.ModifiedCount, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter ports.Filter) (int64, error) {
	query, err := toQuery(filter)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Collection(collection).DeleteMany(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete in %s: %w", collection, err)
	}

	s.logger.Info("documents deleted", "collection", collection, "count", res.DeletedCount)
	return res.DeletedCount, nil
}

func (s *Store) Collections(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	name, err := s.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create unique index on %s.%s: %w", collection, field, err)
	}
	s.logger.Info("unique index ensured", "collection", collection, "index", name)
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		s.logger.Error("failed to disconnect from MongoDB", "error", err)
		return err
	}
	s.logger.Info("MongoDB connection closed")
	return nil
}

func (s *Store) insertError(collection string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("insert into %s: %w", collection, ports.ErrDuplicate)
	}
	s.logger.Error("failed to insert documents", "collection", collection, "error", err)
	return fmt.Errorf("insert into %s: %w", collection, err)
}

// toQuery переводит фильтр в bson, заменяя "id" на "_id" с ObjectID.
func toQuery(filter ports.Filter) (bson.M, error) {
	query := bson.M{}
	for k, v := range filter {
		if k != ports.FieldID {
			query[k] = v
			continue
		}
		hex, _ := v.(string)
		oid, err := bson.ObjectIDFromHex(hex)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", hex, ports.ErrInvalidID)
		}
		query["_id"] = oid
	}
	return query, nil
}

func fieldName(field string) string {
	if field == ports.FieldID {
		return "_id"
	}
	return field
}

func decodeAll(ctx context.Context, cur *mongo.Cursor) ([]ports.Document, error) {
	var raw []bson.M
	if err := cur.All(ctx, &raw); err != nil {
		return nil, err
	}
	out := make([]ports.Document, 0, len(raw))
	for _, m := range raw {
		out = append(out, toDocument(m))
	}
	return out, nil
}

// toDocument нормализует bson-значения: _id -> строковый id, DateTime -> time.Time,
// вложенные документы и массивы -> map[string]any / []any.
func toDocument(m bson.M) ports.Document {
	doc := make(ports.Document, len(m))
	for k, v := range m {
		if k == "_id" {
			doc[ports.FieldID] = idString(v)
			continue
		}
		doc[k] = normalizeValue(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case bson.DateTime:
		return val.Time().UTC()
	case bson.ObjectID:
		return val.Hex()
	case bson.M:
		return map[string]any(toDocument(val))
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = normalizeValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case int32:
		return int64(val)
	default:
		return v
	}
}

// orderByIDs восстанавливает порядок вставки после выборки по $in.
func orderByIDs(docs []ports.Document, ids []any) {
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		pos[idString(id)] = i
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return pos[docs[i].ID()] < pos[docs[j].ID()]
	})
}

var _ ports.DocumentStore = (*Store)(nil)
