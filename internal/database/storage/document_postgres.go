package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/GoArmGo/PortfolioApp/internal/core/ports"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation — код ошибки PostgreSQL для нарушения уникального индекса.
const uniqueViolation = "23505"

var identifierRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// PostgresStorage хранит документы всех коллекций в одной таблице documents (JSONB).
type PostgresStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPostgresStorage(db *sqlx.DB, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, logger: logger}
}

type documentRow struct {
	ID        string    `db:"id"`
	Data      []byte    `db:"data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Create сохраняет документы в одной транзакции
func (s *PostgresStorage) Create(ctx context.Context, collection string, docs ...ports.Document) ([]ports.Document, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("create in %s: no documents", collection)
	}
	start := time.Now()
	now := time.Now().UTC().Truncate(time.Microsecond)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	out := make([]ports.Document, 0, len(docs))
	for _, doc := range docs {
		data, err := encodeData(doc)
		if err != nil {
			return nil, fmt.Errorf("create in %s: %w", collection, err)
		}

		id := uuid.New()
		_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, collection, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, $4, $5)
		`, id, collection, string(data), now, now)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert into %s: %w", collection, ports.ErrDuplicate)
			}
			s.logger.Error("failed to insert document", "collection", collection, "error", err)
			return nil, fmt.Errorf("insert into %s: %w", collection, err)
		}

		created, err := toDocument(documentRow{ID: id.String(), Data: data, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert into %s: %w", collection, ports.ErrDuplicate)
		}
		return nil, fmt.Errorf("commit insert into %s: %w", collection, err)
	}

	s.logger.Info("documents created",
		"collection", collection,
		"count", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// List получает документы коллекции по фильтру
func (s *PostgresStorage) List(ctx context.Context, collection string, filter ports.Filter, opts ports.ListOptions) ([]ports.Document, error) {
	start := time.Now()

	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return nil, err
	}
	order, err := orderClause(opts.Sort)
	if err != nil {
		return nil, err
	}

	q := `SELECT id, data, created_at, updated_at FROM documents WHERE ` + where + order
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []documentRow
	if err := s.db.SelectContext(ctx, &rows, q, args...); err != nil {
		s.logger.Error("failed to list documents", "collection", collection, "error", err)
		return nil, fmt.Errorf("select from %s: %w", collection, err)
	}

	out := make([]ports.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := toDocument(row)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}

	s.logger.Debug("documents listed",
		"collection", collection,
		"count", len(out),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// Update сливает changes с data подходящих документов
func (s *PostgresStorage) Update(ctx context.Context, collection string, filter ports.Filter, changes ports.Document) (int64, error) {
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return 0, err
	}
	data, err := encodeData(changes)
	if err != nil {
		return 0, fmt.Errorf("update in %s: %w", collection, err)
	}

	args = append(args, string(data), time.Now().UTC())
	q := fmt.Sprintf(`UPDATE documents SET data = data || $%d::jsonb, updated_at = $%d WHERE %s`,
		len(args)-1, len(args), where)

	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("update in %s: %w", collection, ports.ErrDuplicate)
		}
		return 0, fmt.Errorf("update in %s: %w", collection, err)
	}
	return res.RowsAffected()
}

func (s *PostgresStorage) Delete(ctx context.Context, collection string, filter ports.Filter) (int64, error) {
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE `+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	s.logger.Info("documents deleted", "collection", collection, "count", n)
	return n, nil
}

func (s *PostgresStorage) Collections(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT DISTINCT collection FROM documents ORDER BY collection`); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return names, nil
}

// EnsureUniqueIndex создаёт частичный уникальный индекс по полю JSONB для коллекции.
func (s *PostgresStorage) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	q, err := uniqueIndexDDL(collection, field)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create unique index on %s.%s: %w", collection, field, err)
	}
	s.logger.Info("unique index ensured", "collection", collection, "field", field)
	return nil
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close ничего не делает: пулом соединений владеет client.Client.
func (s *PostgresStorage) Close(ctx context.Context) error {
	return nil
}

func uniqueIndexDDL(collection, field string) (string, error) {
	if !identifierRe.MatchString(collection) || !identifierRe.MatchString(field) {
		return "", fmt.Errorf("invalid index target %s.%s", collection, field)
	}
	name := pq.QuoteIdentifier(fmt.Sprintf("documents_%s_%s_key", collection, field))
	return fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON documents ((data->>%s)) WHERE collection = %s`,
		name, pq.QuoteLiteral(field), pq.QuoteLiteral(collection)), nil
}

// buildWhere собирает условие: коллекция, JSONB-containment по полям и точное совпадение id.
func buildWhere(collection string, filter ports.Filter) (string, []any, error) {
	clauses := []string{"collection = $1"}
	args := []any{collection}

	contains := make(map[string]any, len(filter))
	for k, v := range filter {
		if k != ports.FieldID {
			contains[k] = v
			continue
		}
		raw, _ := v.(string)
		id, err := uuid.Parse(raw)
		if err != nil {
			return "", nil, fmt.Errorf("%q: %w", raw, ports.ErrInvalidID)
		}
		args = append(args, id)
		clauses = append(clauses, fmt.Sprintf("id = $%d", len(args)))
	}

	if len(contains) > 0 {
		raw, err := json.Marshal(contains)
		if err != nil {
			return "", nil, fmt.Errorf("encode filter: %w", err)
		}
		args = append(args, string(raw))
		clauses = append(clauses, fmt.Sprintf("data @> $%d::jsonb", len(args)))
	}

	return strings.Join(clauses, " AND "), args, nil
}

func orderClause(fields []ports.SortField) (string, error) {
	if len(fields) == 0 {
		return " ORDER BY created_at ASC", nil
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if !identifierRe.MatchString(f.Field) {
			return "", fmt.Errorf("invalid sort field %q", f.Field)
		}
		expr := "data->" + pq.QuoteLiteral(f.Field)
		switch f.Field {
		case ports.FieldID, ports.FieldCreatedAt, ports.FieldUpdatedAt:
			expr = f.Field
		}
		dir := "ASC"
		if f.Desc {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

// encodeData сериализует пользовательские поля; служебные хранятся в колонках.
func encodeData(doc ports.Document) ([]byte, error) {
	data := make(map[string]any, len(doc))
	for k, v := range doc {
		switch k {
		case ports.FieldID, ports.FieldCreatedAt, ports.FieldUpdatedAt:
			continue
		}
		data[k] = v
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return raw, nil
}

func toDocument(row documentRow) (ports.Document, error) {
	doc := ports.Document{}
	if len(row.Data) > 0 {
		if err := json.Unmarshal(row.Data, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", row.ID, err)
		}
	}
	doc[ports.FieldID] = row.ID
	doc[ports.FieldCreatedAt] = row.CreatedAt.UTC()
	doc[ports.FieldUpdatedAt] = row.UpdatedAt.UTC()
	return doc, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var _ ports.DocumentStore = (*PostgresStorage)(nil)
