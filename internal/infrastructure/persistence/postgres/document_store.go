package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

// querier - абстракция для выполнения запросов.
// Позволяет использовать как pool, так и transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const documentColumns = `id, doc, created_at, updated_at`

// Collection - коллекция документов в одной таблице.
type Collection struct {
	q     querier
	name  string
	table string
}

var _ ports.Collection = (*Collection)(nil)

// InsertOne сохраняет новый документ с новым id.
func (c *Collection) InsertOne(ctx context.Context, doc ports.Document) (ports.Document, error) {
	body, err := json.Marshal(stripReserved(doc))
	if err != nil {
		return nil, domainerrors.NewOperationError("insert", c.name, err)
	}

	now := time.Now().UTC()
	query := `INSERT INTO ` + c.table + ` (id, doc, created_at, updated_at)
		VALUES ($1, $2::jsonb, $3, $3)
		RETURNING ` + documentColumns

	out, err := scanDocument(c.q.QueryRow(ctx, query, uuid.NewString(), body, now))
	if err != nil {
		return nil, wrapError("insert", c.name, err)
	}
	return out, nil
}

// FindOne возвращает самый старый документ, удовлетворяющий фильтру.
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter) (ports.Document, error) {
	where, args, err := buildWhere(filter, 1)
	if err != nil {
		return nil, domainerrors.NewOperationError("findOne", c.name, err)
	}

	query := `SELECT ` + documentColumns + ` FROM ` + c.table +
		` WHERE ` + where + ` ORDER BY created_at, id LIMIT 1`

	out, err := scanDocument(c.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, wrapError("findOne", c.name, err)
	}
	return out, nil
}

// Find возвращает все документы, удовлетворяющие фильтру, в порядке создания.
func (c *Collection) Find(ctx context.Context, filter ports.Filter) ([]ports.Document, error) {
	where, args, err := buildWhere(filter, 1)
	if err != nil {
		return nil, domainerrors.NewOperationError("find", c.name, err)
	}

	query := `SELECT ` + documentColumns + ` FROM ` + c.table +
		` WHERE ` + where + ` ORDER BY created_at, id`

	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapError("find", c.name, err)
	}
	defer rows.Close()

	out := make([]ports.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, wrapError("find", c.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("find", c.name, err)
	}
	return out, nil
}

// FindOneAndUpdate сливает patch с верхним уровнем первого подходящего документа.
func (c *Collection) FindOneAndUpdate(ctx context.Context, filter ports.Filter, patch ports.Document) (ports.Document, error) {
	body, err := json.Marshal(stripReserved(patch))
	if err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	where, args, err := buildWhere(filter, 3)
	if err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	query := `UPDATE ` + c.table + ` SET doc = doc || $1::jsonb, updated_at = $2
		WHERE id = (
			SELECT id FROM ` + c.table + ` WHERE ` + where + `
			ORDER BY created_at, id LIMIT 1
			FOR UPDATE
		)
		RETURNING ` + documentColumns

	params := append([]any{body, time.Now().UTC()}, args...)
	out, err := scanDocument(c.q.QueryRow(ctx, query, params...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, wrapError("update", c.name, err)
	}
	return out, nil
}

// ============================================
// Helper functions
// ============================================

func scanDocument(row pgx.Row) (ports.Document, error) {
	var (
		id                   string
		raw                  []byte
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc := ports.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}
	doc[entities.FieldID] = id
	doc[entities.FieldCreatedAt] = createdAt.UTC()
	doc[entities.FieldUpdatedAt] = updatedAt.UTC()
	return doc, nil
}

// stripReserved drops keys the store owns.
func stripReserved(doc ports.Document) ports.Document {
	out := make(ports.Document, len(doc))
	for k, v := range doc {
		switch k {
		case entities.FieldID, entities.FieldCreatedAt, entities.FieldUpdatedAt:
			continue
		}
		out[k] = v
	}
	return out
}
