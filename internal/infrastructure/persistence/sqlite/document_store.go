package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/jobportal/internal/application/ports"
	"github.com/Haleralex/jobportal/internal/domain/entities"
	domainerrors "github.com/Haleralex/jobportal/internal/domain/errors"
)

// Fixed-width UTC timestamps sort lexically in creation order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const documentColumns = `d.id, d.doc, d.created_at, d.updated_at`

// Collection is one document table.
type Collection struct {
	db    *sql.DB
	name  string
	table string
}

var _ ports.Collection = (*Collection)(nil)

// InsertOne stores doc under a new id.
func (c *Collection) InsertOne(ctx context.Context, doc ports.Document) (ports.Document, error) {
	body, err := json.Marshal(stripReserved(doc))
	if err != nil {
		return nil, domainerrors.NewOperationError("insert", c.name, err)
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(timeLayout)
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO `+c.table+` (id, doc, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		id, string(body), now, now,
	)
	if err != nil {
		return nil, domainerrors.NewOperationError("insert", c.name, err)
	}

	return assemble(id, body, now, now)
}

// FindOne returns the oldest document matching filter.
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter) (ports.Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, domainerrors.NewOperationError("findOne", c.name, err)
	}

	row := c.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM `+c.table+` AS d WHERE `+where+` ORDER BY d.created_at, d.rowid LIMIT 1`,
		args...,
	)
	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, domainerrors.NewOperationError("findOne", c.name, err)
	}
	return doc, nil
}

// Find returns every document matching filter in creation order.
func (c *Collection) Find(ctx context.Context, filter ports.Filter) ([]ports.Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, domainerrors.NewOperationError("find", c.name, err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM `+c.table+` AS d WHERE `+where+` ORDER BY d.created_at, d.rowid`,
		args...,
	)
	if err != nil {
		return nil, domainerrors.NewOperationError("find", c.name, err)
	}
	defer rows.Close()

	out := make([]ports.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, domainerrors.NewOperationError("find", c.name, err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domainerrors.NewOperationError("find", c.name, err)
	}
	return out, nil
}

// FindOneAndUpdate merges patch into the top level of the oldest matching document.
func (c *Collection) FindOneAndUpdate(ctx context.Context, filter ports.Filter, patch ports.Document) (ports.Document, error) {
	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var (
		id, raw, createdAt string
		updatedAt          string
	)
	err = tx.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM `+c.table+` AS d WHERE `+where+` ORDER BY d.created_at, d.rowid LIMIT 1`,
		args...,
	).Scan(&id, &raw, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	current := ports.Document{}
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, fmt.Errorf("decode document %s: %w", id, err))
	}
	for k, v := range stripReserved(patch) {
		current[k] = v
	}

	body, err := json.Marshal(current)
	if err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	updatedAt = time.Now().UTC().Format(timeLayout)
	if _, err := tx.ExecContext(ctx,
		`UPDATE `+c.table+` SET doc = ?, updated_at = ? WHERE id = ?`,
		string(body), updatedAt, id,
	); err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domainerrors.NewOperationError("update", c.name, err)
	}

	return assemble(id, body, createdAt, updatedAt)
}

// ============================================
// Filters
// ============================================

// buildWhere renders filter for a query that aliases the table as d.
func buildWhere(filter ports.Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "1 = 1", nil, nil
	}

	clauses := make([]string, 0, len(filter))
	var args []any

	for _, cond := range filter {
		if cond.Field == "" {
			return "", nil, fmt.Errorf("filter condition without field")
		}

		switch cond.Op {
		case ports.OpEq:
			if len(cond.Values) != 1 {
				return "", nil, fmt.Errorf("eq on %q needs exactly one value", cond.Field)
			}
			if cond.Field == entities.FieldID {
				clauses = append(clauses, "d.id = ?")
				args = append(args, cond.Values[0])
				continue
			}
			path, err := jsonPath(cond.Field)
			if err != nil {
				return "", nil, err
			}
			// Booleans compare as "true"/"false" like every other scalar.
			clauses = append(clauses,
				`(CASE json_type(d.doc, ?) WHEN 'true' THEN 'true' WHEN 'false' THEN 'false' `+
					`ELSE CAST(json_extract(d.doc, ?) AS TEXT) END) = ?`)
			args = append(args, path, path, cond.Values[0])

		case ports.OpIn:
			if len(cond.Values) == 0 {
				clauses = append(clauses, "1 = 0")
				continue
			}
			marks := strings.TrimSuffix(strings.Repeat("?, ", len(cond.Values)), ", ")
			if cond.Field == entities.FieldID {
				clauses = append(clauses, "d.id IN ("+marks+")")
				for _, v := range cond.Values {
					args = append(args, v)
				}
				continue
			}
			path, err := jsonPath(cond.Field)
			if err != nil {
				return "", nil, err
			}
			// json_each yields the scalar itself, or each element of an array.
			clauses = append(clauses,
				`EXISTS (SELECT 1 FROM json_each(d.doc, ?) AS je `+
					`WHERE je.type NOT IN ('object', 'array') AND CAST(je.value AS TEXT) IN (`+marks+`))`)
			args = append(args, path)
			for _, v := range cond.Values {
				args = append(args, v)
			}

		default:
			return "", nil, fmt.Errorf("unsupported operator %q", cond.Op)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}

func jsonPath(field string) (string, error) {
	if strings.ContainsAny(field, `"\`) {
		return "", fmt.Errorf("invalid field name %q", field)
	}
	return `$."` + field + `"`, nil
}

// ============================================
// Helper functions
// ============================================

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (ports.Document, error) {
	var id, raw, createdAt, updatedAt string
	if err := row.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return assemble(id, []byte(raw), createdAt, updatedAt)
}

func assemble(id string, raw []byte, createdAt, updatedAt string) (ports.Document, error) {
	doc := ports.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
	}

	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at of %s: %w", id, err)
	}
	updated, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at of %s: %w", id, err)
	}

	doc[entities.FieldID] = id
	doc[entities.FieldCreatedAt] = created
	doc[entities.FieldUpdatedAt] = updated
	return doc, nil
}

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
