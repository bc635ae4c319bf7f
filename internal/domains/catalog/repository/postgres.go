package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"scholarsync-backend/internal/domains/catalog/model"
	"scholarsync-backend/pkg/cache"
)

// postgresRepository implements Repository on pgxpool with a Redis
// cache-aside for vocabulary lookups.
//
// Schema (see migrations/0001_catalog.sql):
//
//	properties(id serial, term text unique)
//	resource_classes(id serial, term text unique)
//	resources(id uuid, class_id int, template_id int, title text,
//	          data jsonb, created_at, updated_at)
//
// resources.data holds the record's field set keyed by term; each key maps
// to an array of field-value objects (model.FieldValue JSON shape).
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

// NewPostgresRepository creates a new catalog repository instance.
func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

const (
	propertyCacheKeyPrefix = "vocab:property:"
	classCacheKeyPrefix    = "vocab:class:"
	vocabCacheTTL          = 15 * time.Minute

	// resources.title mirrors the first literal under this term.
	titleTerm = "dcterms:title"
)

const recordColumns = "id, class_id, template_id, title, data, created_at, updated_at"

// PropertyID resolves a property term to its numeric id, cache-aside.
func (r *postgresRepository) PropertyID(ctx context.Context, term string) (int, error) {
	return r.termID(ctx, "properties", propertyCacheKeyPrefix, term)
}

// ClassID resolves a resource-class term to its numeric id, cache-aside.
func (r *postgresRepository) ClassID(ctx context.Context, term string) (int, error) {
	return r.termID(ctx, "resource_classes", classCacheKeyPrefix, term)
}

func (r *postgresRepository) termID(ctx context.Context, table, keyPrefix, term string) (int, error) {
	cacheKey := keyPrefix + term

	var id int
	if found, err := r.cache.Get(ctx, cacheKey, &id); err == nil && found {
		return id, nil
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE term = $1", table)
	err := r.pool.QueryRow(ctx, query, term).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Not cached: a missing term is a deployment problem the
			// operator may fix mid-process.
			return 0, fmt.Errorf("%w: %s", model.ErrTermNotFound, term)
		}
		return 0, fmt.Errorf("failed to resolve term %q: %w", term, err)
	}

	r.cache.Set(ctx, cacheKey, id, vocabCacheTTL)
	return id, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Record, error) {
	query := fmt.Sprintf("SELECT %s FROM resources WHERE id = $1", recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record by id: %w", err)
	}
	return rec, nil
}

func (r *postgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM resources WHERE id = ANY($1)", recordColumns)
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func (r *postgresRepository) ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, "SELECT id FROM resources WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check record ids: %w", err)
	}
	defer rows.Close()

	var existing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record id: %w", err)
		}
		existing = append(existing, id)
	}
	return existing, rows.Err()
}

// SearchRecords finds records whose field set satisfies every criterion.
// Exact equality is expressed as jsonb containment on the term's value
// array: data->'term' @> '[{"value":"..."}]'.
func (r *postgresRepository) SearchRecords(ctx context.Context, criteria []PropertyCriterion) ([]model.Record, error) {
	if len(criteria) == 0 {
		return nil, nil
	}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf("SELECT %s FROM resources WHERE 1=1", recordColumns))

	args := []interface{}{}
	argPos := 1

	for _, crit := range criteria {
		if crit.Type != "" && crit.Type != "eq" {
			return nil, fmt.Errorf("unsupported criterion type: %s", crit.Type)
		}

		probe, err := json.Marshal([]map[string]string{{"value": crit.Text}})
		if err != nil {
			return nil, fmt.Errorf("failed to build search probe: %w", err)
		}

		queryBuilder.WriteString(fmt.Sprintf(" AND data->$%d @> $%d::jsonb", argPos, argPos+1))
		args = append(args, crit.Term, string(probe))
		argPos += 2
	}

	queryBuilder.WriteString(" ORDER BY created_at ASC")

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// Create inserts a new record built from the draft.
func (r *postgresRepository) Create(ctx context.Context, draft *model.Draft) (*model.Record, error) {
	data, err := json.Marshal(draft.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	query := fmt.Sprintf(`
        INSERT INTO resources (id, class_id, template_id, title, data)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING %s
    `, recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(
		ctx,
		query,
		uuid.New(),
		draft.ClassID,
		draft.TemplateID,
		draftTitle(draft),
		data,
	))
	if err != nil {
		return nil, fmt.Errorf("%w: create failed: %v", model.ErrWriteRejected, err)
	}
	return rec, nil
}

// Update applies a draft to an existing record.
//
// Partial + replace: data || draft replaces the value sequence of every
// field key the draft touches and keeps the rest. Non-partial overwrites
// the whole field set.
func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, draft *model.Draft, opts model.UpdateOptions) (*model.Record, error) {
	data, err := json.Marshal(draft.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft: %w", err)
	}

	dataExpr := "$2::jsonb"
	if opts.Partial {
		if opts.CollectionAction != model.CollectionReplace {
			return nil, fmt.Errorf("unsupported collection action: %s", opts.CollectionAction)
		}
		dataExpr = "data || $2::jsonb"
	}

	query := fmt.Sprintf(`
        UPDATE resources
        SET
            data = %s,
            title = CASE WHEN $3 <> '' THEN $3 ELSE title END,
            class_id = COALESCE($4, class_id),
            template_id = COALESCE($5, template_id),
            updated_at = NOW()
        WHERE id = $1
        RETURNING %s
    `, dataExpr, recordColumns)

	rec, err := scanRecord(r.pool.QueryRow(
		ctx,
		query,
		id,
		data,
		draftTitle(draft),
		draft.ClassID,
		draft.TemplateID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRecordNotFound
		}
		return nil, fmt.Errorf("%w: update failed: %v", model.ErrWriteRejected, err)
	}
	return rec, nil
}

// draftTitle derives the title column from the draft's title term.
func draftTitle(draft *model.Draft) string {
	for _, v := range draft.Values[titleTerm] {
		if v.Type == model.TypeLiteral && v.Value != "" {
			return v.Value
		}
	}
	return ""
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*model.Record, error) {
	var rec model.Record
	var data []byte

	err := row.Scan(
		&rec.ID,
		&rec.ClassID,
		&rec.TemplateID,
		&rec.Title,
		&data,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Values); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record data: %w", err)
		}
	}
	if rec.Values == nil {
		rec.Values = make(map[string][]model.FieldValue)
	}
	return &rec, nil
}

func collectRecords(rows pgx.Rows) ([]model.Record, error) {
	var records []model.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}
