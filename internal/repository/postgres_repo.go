package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"user_manager/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
// pgxmock pools satisfy it as well.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type postgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a RecordRepository over the records table
func NewPostgresRepository(db DBTX) RecordRepository {
	return &postgresRepository{db: db}
}

// FindAll retrieves every record of a collection ordered by id
func (r *postgresRepository) FindAll(ctx context.Context, collection string) ([]model.Record, error) {
	sql := `SELECT id, data FROM records WHERE collection = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, sql, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	out := []model.Record{}
	for rows.Next() {
		var (
			id   int64
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		rec, err := decodeRecord(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	return out, nil
}

// FindByID retrieves a record by its ID
func (r *postgresRepository) FindByID(ctx context.Context, collection string, id int64) (model.Record, error) {
	sql := `SELECT data FROM records WHERE collection = $1 AND id = $2`
	var data []byte
	err := r.db.QueryRow(ctx, sql, collection, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find record by ID: %w", err)
	}
	return decodeRecord(id, data)
}

// Create inserts a record and returns it with the assigned id. Ids are
// max(id)+1 within the collection; an advisory lock per collection keeps
// concurrent inserts from picking the same id.
func (r *postgresRepository) Create(ctx context.Context, collection string, rec model.Record) (model.Record, error) {
	data, err := encodeRecord(rec)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, collection); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to lock collection: %w", err)
	}

	sql := `INSERT INTO records (collection, id, data)
		SELECT $1::text, COALESCE(MAX(id), 0) + 1, $2::jsonb FROM records WHERE collection = $1
		RETURNING id`
	var id int64
	if err := tx.QueryRow(ctx, sql, collection, data).Scan(&id); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit record: %w", err)
	}

	out := rec.Clone()
	out["id"] = id
	return out, nil
}

// Patch merges fields into a stored record
func (r *postgresRepository) Patch(ctx context.Context, collection string, id int64, patch model.Record) (model.Record, error) {
	data, err := encodeRecord(patch)
	if err != nil {
		return nil, err
	}

	sql := `UPDATE records SET data = data || $3::jsonb WHERE collection = $1 AND id = $2 RETURNING data`
	var merged []byte
	err = r.db.QueryRow(ctx, sql, collection, id, data).Scan(&merged)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	return decodeRecord(id, merged)
}

// Delete removes a record, reporting whether it existed
func (r *postgresRepository) Delete(ctx context.Context, collection string, id int64) (bool, error) {
	sql := `DELETE FROM records WHERE collection = $1 AND id = $2`
	cmdTag, err := r.db.Exec(ctx, sql, collection, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete record: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// encodeRecord serializes a record without its id; the id lives in its own column.
func encodeRecord(rec model.Record) (string, error) {
	body := rec.Clone()
	delete(body, "id")
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}
	return string(b), nil
}

func decodeRecord(id int64, data []byte) (model.Record, error) {
	rec := model.Record{}
	if len(data) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to decode record %d: %w", id, err)
		}
	}
	if rec == nil {
		rec = model.Record{}
	}
	rec["id"] = id
	return rec, nil
}
