package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresIndex stores session records in the coaching_sessions table.
type PostgresIndex struct {
	db *sql.DB
}

// NewPostgresIndex wraps an open database handle.
func NewPostgresIndex(db *sql.DB) *PostgresIndex {
	return &PostgresIndex{db: db}
}

func (p *PostgresIndex) Put(ctx context.Context, r Record) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO coaching_sessions (id, scenario_id, score, badge, enriched, storage_ref, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.ScenarioID, r.Score, string(r.Badge), r.Enriched, r.StorageRef, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", r.ID, err)
	}
	return nil
}

func (p *PostgresIndex) Get(ctx context.Context, id string) (Record, error) {
	var r Record
	err := p.db.QueryRowContext(ctx,
		`SELECT id, scenario_id, score, badge, enriched, storage_ref, created_at
		 FROM coaching_sessions WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.ScenarioID, &r.Score, &r.Badge, &r.Enriched, &r.StorageRef, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get session %s: %w", id, err)
	}
	return r, nil
}

func (p *PostgresIndex) List(ctx context.Context, f Filter) ([]Record, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, scenario_id, score, badge, enriched, storage_ref, created_at
		 FROM coaching_sessions
		 WHERE ($1 = '' OR scenario_id = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		f.ScenarioID, f.limit(),
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.ScenarioID, &r.Score, &r.Badge, &r.Enriched, &r.StorageRef, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

func (p *PostgresIndex) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
