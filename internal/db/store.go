package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShannonBrayNC/technical-update-briefings/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// RunCounts summarizes one build run for the history table.
type RunCounts struct {
	FilesParsed int
	FilesFailed int
	RawItems    int
	Merged      int
}

// Run is one recorded briefing build.
type Run struct {
	ID          string     `json:"id"`
	Month       string     `json:"month"`
	Status      string     `json:"status"`
	FilesParsed int        `json:"files_parsed"`
	FilesFailed int        `json:"files_failed"`
	RawItems    int        `json:"raw_items"`
	Merged      int        `json:"merged_items"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (s *Store) StartRun(ctx context.Context, id, month string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO briefing_runs (id, month, status) VALUES ($1, $2, 'running')",
		id, month)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}
	return nil
}

func (s *Store) CompleteRun(ctx context.Context, id, status string, counts RunCounts) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE briefing_runs
		SET status = $2, files_parsed = $3, files_failed = $4,
		    raw_items = $5, merged_items = $6, completed_at = NOW()
		WHERE id = $1
	`, id, status, counts.FilesParsed, counts.FilesFailed, counts.RawItems, counts.Merged)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

// ReplaceUpdates swaps out the stored list for a month in one transaction, so
// readers never observe a half-written month.
func (s *Store) ReplaceUpdates(ctx context.Context, month, runID string, items []models.Update) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM updates WHERE month = $1", month); err != nil {
		return fmt.Errorf("clear month %q: %w", month, err)
	}

	const insertSQL = `
		INSERT INTO updates (
			run_id, month, title, roadmap_id, url, summary, description, status,
			products, platforms, clouds, audience, phases,
			created, modified, ga, rollout_start,
			impact, how_to_implement, required_license, source
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16, $17,
			$18, $19, $20, $21
		)
	`
	for _, u := range items {
		if _, err := tx.Exec(ctx, insertSQL,
			runID, month, u.Title, u.RoadmapID, u.URL, u.Summary, u.Description, u.Status,
			u.Products, u.Platforms, u.Clouds, u.Audience, u.Phases,
			u.Created, u.Modified, u.GA, u.RolloutStart,
			u.Impact, u.HowToImplement, u.RequiredLicense, u.Source,
		); err != nil {
			return fmt.Errorf("insert update %q: %w", u.Title, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

type ListParams struct {
	Month   string
	Product string
	Source  string
	Limit   int
	Offset  int
}

type ListResult struct {
	Updates []models.Update `json:"updates"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

const selectCols = `title, roadmap_id, url, summary, description, status,
	products, platforms, clouds, audience, phases,
	created, modified, ga, rollout_start,
	impact, how_to_implement, required_license, source, month`

func scanUpdate(scan func(dest ...interface{}) error) (models.Update, error) {
	var u models.Update
	err := scan(
		&u.Title, &u.RoadmapID, &u.URL, &u.Summary, &u.Description, &u.Status,
		&u.Products, &u.Platforms, &u.Clouds, &u.Audience, &u.Phases,
		&u.Created, &u.Modified, &u.GA, &u.RolloutStart,
		&u.Impact, &u.HowToImplement, &u.RequiredLicense, &u.Source, &u.Month,
	)
	return u, err
}

func (s *Store) ListUpdates(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	var args []interface{}
	argIdx := 1

	if params.Month != "" {
		where += fmt.Sprintf(" AND month = $%d", argIdx)
		args = append(args, params.Month)
		argIdx++
	}
	if params.Product != "" {
		// products is TEXT[]; match any element case-insensitively.
		where += fmt.Sprintf(" AND EXISTS (SELECT 1 FROM unnest(products) p WHERE LOWER(p) = LOWER($%d))", argIdx)
		args = append(args, strings.TrimSpace(params.Product))
		argIdx++
	}
	if params.Source != "" {
		where += fmt.Sprintf(" AND source = $%d", argIdx)
		args = append(args, params.Source)
		argIdx++
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM updates " + where
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count failed: %w", err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	selectSQL := fmt.Sprintf(
		"SELECT %s FROM updates %s ORDER BY LOWER(products[1]) NULLS LAST, LOWER(title) LIMIT $%d OFFSET $%d",
		selectCols, where, argIdx, argIdx+1)
	args = append(args, limit, params.Offset)

	rows, err := s.pool.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var updates []models.Update
	for rows.Next() {
		u, err := scanUpdate(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if updates == nil {
		updates = []models.Update{}
	}

	return &ListResult{
		Updates: updates,
		Total:   total,
		Limit:   limit,
		Offset:  params.Offset,
	}, nil
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, month, status, files_parsed, files_failed, raw_items, merged_items,
		       started_at, completed_at
		FROM briefing_runs
		ORDER BY started_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Month, &r.Status, &r.FilesParsed, &r.FilesFailed,
			&r.RawItems, &r.Merged, &r.StartedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return runs, nil
}

// Months returns every month that has stored updates, newest insert first.
func (s *Store) Months(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT month FROM updates GROUP BY month ORDER BY MAX(inserted_at) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err == nil {
			months = append(months, m)
		}
	}
	return months, nil
}

// Products returns distinct product tags for the given month ("" = all).
func (s *Store) Products(ctx context.Context, month string) ([]string, error) {
	sql := "SELECT DISTINCT unnest(products) AS p FROM updates"
	var args []interface{}
	if month != "" {
		sql += " WHERE month = $1"
		args = append(args, month)
	}
	sql += " ORDER BY p"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err == nil {
			products = append(products, p)
		}
	}
	return products, nil
}
