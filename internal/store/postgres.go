package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/ignite/linkedin-analytics-etl/internal/linkedin"
	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

const insertBatchSize = 500

// Postgres is the primary destination store. Schema:
//
//	analytics_tables(table_id text primary key, headers jsonb, updated_at)
//	analytics_rows(id uuid, table_id text, run_id text, source_file text,
//	               date_key text, row jsonb, created_at)
//	etl_import_log(id uuid, run_id text, source_file text, report_type text,
//	               table_id text, row_count int, status text, error text,
//	               created_at)
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects and pings.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	db.SetMaxOpenConns(5)
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing handle, used by tests.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Write persists one batch transactionally. Replace mode clears the
// destination table's rows first, so a failed insert never leaves the
// table empty.
func (p *Postgres) Write(ctx context.Context, batch Batch) (int, error) {
	if len(batch.Records) == 0 {
		return 0, nil
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	headersJSON, err := json.Marshal(batch.Headers)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal headers: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO analytics_tables (table_id, headers, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (table_id) DO UPDATE SET
			headers = EXCLUDED.headers,
			updated_at = NOW()`,
		batch.Table, headersJSON)
	if err != nil {
		return 0, fmt.Errorf("failed to register table %s: %w", batch.Table, err)
	}

	if batch.Mode == linkedin.Replace {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM analytics_rows WHERE table_id = $1`, batch.Table); err != nil {
			return 0, fmt.Errorf("failed to clear table %s: %w", batch.Table, err)
		}
	}

	written := 0
	for start := 0; start < len(batch.Records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(batch.Records) {
			end = len(batch.Records)
		}
		n, err := insertRows(ctx, tx, batch, batch.Records[start:end])
		if err != nil {
			return 0, err
		}
		written += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch for %s: %w", batch.Table, err)
	}

	logger.Info("batch written",
		"table", batch.Table, "rows", written, "mode", batch.Mode.String())
	return written, nil
}

func insertRows(ctx context.Context, tx *sql.Tx, batch Batch, records []map[string]string) (int, error) {
	var sb strings.Builder
	sb.WriteString(`INSERT INTO analytics_rows (id, table_id, run_id, source_file, date_key, row, created_at) VALUES `)

	args := make([]interface{}, 0, len(records)*6)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d, NOW())",
			base+1, base+2, base+3, base+4, base+5, base+6)

		rowJSON, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal row: %w", err)
		}
		args = append(args,
			uuid.New(), batch.Table, batch.RunID, batch.SourceFile,
			dateKeyFor(rec, batch.DateColumn), rowJSON)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return 0, fmt.Errorf("failed to insert rows into %s: %w", batch.Table, err)
	}
	return len(records), nil
}

// LogImport appends one ledger line; ledger failures are reported but
// must not fail the import they describe.
func (p *Postgres) LogImport(ctx context.Context, entry ImportLogEntry) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO etl_import_log
			(id, run_id, source_file, report_type, table_id, row_count, status, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())`,
		uuid.New(), entry.RunID, entry.SourceFile, entry.ReportType,
		entry.Table, entry.Rows, entry.Status, entry.Error)
	if err != nil {
		return fmt.Errorf("failed to write import log: %w", err)
	}
	return nil
}

// RecentImports returns the latest ledger lines, newest first.
func (p *Postgres) RecentImports(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT run_id, source_file, report_type, table_id, row_count, status, COALESCE(error, '')
		FROM etl_import_log ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import log: %w", err)
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		if err := rows.Scan(&e.RunID, &e.SourceFile, &e.ReportType, &e.Table, &e.Rows, &e.Status, &e.Error); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// DB exposes the handle for the health check.
func (p *Postgres) DB() *sql.DB {
	return p.db
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
