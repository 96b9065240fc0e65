package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	sf "github.com/snowflakedb/gosnowflake"

	"github.com/ignite/linkedin-analytics-etl/internal/linkedin"
	"github.com/ignite/linkedin-analytics-etl/internal/pkg/logger"
)

// Snowflake writes batches into the warehouse the BI dashboards read
// from. It serves either as the primary destination when Postgres is
// disabled, or as a secondary mirror alongside it; in mirror mode the
// pipeline treats write failures as warnings, not import failures.
type Snowflake struct {
	db *sql.DB
}

// SnowflakeConfig carries the warehouse connection settings.
type SnowflakeConfig struct {
	Account   string
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string
}

// OpenSnowflake connects using the gosnowflake driver.
func OpenSnowflake(cfg SnowflakeConfig) (*Snowflake, error) {
	dsn, err := sf.DSN(&sf.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Warehouse: cfg.Warehouse,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake DSN: %w", err)
	}

	db, err := sql.Open("snowflake", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping snowflake: %w", err)
	}
	db.SetMaxOpenConns(2)
	return &Snowflake{db: db}, nil
}

// NewSnowflake wraps an existing handle, used by tests.
func NewSnowflake(db *sql.DB) *Snowflake {
	return &Snowflake{db: db}
}

// Write mirrors one batch. Row payloads land as JSON text in a VARIANT
// column populated via PARSE_JSON on the warehouse side.
func (s *Snowflake) Write(ctx context.Context, batch Batch) (int, error) {
	if len(batch.Records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin snowflake tx: %w", err)
	}
	defer tx.Rollback()

	if batch.Mode == linkedin.Replace {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM ANALYTICS_ROWS WHERE TABLE_ID = ?`, batch.Table); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", batch.Table, err)
		}
	}

	written := 0
	for start := 0; start < len(batch.Records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(batch.Records) {
			end = len(batch.Records)
		}
		n, err := s.insertRows(ctx, tx, batch, batch.Records[start:end])
		if err != nil {
			return 0, err
		}
		written += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit snowflake batch: %w", err)
	}

	logger.Info("batch mirrored to snowflake", "table", batch.Table, "rows", written)
	return written, nil
}

func (s *Snowflake) insertRows(ctx context.Context, tx *sql.Tx, batch Batch, records []map[string]string) (int, error) {
	// PARSE_JSON is only legal in INSERT ... SELECT, hence UNION ALL
	// instead of a VALUES list.
	var sb strings.Builder
	sb.WriteString(`INSERT INTO ANALYTICS_ROWS (TABLE_ID, RUN_ID, SOURCE_FILE, DATE_KEY, ROW_DATA) `)

	args := make([]interface{}, 0, len(records)*5)
	for i, rec := range records {
		if i > 0 {
			sb.WriteString(" UNION ALL ")
		}
		sb.WriteString(`SELECT ?, ?, ?, ?, PARSE_JSON(?)`)

		rowJSON, err := json.Marshal(rec)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal row: %w", err)
		}
		args = append(args,
			batch.Table, batch.RunID, batch.SourceFile,
			dateKeyFor(rec, batch.DateColumn), string(rowJSON))
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return 0, fmt.Errorf("failed to insert into ANALYTICS_ROWS: %w", err)
	}
	return len(records), nil
}

// LogImport writes one ledger line. The pipeline only calls this on the
// primary store, so in mirror mode the Postgres ledger stays the single
// source of truth.
func (s *Snowflake) LogImport(ctx context.Context, entry ImportLogEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ETL_IMPORT_LOG
			(ID, RUN_ID, SOURCE_FILE, REPORT_TYPE, TABLE_ID, ROW_COUNT, STATUS, ERROR, CREATED_AT)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP())`,
		uuid.New().String(), entry.RunID, entry.SourceFile, entry.ReportType,
		entry.Table, entry.Rows, entry.Status, entry.Error)
	if err != nil {
		return fmt.Errorf("failed to write import log: %w", err)
	}
	return nil
}

func (s *Snowflake) Close() error {
	return s.db.Close()
}
