package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool used by PostgresStore. A pgx.Tx also
// satisfies it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conversion_job (
	id            UUID PRIMARY KEY,
	file_name     TEXT NOT NULL,
	document_type TEXT,
	format        TEXT,
	status        TEXT NOT NULL,
	output_path   TEXT,
	error_path    TEXT,
	error_message TEXT,
	records       INTEGER NOT NULL DEFAULT 0,
	error_count   INTEGER NOT NULL DEFAULT 0,
	automated     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL,
	completed_at  TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS conversion_job_created_at_idx ON conversion_job (created_at DESC);
`

const jobColumns = `id, file_name, document_type, format, status, output_path, error_path,
	error_message, records, error_count, automated, created_at, completed_at`

// PostgresStore persists jobs in the conversion_job table.
type PostgresStore struct {
	db DBTX
}

// NewPostgresStore wraps a pool or transaction.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the job table if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create conversion_job: %w", err)
	}
	return nil
}

// Create implements JobStore.
func (p *PostgresStore) Create(ctx context.Context, job *Job) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO conversion_job (`+jobColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		toPgUUID(job.ID),
		job.FileName,
		toPgText(job.DocumentType),
		toPgText(job.Format),
		string(job.Status),
		toPgText(job.OutputPath),
		toPgText(job.ErrorPath),
		toPgText(job.Error),
		int32(job.Records),
		int32(job.ErrorCount),
		job.Automated,
		pgtype.Timestamptz{Time: job.CreatedAt, Valid: true},
		toPgTimestamptz(job),
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// Update implements JobStore.
func (p *PostgresStore) Update(ctx context.Context, job *Job) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE conversion_job SET
			document_type = $2,
			format        = $3,
			status        = $4,
			output_path   = $5,
			error_path    = $6,
			error_message = $7,
			records       = $8,
			error_count   = $9,
			completed_at  = $10
		WHERE id = $1`,
		toPgUUID(job.ID),
		toPgText(job.DocumentType),
		toPgText(job.Format),
		string(job.Status),
		toPgText(job.OutputPath),
		toPgText(job.ErrorPath),
		toPgText(job.Error),
		int32(job.Records),
		int32(job.ErrorCount),
		toPgTimestamptz(job),
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrJobNotFound, job.ID)
	}
	return nil
}

// Get implements JobStore.
func (p *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Job, error) {
	row := p.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM conversion_job WHERE id = $1`, toPgUUID(id))
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return job, nil
}

// List implements JobStore.
func (p *PostgresStore) List(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.Query(ctx,
		`SELECT `+jobColumns+` FROM conversion_job ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// scanJob reads one conversion_job row in jobColumns order.
func scanJob(row pgx.Row) (*Job, error) {
	var (
		id           pgtype.UUID
		fileName     string
		documentType pgtype.Text
		format       pgtype.Text
		status       string
		outputPath   pgtype.Text
		errorPath    pgtype.Text
		errorMessage pgtype.Text
		records      int32
		errorCount   int32
		automated    bool
		createdAt    pgtype.Timestamptz
		completedAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&id, &fileName, &documentType, &format, &status, &outputPath, &errorPath,
		&errorMessage, &records, &errorCount, &automated, &createdAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	job := &Job{
		ID:           uuid.UUID(id.Bytes),
		FileName:     fileName,
		DocumentType: documentType.String,
		Format:       format.String,
		Status:       Status(status),
		OutputPath:   outputPath.String,
		ErrorPath:    errorPath.String,
		Error:        errorMessage.String,
		Records:      int(records),
		ErrorCount:   int(errorCount),
		Automated:    automated,
		CreatedAt:    createdAt.Time,
	}
	if completedAt.Valid {
		t := completedAt.Time
		job.CompletedAt = &t
	}
	return job, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func toPgTimestamptz(job *Job) pgtype.Timestamptz {
	if job.CompletedAt == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *job.CompletedAt, Valid: true}
}
