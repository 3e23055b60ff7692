package repository

import (
	"context"
	"database/sql"
	"time"

	"precis/backend/internal/model"
	"precis/backend/internal/snowflake"
)

const defaultRunListLimit = 50

type SummaryRunRepository interface {
	// Create stores run and returns its generated ID.
	Create(ctx context.Context, run model.SummaryRun) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.SummaryRun, error)
	// DeleteBefore removes runs created before cutoff and returns the count.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type summaryRunRepository struct {
	db dbtx
}

func NewSummaryRunRepository(db dbtx) SummaryRunRepository {
	return &summaryRunRepository{db: db}
}

func (r *summaryRunRepository) Create(ctx context.Context, run model.SummaryRun) (int64, error) {
	id := snowflake.NextID()
	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	var errMsg any
	if run.ErrorMessage != nil {
		errMsg = *run.ErrorMessage
	}

	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO summary_runs (id, mode, backend, model_id, input_chars, input_tokens, truncated,
		   output_chars, status, error_message, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, string(run.Mode), run.Backend, run.ModelID, run.InputChars, run.InputTokens, boolToInt(run.Truncated),
		run.OutputChars, run.Status, errMsg, run.DurationMS, formatTime(createdAt),
	)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *summaryRunRepository) ListRecent(ctx context.Context, limit int) ([]model.SummaryRun, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}

	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, mode, backend, model_id, input_chars, input_tokens, truncated, output_chars,
		        status, error_message, duration_ms, created_at
		 FROM summary_runs ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.SummaryRun
	for rows.Next() {
		run, err := scanSummaryRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

func (r *summaryRunRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM summary_runs WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSummaryRun(rows *sql.Rows) (model.SummaryRun, error) {
	var run model.SummaryRun
	var mode, createdAt string
	var truncatedInt int
	var errMsg sql.NullString

	err := rows.Scan(
		&run.ID, &mode, &run.Backend, &run.ModelID, &run.InputChars, &run.InputTokens, &truncatedInt,
		&run.OutputChars, &run.Status, &errMsg, &run.DurationMS, &createdAt,
	)
	if err != nil {
		return model.SummaryRun{}, err
	}

	run.Mode = model.InputMode(mode)
	run.Truncated = truncatedInt == 1
	if errMsg.Valid {
		run.ErrorMessage = &errMsg.String
	}
	run.CreatedAt, _ = parseTime(createdAt)

	return run, nil
}
