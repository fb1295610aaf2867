package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ml-artifact-pipeline/internal/core/domain"
	ports "ml-artifact-pipeline/internal/core/ports/output"
)

type runLedgerRepo struct {
	pool *pgxpool.Pool
}

func NewRunLedgerRepository(pool *pgxpool.Pool) ports.RunLedger {
	return &runLedgerRepo{pool: pool}
}

func (r *runLedgerRepo) CreateRun(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		INSERT INTO pipeline_run (id, started_at, status)
		VALUES ($1, $2, $3)
	`
	_, err := r.pool.Exec(ctx, query, run.ID, run.StartedAt, string(run.Status))
	if err != nil {
		return fmt.Errorf("create pipeline run: %w", err)
	}
	return nil
}

func (r *runLedgerRepo) FinishRun(ctx context.Context, run *domain.PipelineRun) error {
	stagesJSON, err := json.Marshal(run.Stages)
	if err != nil {
		return fmt.Errorf("marshal stage results: %w", err)
	}

	query := `
		UPDATE pipeline_run
		SET finished_at=$1, status=$2, failed_stage=$3, error=$4, stages=$5
		WHERE id=$6
	`
	result, err := r.pool.Exec(ctx, query,
		run.FinishedAt, string(run.Status), string(run.FailedStage),
		run.Error, stagesJSON, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finish pipeline run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}

func (r *runLedgerRepo) GetRun(ctx context.Context, id uuid.UUID) (*domain.PipelineRun, error) {
	query := `
		SELECT id, started_at, COALESCE(finished_at, started_at), status,
			   COALESCE(failed_stage, ''), COALESCE(error, ''),
			   COALESCE(stages, '[]'::jsonb)
		FROM pipeline_run
		WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("get pipeline run: %w", err)
	}
	return run, nil
}

func (r *runLedgerRepo) ListRuns(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	conditions := []string{}
	args := []interface{}{}
	argPos := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM pipeline_run WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pipeline runs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(`
		SELECT id, started_at, COALESCE(finished_at, started_at), status,
			   COALESCE(failed_stage, ''), COALESCE(error, ''),
			   COALESCE(stages, '[]'::jsonb)
		FROM pipeline_run
		WHERE %s
		ORDER BY started_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pipeline runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.PipelineRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pipeline run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (r *runLedgerRepo) RecordArtifact(ctx context.Context, runID uuid.UUID, version *domain.ArtifactVersion) error {
	query := `
		INSERT INTO artifact_record (id, run_id, class, path, created_at, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		uuid.New(), runID, string(version.Class), version.Path,
		version.CreatedAt, version.SizeBytes,
	)
	if err != nil {
		return fmt.Errorf("record artifact: %w", err)
	}
	return nil
}

func (r *runLedgerRepo) RecordVerdict(ctx context.Context, runID uuid.UUID, stage domain.Stage, verdict domain.ValidationVerdict) error {
	metricsJSON, err := json.Marshal(verdict.Metrics)
	if err != nil {
		return fmt.Errorf("marshal verdict metrics: %w", err)
	}

	query := `
		INSERT INTO verdict_record (id, run_id, stage, passed, reason, metrics)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.pool.Exec(ctx, query,
		uuid.New(), runID, string(stage), verdict.Passed, verdict.Reason, metricsJSON,
	)
	if err != nil {
		return fmt.Errorf("record verdict: %w", err)
	}
	return nil
}

func scanRun(row pgx.Row) (*domain.PipelineRun, error) {
	var (
		run        domain.PipelineRun
		status     string
		failed     string
		stagesJSON []byte
	)
	if err := row.Scan(&run.ID, &run.StartedAt, &run.FinishedAt, &status,
		&failed, &run.Error, &stagesJSON); err != nil {
		return nil, err
	}
	run.Status = domain.RunStatus(status)
	run.FailedStage = domain.Stage(failed)
	if err := json.Unmarshal(stagesJSON, &run.Stages); err != nil {
		return nil, fmt.Errorf("unmarshal stage results: %w", err)
	}
	return &run, nil
}
