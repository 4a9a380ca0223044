package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portsrepo "github.com/jobhive/jobhive_backend/internal/core/ports/repositories"
	"github.com/jobhive/jobhive_backend/internal/models"
	"github.com/jobhive/jobhive_backend/internal/utils/mapping"
	"github.com/jobhive/jobhive_backend/internal/utils/pagination"
)

const jobColumns = "job_id, company_id, title, description, salary_range, status, created_at, created_by, last_updated_at, last_updated_by"
const applicationColumns = "application_id, job_id, worker_id, status, created_at, created_by, last_updated_at, last_updated_by"

type PgxJobRepository struct {
	BaseRepository
}

// NewJobRepository creates a new repository for jobs and applications.
func NewJobRepository(pool *pgxpool.Pool, retry RetryPolicy) *PgxJobRepository {
	return &PgxJobRepository{BaseRepository: BaseRepository{Pool: pool, Retry: retry}}
}

// Ensure PgxJobRepository implements portsrepo.JobRepository
var _ portsrepo.JobRepository = (*PgxJobRepository)(nil)

func scanJob(row rowScanner) (domain.Job, error) {
	var m models.Job
	err := row.Scan(
		&m.JobID,
		&m.CompanyID,
		&m.Title,
		&m.Description,
		&m.SalaryRange,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Job{}, err
	}
	return mapping.ToDomainJob(m), nil
}

func scanApplication(row rowScanner) (domain.Application, error) {
	var m models.Application
	err := row.Scan(
		&m.ApplicationID,
		&m.JobID,
		&m.WorkerID,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Application{}, err
	}
	return mapping.ToDomainApplication(m), nil
}

// SaveJobInTx inserts the job row within a caller-owned tx.
func (r *PgxJobRepository) SaveJobInTx(ctx context.Context, tx pgx.Tx, job domain.Job) error {
	m := mapping.ToModelJob(job)
	query := `
		INSERT INTO jobs (job_id, company_id, title, description, salary_range, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.JobID, m.CompanyID, m.Title, m.Description, m.SalaryRange, m.Status,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: job %s", apperrors.ErrDuplicate, job.JobID)
		}
		return fmt.Errorf("failed to insert job %s: %w", job.JobID, err)
	}
	return nil
}

// FindJobByID retrieves a job by id.
func (r *PgxJobRepository) FindJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1;`
	job, err := scanJob(r.Pool.QueryRow(ctx, query, jobID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find job %s: %w", jobID, err)
	}
	return &job, nil
}

// ListJobsByCompany returns a company's jobs, most recent first, with a
// keyset pagination token.
func (r *PgxJobRepository) ListJobsByCompany(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.Job, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + jobColumns + ` FROM jobs WHERE company_id = $1`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` AND (created_at, job_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, job_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query jobs for company %s: %w", companyID, err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	var token *string
	if len(jobs) > limit {
		jobs = jobs[:limit]
		last := jobs[len(jobs)-1]
		t := pagination.EncodeToken(last.CreatedAt, last.JobID)
		token = &t
	}
	return jobs, token, nil
}

// UpdateJobStatusInTx transitions a job's status within a caller-owned tx.
func (r *PgxJobRepository) UpdateJobStatusInTx(ctx context.Context, tx pgx.Tx, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	query := `
		UPDATE jobs
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1;
	`
	ct, err := tx.Exec(ctx, query, jobID, models.JobStatus(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of job %s: %w", jobID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID)
	}
	return nil
}

// UpdateJobStatus is the standalone variant for transitions with no ledger
// side effects.
func (r *PgxJobRepository) UpdateJobStatus(ctx context.Context, jobID string, status domain.JobStatus, userID string, now time.Time) error {
	query := `
		UPDATE jobs
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE job_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, jobID, models.JobStatus(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of job %s: %w", jobID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID)
	}
	return nil
}

// DeleteJob removes the job and its applications in one committed database
// transaction of its own. Ledger entries referencing the job survive: job_id
// on transactions is a plain column, so the audit trail outlives the job.
func (r *PgxJobRepository) DeleteJob(ctx context.Context, jobID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM applications WHERE job_id = $1;`, jobID); err != nil {
		return fmt.Errorf("failed to delete applications of job %s: %w", jobID, err)
	}
	ct, err := tx.Exec(ctx, `DELETE FROM jobs WHERE job_id = $1;`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job %s: %w", jobID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: job %s", apperrors.ErrNotFound, jobID)
	}

	return r.Commit(ctx, tx)
}

// SaveApplication inserts a new application.
func (r *PgxJobRepository) SaveApplication(ctx context.Context, app domain.Application) error {
	m := mapping.ToModelApplication(app)
	query := `
		INSERT INTO applications (application_id, job_id, worker_id, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	err := r.withRetry(ctx, "save application", func() error {
		_, err := r.Pool.Exec(ctx, query,
			m.ApplicationID, m.JobID, m.WorkerID, m.Status,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		return err
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505": // one application per worker per job
				return fmt.Errorf("%w: worker %s already applied to job %s", apperrors.ErrDuplicate, app.WorkerID, app.JobID)
			case "23503": // job vanished between check and insert
				return fmt.Errorf("%w: job %s", apperrors.ErrNotFound, app.JobID)
			}
		}
		return fmt.Errorf("failed to insert application %s: %w", app.ApplicationID, err)
	}
	return nil
}

// FindApplicationByID retrieves an application by id.
func (r *PgxJobRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE application_id = $1;`
	app, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find application %s: %w", applicationID, err)
	}
	return &app, nil
}

// UpdateApplicationStatus transitions an application's status.
func (r *PgxJobRepository) UpdateApplicationStatus(ctx context.Context, applicationID string, status domain.ApplicationStatus, userID string, now time.Time) error {
	query := `
		UPDATE applications
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE application_id = $1;
	`
	ct, err := r.Pool.Exec(ctx, query, applicationID, models.ApplicationStatus(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of application %s: %w", applicationID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: application %s", apperrors.ErrNotFound, applicationID)
	}
	return nil
}

// HasStartedApplication reports whether any application for the job ever
// reached ACTIVE or COMPLETED.
func (r *PgxJobRepository) HasStartedApplication(ctx context.Context, jobID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM applications WHERE job_id = $1 AND status IN ('ACTIVE', 'COMPLETED'));`
	var started bool
	if err := r.Pool.QueryRow(ctx, query, jobID).Scan(&started); err != nil {
		return false, fmt.Errorf("failed to check applications of job %s: %w", jobID, err)
	}
	return started, nil
}

// ListApplicationsByJob returns all applications for a job, oldest first.
func (r *PgxJobRepository) ListApplicationsByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE job_id = $1 ORDER BY created_at ASC;`
	rows, err := r.Pool.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications of job %s: %w", jobID, err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application row: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}
