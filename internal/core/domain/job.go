package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jobhive/jobhive_backend/internal/apperrors"
)

// JobStatus is the job lifecycle as it intersects the ledger.
type JobStatus string

const (
	JobOpen       JobStatus = "OPEN"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
)

// Job as the ledger sees it. SalaryRange is the string-encoded payout value,
// owned by the job directory; the ledger parses it at its boundary.
type Job struct {
	JobID       string    `json:"jobID"`
	CompanyID   string    `json:"companyID"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SalaryRange string    `json:"salaryRange"`
	Status      JobStatus `json:"status"`
	AuditFields
}

// PayoutValue parses the string-encoded salary into the escrow amount,
// rounded to 2 decimal places. Zero is legal (volunteer work).
func (j Job) PayoutValue() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(j.SalaryRange)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: salary_range %q is not a decimal", apperrors.ErrValidation, j.SalaryRange)
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: salary_range must not be negative", apperrors.ErrValidation)
	}
	return v.Round(2), nil
}

// ApplicationStatus tracks a worker's application to a job. ACTIVE or
// COMPLETED applications make a later job deletion carry the fee penalty.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationActive    ApplicationStatus = "ACTIVE"
	ApplicationCompleted ApplicationStatus = "COMPLETED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
)

// Application links a worker to a job.
type Application struct {
	ApplicationID string            `json:"applicationID"`
	JobID         string            `json:"jobID"`
	WorkerID      string            `json:"workerID"`
	Status        ApplicationStatus `json:"status"`
	AuditFields
}

// RefundAmount computes the deletion refund for a job worth value: the full
// value when no application ever reached ACTIVE/COMPLETED, otherwise the
// value minus the flat posting fee, floored at zero.
func RefundAmount(value decimal.Decimal, fee decimal.Decimal, workStarted bool) decimal.Decimal {
	if !workStarted {
		return value
	}
	refund := value.Sub(fee)
	if refund.IsNegative() {
		return decimal.Zero
	}
	return refund
}
