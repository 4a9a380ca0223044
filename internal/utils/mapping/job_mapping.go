package mapping

import (
	"github.com/jobhive/jobhive_backend/internal/core/domain"
	"github.com/jobhive/jobhive_backend/internal/models"
)

// ToModelJob converts a domain Job to a model Job
func ToModelJob(d domain.Job) models.Job {
	return models.Job{
		JobID:       d.JobID,
		CompanyID:   d.CompanyID,
		Title:       d.Title,
		Description: d.Description,
		SalaryRange: d.SalaryRange,
		Status:      models.JobStatus(d.Status),
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJob converts a model Job to a domain Job
func ToDomainJob(m models.Job) domain.Job {
	return domain.Job{
		JobID:       m.JobID,
		CompanyID:   m.CompanyID,
		Title:       m.Title,
		Description: m.Description,
		SalaryRange: m.SalaryRange,
		Status:      domain.JobStatus(m.Status),
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainApplication converts a model Application to a domain Application
func ToDomainApplication(m models.Application) domain.Application {
	return domain.Application{
		ApplicationID: m.ApplicationID,
		JobID:         m.JobID,
		WorkerID:      m.WorkerID,
		Status:        domain.ApplicationStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelApplication converts a domain Application to a model Application
func ToModelApplication(d domain.Application) models.Application {
	return models.Application{
		ApplicationID: d.ApplicationID,
		JobID:         d.JobID,
		WorkerID:      d.WorkerID,
		Status:        models.ApplicationStatus(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}
