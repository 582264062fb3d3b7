package dtos

import "github.com/jobledger/JobLedger-server/internal/models"

type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	UserEmail string `json:"user_email"`
}

// JobDetails carries the extension's field names. They differ from the
// JobRecord JSON keys (title vs job_title, timestamp vs date_applied),
// so the mapping is made explicit here instead of trusted blob-style.
type JobDetails struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Description []string `json:"description"`
	Status      string   `json:"status"`
	Notes       string   `json:"notes"`
	Timestamp   string   `json:"timestamp"`
}

type SheetAppendRequest struct {
	UserEmail         string      `json:"user_email" binding:"required"`
	UpdatedJobDetails *JobDetails `json:"updatedJobDetails" binding:"required"`
}

type LinkRequest struct {
	UserEmail string `json:"userEmail" binding:"required"`
}

// ToJobRecord maps the extension keys onto the canonical row schema.
// Per-column defaults are applied later, at append time.
func (d *JobDetails) ToJobRecord() models.JobRecord {
	return models.JobRecord{
		JobTitle:       d.Title,
		CompanyName:    d.Company,
		JobDescription: d.Description,
		DateApplied:    d.Timestamp,
		Status:         d.Status,
		Notes:          d.Notes,
	}
}
