package models

import (
	"time"
)

// UserRecord is one document in the users_info collection.
// The document ID is the user's email, used verbatim.
type UserRecord struct {
	UserEmail        string    `firestore:"user_email" json:"user_email"`
	SheetLink        string    `firestore:"sheet_link" json:"sheet_link"`
	SubscriptionDate time.Time `firestore:"subscription_date" json:"subscription_date"`
}

// JobRecord is one row of job data. It has no identity of its own:
// the service keeps no copy of it outside the user's spreadsheet.
type JobRecord struct {
	JobTitle       string   `json:"job_title"`
	CompanyName    string   `json:"company_name"`
	JobDescription []string `json:"job_description"`
	DateApplied    string   `json:"date_applied,omitempty"`
	Status         string   `json:"status"`
	Notes          string   `json:"notes"`
}

// Status values the sheet's dropdown accepts. "New" only ever comes out of
// extraction; the sheet-side rules cover the other three.
const (
	StatusNew      = "New"
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)
