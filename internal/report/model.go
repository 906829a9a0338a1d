package report

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("report not found")

const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusFailed     = "FAILED"
)

const (
	TypeExpenses = "expenses"
	TypeSavings  = "savings"
)

// Report is an asynchronous PDF export job. The worker picks it up from
// the queue and fills in the result file or the error.
type Report struct {
	ID           int        `json:"id"`
	UserID       int        `json:"userId"`
	ReportType   string     `json:"reportType"`
	Status       string     `json:"status"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
	ResultFile   *string    `json:"resultFile,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ReportPayload is the queue message handed to the worker.
type ReportPayload struct {
	ID         int        `json:"id"`
	UserID     int        `json:"user_id"`
	ReportType string     `json:"report_type"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
}
