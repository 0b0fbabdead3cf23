package models

import "time"

// FeeStatus enumerates the lifecycle of a fee record.
type FeeStatus string

const (
	FeeStatusPending FeeStatus = "PENDING"
	FeeStatusPaid    FeeStatus = "PAID"
)

// Fee represents a charge raised against a student. Fees bypass the
// admission controller entirely; they are not capacity-gated.
type Fee struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	Amount    float64    `db:"amount" json:"amount"`
	Status    FeeStatus  `db:"status" json:"status"`
	DueDate   time.Time  `db:"due_date" json:"due_date"`
	PaidAt    *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// FeeFilter encapsulates search parameters for listing fees.
type FeeFilter struct {
	StudentID string
	Status    FeeStatus
	Page      int
	PageSize  int
}

// FeeSummary is an aggregate of fees grouped by status.
type FeeSummary struct {
	Status FeeStatus `db:"status" json:"status"`
	Count  int       `db:"count" json:"count"`
	Total  float64   `db:"total" json:"total"`
}

// FeeReportRow is a flattened row for the fee status report export.
type FeeReportRow struct {
	StudentID   string    `db:"student_id" json:"student_id"`
	StudentName string    `db:"student_name" json:"student_name"`
	Amount      float64   `db:"amount" json:"amount"`
	Status      FeeStatus `db:"status" json:"status"`
	DueDate     time.Time `db:"due_date" json:"due_date"`
}
