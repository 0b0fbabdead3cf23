package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hostelworks/hms-api/internal/models"
)

// FeeRepository manages fee records. Fees are plain CRUD plus
// aggregates; they never touch the occupancy invariant.
type FeeRepository struct {
	db *sqlx.DB
}

// NewFeeRepository constructs a FeeRepository.
func NewFeeRepository(db *sqlx.DB) *FeeRepository {
	return &FeeRepository{db: db}
}

// List returns fees matching the provided filters.
func (r *FeeRepository) List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, int, error) {
	base := "FROM fees"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, student_id, amount, status, due_date, paid_at, created_at
        %s ORDER BY due_date ASC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list fees: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count fees: %w", err)
	}
	return fees, total, nil
}

// Create inserts a new fee record.
func (r *FeeRepository) Create(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	if fee.Status == "" {
		fee.Status = models.FeeStatusPending
	}
	fee.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO fees (id, student_id, amount, status, due_date, paid_at, created_at)
        VALUES (:id, :student_id, :amount, :status, :due_date, :paid_at, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// UpdateStatus transitions a fee between PENDING and PAID.
func (r *FeeRepository) UpdateStatus(ctx context.Context, id string, status models.FeeStatus, paidAt *time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE fees SET status = $2, paid_at = $3 WHERE id = $1`, id, status, paidAt)
	if err != nil {
		return fmt.Errorf("update fee status: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Summary aggregates fees grouped by status.
func (r *FeeRepository) Summary(ctx context.Context) ([]models.FeeSummary, error) {
	const query = `SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS total FROM fees GROUP BY status`
	var summaries []models.FeeSummary
	if err := r.db.SelectContext(ctx, &summaries, query); err != nil {
		return nil, fmt.Errorf("fee summary: %w", err)
	}
	return summaries, nil
}

// ReportRows returns fee rows joined with student names for export,
// optionally restricted to a status.
func (r *FeeRepository) ReportRows(ctx context.Context, status models.FeeStatus) ([]models.FeeReportRow, error) {
	query := `SELECT f.student_id, s.name AS student_name, f.amount, f.status, f.due_date
        FROM fees f
        JOIN students s ON s.student_id = f.student_id`
	var args []interface{}
	if status != "" {
		query += " WHERE f.status = $1"
		args = append(args, status)
	}
	query += " ORDER BY f.due_date ASC, f.student_id ASC"

	var rows []models.FeeReportRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("fee report rows: %w", err)
	}
	return rows, nil
}
