package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hostelworks/hms-api/internal/models"
	appErrors "github.com/hostelworks/hms-api/pkg/errors"
	"github.com/hostelworks/hms-api/pkg/export"
)

type feeRepository interface {
	List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, int, error)
	Create(ctx context.Context, fee *models.Fee) error
	UpdateStatus(ctx context.Context, id string, status models.FeeStatus, paidAt *time.Time) error
	Summary(ctx context.Context) ([]models.FeeSummary, error)
	ReportRows(ctx context.Context, status models.FeeStatus) ([]models.FeeReportRow, error)
}

type studentExistenceChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// CreateFeeRequest describes a new fee payload.
type CreateFeeRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	DueDate   string  `json:"due_date" validate:"required,datetime=2006-01-02"`
}

// FeeReport is a rendered export together with its content type.
type FeeReport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// FeeService manages fee records and status report exports.
type FeeService struct {
	repo      feeRepository
	students  studentExistenceChecker
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewFeeService constructs a FeeService.
func NewFeeService(repo feeRepository, students studentExistenceChecker, validate *validator.Validate, logger *zap.Logger) *FeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeeService{repo: repo, students: students, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns fees with pagination metadata.
func (s *FeeService) List(ctx context.Context, filter models.FeeFilter) ([]models.Fee, *models.Pagination, error) {
	fees, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return fees, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create raises a fee against a student.
func (s *FeeService) Create(ctx context.Context, req CreateFeeRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	exists, err := s.students.Exists(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify student")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must be YYYY-MM-DD")
	}

	fee := &models.Fee{
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Status:    models.FeeStatusPending,
		DueDate:   dueDate,
	}
	if err := s.repo.Create(ctx, fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee")
	}
	s.logger.Info("fee created", zap.String("fee_id", fee.ID), zap.String("student_id", fee.StudentID))
	return fee, nil
}

// MarkPaid transitions a fee to PAID, stamping the payment time.
func (s *FeeService) MarkPaid(ctx context.Context, id string) error {
	paidAt := s.now()
	if err := s.repo.UpdateStatus(ctx, id, models.FeeStatusPaid, &paidAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "fee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update fee")
	}
	return nil
}

// Summary aggregates fees by status.
func (s *FeeService) Summary(ctx context.Context) ([]models.FeeSummary, error) {
	summaries, err := s.repo.Summary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to summarise fees")
	}
	return summaries, nil
}

// Report renders the fee status report as CSV or PDF.
func (s *FeeService) Report(ctx context.Context, status models.FeeStatus, format string) (*FeeReport, error) {
	rows, err := s.repo.ReportRows(ctx, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build fee report")
	}

	table := export.Table{
		Columns: []string{"Student ID", "Student Name", "Amount", "Status", "Due Date"},
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.StudentID,
			row.StudentName,
			fmt.Sprintf("%.2f", row.Amount),
			string(row.Status),
			row.DueDate.Format("2006-01-02"),
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		content, err := export.CSV(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &FeeReport{Content: content, ContentType: "text/csv", Filename: "fee_report.csv"}, nil
	case "pdf":
		content, err := export.PDF(table, "Fee Status Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &FeeReport{Content: content, ContentType: "application/pdf", Filename: "fee_report.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
