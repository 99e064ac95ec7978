package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"loyalty-platform/internal/domain"
)

type EnrollmentRepository interface {
	// Upsert creates the enrollment or reactivates an existing non-ACTIVE row
	// for the same (customer, program) pair. Idempotent across retried approvals.
	Upsert(ctx context.Context, enrollment *domain.ProgramEnrollment) error
	GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.ProgramEnrollment, error)
	AddPoints(ctx context.Context, id uuid.UUID, earned int) error
	DeductPoints(ctx context.Context, id uuid.UUID, points int) error
	ListActiveCustomerIDs(ctx context.Context, businessID uuid.UUID, programID *uuid.UUID) ([]uuid.UUID, error)
	CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error)
}

type enrollmentRepository struct {
	db DBTX
}

func NewEnrollmentRepository(db DBTX) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Upsert(ctx context.Context, enrollment *domain.ProgramEnrollment) error {
	query := `
		INSERT INTO program_enrollments (id, customer_id, program_id, business_id, status, current_points, total_points_earned)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (customer_id, program_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING id, current_points, total_points_earned, enrolled_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		enrollment.ID, enrollment.CustomerID, enrollment.ProgramID, enrollment.BusinessID,
		enrollment.Status, enrollment.CurrentPoints, enrollment.TotalPointsEarned,
	).Scan(&enrollment.ID, &enrollment.CurrentPoints, &enrollment.TotalPointsEarned,
		&enrollment.EnrolledAt, &enrollment.UpdatedAt)
}

func (r *enrollmentRepository) GetByCustomerProgram(ctx context.Context, customerID, programID uuid.UUID) (*domain.ProgramEnrollment, error) {
	var enrollment domain.ProgramEnrollment
	query := `SELECT * FROM program_enrollments WHERE customer_id = $1 AND program_id = $2`

	err := r.db.GetContext(ctx, &enrollment, query, customerID, programID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) AddPoints(ctx context.Context, id uuid.UUID, earned int) error {
	query := `
		UPDATE program_enrollments
		SET current_points = current_points + $2,
			total_points_earned = total_points_earned + $2,
			updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, earned)
	return err
}

func (r *enrollmentRepository) DeductPoints(ctx context.Context, id uuid.UUID, points int) error {
	query := `
		UPDATE program_enrollments
		SET current_points = current_points - $2, updated_at = NOW()
		WHERE id = $1 AND current_points >= $2`

	result, err := r.db.ExecContext(ctx, query, id, points)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New("insufficient points balance")
	}
	return nil
}

func (r *enrollmentRepository) ListActiveCustomerIDs(ctx context.Context, businessID uuid.UUID, programID *uuid.UUID) ([]uuid.UUID, error) {
	var customerIDs []uuid.UUID

	if programID != nil {
		query := `
			SELECT DISTINCT customer_id FROM program_enrollments
			WHERE business_id = $1 AND program_id = $2 AND status = $3`
		err := r.db.SelectContext(ctx, &customerIDs, query, businessID, *programID, domain.EnrollmentActive)
		return customerIDs, err
	}

	query := `
		SELECT DISTINCT customer_id FROM program_enrollments
		WHERE business_id = $1 AND status = $2`
	err := r.db.SelectContext(ctx, &customerIDs, query, businessID, domain.EnrollmentActive)
	return customerIDs, err
}

func (r *enrollmentRepository) CountActiveByBusiness(ctx context.Context, businessID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM program_enrollments WHERE business_id = $1 AND status = $2`
	err := r.db.GetContext(ctx, &count, query, businessID, domain.EnrollmentActive)
	return count, err
}
