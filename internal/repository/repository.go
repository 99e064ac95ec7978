package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx so the same repository code
// serves plain calls and transactional ones.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

type Repositories struct {
	db *sqlx.DB

	User         UserRepository
	Session      SessionRepository
	Business     BusinessRepository
	Program      ProgramRepository
	Notification NotificationRepository
	Approval     ApprovalRepository
	Enrollment   EnrollmentRepository
	Card         CardRepository
	Relationship RelationshipRepository
	Points       PointsRepository
	Promotion    PromotionRepository
	AuditLog     AuditLogRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	repos := bind(db)
	repos.db = db
	return repos
}

func bind(q DBTX) *Repositories {
	return &Repositories{
		User:         NewUserRepository(q),
		Session:      NewSessionRepository(q),
		Business:     NewBusinessRepository(q),
		Program:      NewProgramRepository(q),
		Notification: NewNotificationRepository(q),
		Approval:     NewApprovalRepository(q),
		Enrollment:   NewEnrollmentRepository(q),
		Card:         NewCardRepository(q),
		Relationship: NewRelationshipRepository(q),
		Points:       NewPointsRepository(q),
		Promotion:    NewPromotionRepository(q),
		AuditLog:     NewAuditLogRepository(q),
	}
}

// WithinTx runs fn against transaction-bound repositories. Any error rolls the
// whole transaction back, so partially processed approvals never become visible.
// A Repositories already bound to a transaction, or built without a database
// handle, runs fn inline against itself.
func (r *Repositories) WithinTx(ctx context.Context, fn func(*Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
