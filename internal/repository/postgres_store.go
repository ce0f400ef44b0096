package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"petwelfare/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// dbtx 同时满足 *sql.DB 与 *sql.Tx
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresStore 基于 database/sql + lib/pq 的 Store 实现
type PostgresStore struct {
	db     *sql.DB
	q      dbtx
	inTx   bool
	logger *zap.Logger
}

// NewPostgresStore 创建 PostgresStore
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, q: db, logger: logger}
}

func (s *PostgresStore) Emergencies() EmergencyRepository {
	return &postgresEmergencies{q: s.q}
}

func (s *PostgresStore) Stress() StressRepository {
	return &postgresStress{q: s.q}
}

func (s *PostgresStore) Activities() ActivityRepository {
	return &postgresActivities{q: s.q}
}

func (s *PostgresStore) Owners() OwnerRepository {
	return &postgresOwners{q: s.q}
}

// InTx 开启事务；已在事务中时直接复用
func (s *PostgresStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &PostgresStore{db: s.db, q: tx, inTx: true, logger: s.logger}
	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapWriteError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// mapWriteError 把约束冲突（SQLSTATE 23xxx）归类为 ErrIntegrity
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Class() == "23" {
		return fmt.Errorf("%w: %s (%s)", models.ErrIntegrity, pqErr.Message, pqErr.Code)
	}
	return err
}
