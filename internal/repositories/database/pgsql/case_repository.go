package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	"github.com/caselab/lab_case_app/internal/models"
	"github.com/caselab/lab_case_app/internal/utils/mapping"
	"github.com/caselab/lab_case_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxCaseRepository persists lab cases. Every write that mutates a case also
// carries its audit entries; both land in one transaction so a change set is
// never partially observable.
type PgxCaseRepository struct {
	BaseRepository
}

// newPgxCaseRepository creates a new repository for case data.
func newPgxCaseRepository(pool *pgxpool.Pool) *PgxCaseRepository {
	return &PgxCaseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CaseRepositoryFacade = (*PgxCaseRepository)(nil)

const caseColumns = `
	case_id, patient_name, patient_document_id, patient_phone, test_type, notes,
	total_amount, exchange_rate, payments,
	created_at, created_by, last_updated_at, last_updated_by, version
`

func scanCase(row pgx.Row) (*domain.CaseRecord, error) {
	var m models.CaseRecord
	err := row.Scan(
		&m.CaseID,
		&m.PatientName,
		&m.PatientDocumentID,
		&m.PatientPhone,
		&m.TestType,
		&m.Notes,
		&m.TotalAmount,
		&m.ExchangeRate,
		&m.Payments,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.Version,
	)
	if err != nil {
		return nil, err
	}
	record, err := mapping.ToDomainCaseRecord(m)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// FindCaseByID retrieves a specific case by its unique identifier.
func (r *PgxCaseRepository) FindCaseByID(ctx context.Context, caseID string) (*domain.CaseRecord, error) {
	query := `SELECT ` + caseColumns + ` FROM lab_cases WHERE case_id = $1;`

	record, err := scanCase(r.Pool.QueryRow(ctx, query, caseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: case %s", apperrors.ErrNotFound, caseID)
		}
		return nil, apperrors.NewAppError(500, "failed to find case "+caseID, err)
	}
	return record, nil
}

// ListCases retrieves a page of cases, newest first, using a
// (created_at, case_id) cursor.
func (r *PgxCaseRepository) ListCases(ctx context.Context, limit int, nextToken *string) ([]domain.CaseRecord, *string, error) {
	query := `SELECT ` + caseColumns + ` FROM lab_cases`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		fields, err := pagination.DecodeMultiFieldToken(*nextToken)
		if err != nil || len(fields) != 2 {
			return nil, nil, fmt.Errorf("%w: invalid page token", apperrors.ErrValidation)
		}
		query += ` WHERE (created_at, case_id) < ($1::timestamptz, $2)`
		args = append(args, fields[0], fields[1])
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC, case_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list cases", err)
	}
	defer rows.Close()

	records := make([]domain.CaseRecord, 0, limit)
	for rows.Next() {
		record, err := scanCase(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan case row", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to read case rows", err)
	}

	var token *string
	if len(records) > limit {
		records = records[:limit]
		last := records[len(records)-1]
		t := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.CaseID)
		token = &t
	}

	return records, token, nil
}

// SaveCase inserts a new case together with its creation sentinel entry.
func (r *PgxCaseRepository) SaveCase(ctx context.Context, record domain.CaseRecord, created domain.AuditLogEntry) error {
	m, err := mapping.ToModelCaseRecord(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map case "+record.CaseID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO lab_cases (` + caseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.CaseID,
		m.PatientName,
		m.PatientDocumentID,
		m.PatientPhone,
		m.TestType,
		m.Notes,
		m.TotalAmount,
		m.ExchangeRate,
		m.Payments,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert case "+m.CaseID, err)
	}

	if err := appendEntriesInTx(ctx, tx, []domain.AuditLogEntry{created}); err != nil {
		return apperrors.NewAppError(500, "failed to insert creation entry for case "+m.CaseID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateCaseWithAudit persists an edited case and its audit entries in one
// transaction. The row is locked and version-checked first: a stored version
// different from expectedVersion means another actor won the race, and the
// whole write fails with ErrConflict.
func (r *PgxCaseRepository) UpdateCaseWithAudit(ctx context.Context, record domain.CaseRecord, expectedVersion int64, entries []domain.AuditLogEntry) error {
	m, err := mapping.ToModelCaseRecord(record)
	if err != nil {
		return apperrors.NewAppError(500, "failed to map case "+record.CaseID, err)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var storedVersion int64
	err = tx.QueryRow(ctx, `SELECT version FROM lab_cases WHERE case_id = $1 FOR UPDATE;`, m.CaseID).Scan(&storedVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: case %s", apperrors.ErrNotFound, m.CaseID)
		}
		return apperrors.NewAppError(500, "failed to lock case "+m.CaseID, err)
	}
	if storedVersion != expectedVersion {
		return fmt.Errorf("%w: case %s is at version %d, update was based on version %d",
			apperrors.ErrConflict, m.CaseID, storedVersion, expectedVersion)
	}

	updateQuery := `
		UPDATE lab_cases SET
			patient_name = $2,
			patient_document_id = $3,
			patient_phone = $4,
			test_type = $5,
			notes = $6,
			total_amount = $7,
			exchange_rate = $8,
			payments = $9,
			last_updated_at = $10,
			last_updated_by = $11,
			version = $12
		WHERE case_id = $1;
	`
	_, err = tx.Exec(ctx, updateQuery,
		m.CaseID,
		m.PatientName,
		m.PatientDocumentID,
		m.PatientPhone,
		m.TestType,
		m.Notes,
		m.TotalAmount,
		m.ExchangeRate,
		m.Payments,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.Version,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update case "+m.CaseID, err)
	}

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return apperrors.NewAppError(500, "failed to insert audit entries for case "+m.CaseID, err)
	}

	return r.Commit(ctx, tx)
}

// DeleteCase removes the case row and appends its deletion sentinel. The
// case's audit history is deliberately left in place.
func (r *PgxCaseRepository) DeleteCase(ctx context.Context, caseID string, deleted domain.AuditLogEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM lab_cases WHERE case_id = $1;`, caseID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete case "+caseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: case %s", apperrors.ErrNotFound, caseID)
	}

	if err := appendEntriesInTx(ctx, tx, []domain.AuditLogEntry{deleted}); err != nil {
		return apperrors.NewAppError(500, "failed to insert deletion entry for case "+caseID, err)
	}

	return r.Commit(ctx, tx)
}
