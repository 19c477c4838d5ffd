package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/caselab/lab_case_app/internal/apperrors"
	"github.com/caselab/lab_case_app/internal/core/domain"
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	"github.com/caselab/lab_case_app/internal/models"
	"github.com/caselab/lab_case_app/internal/utils/mapping"
	"github.com/caselab/lab_case_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditLogRepository persists the append-only audit trail. There is no
// UPDATE or DELETE statement anywhere in this file, and none may ever be added.
type PgxAuditLogRepository struct {
	BaseRepository
}

// newPgxAuditLogRepository creates a new repository for audit log data.
func newPgxAuditLogRepository(pool *pgxpool.Pool) *PgxAuditLogRepository {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

const insertAuditEntryQuery = `
	INSERT INTO audit_log (entry_id, case_id, actor_id, actor_label, field_name, field_label, old_value, new_value, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// appendEntriesInTx queues the inserts onto the given transaction. Case writes
// use it so record mutation and audit append commit or roll back together.
func appendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelAuditLogEntry(entry)
		batch.Queue(insertAuditEntryQuery,
			m.EntryID,
			m.CaseID,
			m.ActorID,
			m.ActorLabel,
			m.FieldName,
			m.FieldLabel,
			m.OldValue,
			m.NewValue,
			m.ChangedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert audit entry: %w", err)
		}
	}
	return nil
}

// AppendEntries inserts the given entries as one atomic batch.
func (r *PgxAuditLogRepository) AppendEntries(ctx context.Context, entries []domain.AuditLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := appendEntriesInTx(ctx, tx, entries); err != nil {
		return apperrors.NewAppError(500, "failed to append audit entries", err)
	}

	return r.Commit(ctx, tx)
}

// ListEntriesByCase retrieves a case's history oldest-first. The cursor pair
// (changed_at, seq) matches the trail's total order, so pages never skip or
// repeat entries.
func (r *PgxAuditLogRepository) ListEntriesByCase(ctx context.Context, caseID string, limit int, nextToken *string) ([]domain.AuditLogEntry, *string, error) {
	query := `
		SELECT entry_id, case_id, actor_id, actor_label, field_name, field_label, old_value, new_value, changed_at, seq
		FROM audit_log
		WHERE case_id = $1
	`
	args := []any{caseID}

	if nextToken != nil && *nextToken != "" {
		changedAt, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (changed_at, seq) > ($2, $3)`
		args = append(args, changedAt, seq)
	}

	query += fmt.Sprintf(` ORDER BY changed_at ASC, seq ASC LIMIT %d`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.AuditLogEntry{}, nil, nil
		}
		return nil, nil, apperrors.NewAppError(500, "failed to query audit log for case "+caseID, err)
	}
	defer rows.Close()

	entries := make([]domain.AuditLogEntry, 0, limit)
	for rows.Next() {
		var m models.AuditLogEntry
		if err := rows.Scan(
			&m.EntryID,
			&m.CaseID,
			&m.ActorID,
			&m.ActorLabel,
			&m.FieldName,
			&m.FieldLabel,
			&m.OldValue,
			&m.NewValue,
			&m.ChangedAt,
			&m.Seq,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit entry", err)
		}
		entries = append(entries, mapping.ToDomainAuditLogEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to read audit entries", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeToken(last.ChangedAt, last.Seq)
		token = &t
	}

	return entries, token, nil
}
