package pgsql

import (
	portsrepo "github.com/caselab/lab_case_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CaseRepo:  newPgxCaseRepository(pool),
		AuditRepo: newPgxAuditLogRepository(pool),
	}
}
