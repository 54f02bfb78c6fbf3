package pgsql

import (
	portsrepo "github.com/SscSPs/audit_portal/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:    newPgxAccountRepository(dbPool),
		RecordRepo:     newPgxAuditRecordRepository(dbPool),
		LoginEventRepo: newPgxLoginEventRepository(dbPool),
		Health:         &BaseRepository{Pool: dbPool},
	}
}
