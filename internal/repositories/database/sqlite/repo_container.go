package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:      newSQLiteLedgerRepository(db),
		TransactionRepo: newSQLiteTransactionRepository(db),
		PersonRepo:      newSQLitePersonRepository(db),
		CategoryRepo:    newSQLiteCategoryRepository(db),
		UserRepo:        newSQLiteUserRepository(db),
		ReportingRepo:   newReportingRepository(db),
	}
}
