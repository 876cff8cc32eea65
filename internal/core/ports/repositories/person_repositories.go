package repositories

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// PersonReader defines read operations for persons
type PersonReader interface {
	FindPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error)
	ListPersons(ctx context.Context, userID string) ([]domain.Person, error)
}

// PersonWriter defines write operations for persons
type PersonWriter interface {
	SavePerson(ctx context.Context, person domain.Person) error
	UpdatePerson(ctx context.Context, person domain.Person) error
	// DeletePerson fails with ErrConflict while a debt still references the person.
	DeletePerson(ctx context.Context, userID, personID string) error
}

// PersonRepositoryFacade combines all person-related repository interfaces
type PersonRepositoryFacade interface {
	PersonReader
	PersonWriter
}
