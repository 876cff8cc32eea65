package services

import (
	"context"

	"github.com/SscSPs/money_tracker/internal/core/domain"
	"github.com/SscSPs/money_tracker/internal/dto"
)

// PersonSvcFacade defines the operations on counterparties
type PersonSvcFacade interface {
	CreatePerson(ctx context.Context, userID string, req dto.CreatePersonRequest) (*domain.Person, error)
	GetPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error)
	ListPersons(ctx context.Context, userID string) ([]domain.Person, error)
	UpdatePerson(ctx context.Context, userID, personID string, req dto.UpdatePersonRequest) (*domain.Person, error)
	// DeletePerson fails with ErrConflict while debts reference the person.
	DeletePerson(ctx context.Context, userID, personID string) error
}
