package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/money_tracker/internal/apperrors"
	"github.com/SscSPs/money_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/money_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/google/uuid"
)

type personService struct {
	BaseService
	personRepo portsrepo.PersonRepositoryFacade
}

// NewPersonService creates a new person service.
func NewPersonService(personRepo portsrepo.PersonRepositoryFacade) portssvc.PersonSvcFacade {
	return &personService{personRepo: personRepo}
}

var _ portssvc.PersonSvcFacade = (*personService)(nil)

func (s *personService) CreatePerson(ctx context.Context, userID string, req dto.CreatePersonRequest) (*domain.Person, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	now := time.Now().UTC()
	person := domain.Person{
		PersonID: uuid.NewString(),
		UserID:   userID,
		Name:     name,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.personRepo.SavePerson(ctx, person); err != nil {
		s.LogError(ctx, err, "Failed to create person", slog.String("name", name))
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.LogInfo(ctx, "Person created", slog.String("person_id", person.PersonID))
	return &person, nil
}

func (s *personService) GetPersonByID(ctx context.Context, userID, personID string) (*domain.Person, error) {
	person, err := s.personRepo.FindPersonByID(ctx, userID, personID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get person", slog.String("person_id", personID))
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

func (s *personService) ListPersons(ctx context.Context, userID string) ([]domain.Person, error) {
	persons, err := s.personRepo.ListPersons(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list persons", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}
	return persons, nil
}

func (s *personService) UpdatePerson(ctx context.Context, userID, personID string, req dto.UpdatePersonRequest) (*domain.Person, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	person, err := s.personRepo.FindPersonByID(ctx, userID, personID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find person for update", slog.String("person_id", personID))
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	person.Name = name
	person.Touch(userID, time.Now().UTC())
	if err := s.personRepo.UpdatePerson(ctx, *person); err != nil {
		s.LogError(ctx, err, "Failed to update person", slog.String("person_id", personID))
		return nil, fmt.Errorf("failed to update person: %w", err)
	}

	s.LogInfo(ctx, "Person updated", slog.String("person_id", personID))
	return person, nil
}

func (s *personService) DeletePerson(ctx context.Context, userID, personID string) error {
	if err := s.personRepo.DeletePerson(ctx, userID, personID); err != nil {
		s.LogError(ctx, err, "Failed to delete person", slog.String("person_id", personID))
		return fmt.Errorf("failed to delete person: %w", err)
	}
	s.LogInfo(ctx, "Person deleted", slog.String("person_id", personID))
	return nil
}
