package dto

import (
	"time"

	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// CreatePersonRequest defines the data needed to create a person.
type CreatePersonRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// UpdatePersonRequest defines the data allowed for updating a person.
type UpdatePersonRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type PersonResponse struct {
	PersonID  string    `json:"personID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToPersonResponse(p *domain.Person) PersonResponse {
	return PersonResponse{PersonID: p.PersonID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func ToPersonResponses(persons []domain.Person) []PersonResponse {
	out := make([]PersonResponse, len(persons))
	for i := range persons {
		out[i] = ToPersonResponse(&persons[i])
	}
	return out
}
