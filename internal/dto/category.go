package dto

import (
	"github.com/SscSPs/money_tracker/internal/core/domain"
)

// CreateCategoryRequest defines the data needed to create a category.
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Type string `json:"type" binding:"required,categorytype"`
}

// UpdateCategoryRequest uses pointers so omitted fields keep their value.
type UpdateCategoryRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Type *string `json:"type" binding:"omitempty,categorytype"`
}

type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Name       string `json:"name"`
	Type       string `json:"type"`
}

func ToCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{CategoryID: c.CategoryID, Name: c.Name, Type: string(c.Type)}
}

func ToCategoryResponses(categories []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(categories))
	for i := range categories {
		out[i] = ToCategoryResponse(&categories[i])
	}
	return out
}
