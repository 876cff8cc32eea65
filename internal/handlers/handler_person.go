package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/money_tracker/internal/core/ports/services"
	"github.com/SscSPs/money_tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

// personHandler handles the counterparties debts are owed to or by.
type personHandler struct {
	personService portssvc.PersonSvcFacade
}

func newPersonHandler(ps portssvc.PersonSvcFacade) *personHandler {
	return &personHandler{personService: ps}
}

func registerPersonRoutes(rg *gin.RouterGroup, ps portssvc.PersonSvcFacade) {
	h := newPersonHandler(ps)

	persons := rg.Group("/persons")
	{
		persons.GET("", h.listPersons)
		persons.POST("", h.createPerson)
		persons.GET("/:id", h.getPerson)
		persons.PUT("/:id", h.updatePerson)
		persons.DELETE("/:id", h.deletePerson)
	}
}

// listPersons godoc
// @Summary List persons
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.PersonResponse
// @Failure 401 {object} ErrorResponse
// @Router /persons [get]
func (h *personHandler) listPersons(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	persons, err := h.personService.ListPersons(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list persons")
		return
	}
	c.JSON(http.StatusOK, dto.ToPersonResponses(persons))
}

// createPerson godoc
// @Summary Create a person
// @Tags persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param person body dto.CreatePersonRequest true "Person"
// @Success 201 {object} dto.PersonResponse
// @Failure 400 {object} ErrorResponse
// @Router /persons [post]
func (h *personHandler) createPerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	person, err := h.personService.CreatePerson(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create person")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPersonResponse(person))
}

// getPerson godoc
// @Summary Get a person
// @Tags persons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Success 200 {object} dto.PersonResponse
// @Failure 404 {object} ErrorResponse
// @Router /persons/{id} [get]
func (h *personHandler) getPerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	person, err := h.personService.GetPersonByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get person")
		return
	}
	c.JSON(http.StatusOK, dto.ToPersonResponse(person))
}

// updatePerson godoc
// @Summary Rename a person
// @Tags persons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Param person body dto.UpdatePersonRequest true "Person"
// @Success 200 {object} dto.PersonResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /persons/{id} [put]
func (h *personHandler) updatePerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	person, err := h.personService.UpdatePerson(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update person")
		return
	}
	c.JSON(http.StatusOK, dto.ToPersonResponse(person))
}

// deletePerson godoc
// @Summary Delete a person
// @Description Fails with 409 while any debt still references the person.
// @Tags persons
// @Security BearerAuth
// @Param id path string true "Person ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /persons/{id} [delete]
func (h *personHandler) deletePerson(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.personService.DeletePerson(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete person")
		return
	}
	c.Status(http.StatusNoContent)
}
