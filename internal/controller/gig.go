package controller

import (
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type gigRoutesHandler struct {
	gigService service.Gig
	validate   *validator.Validate
}

func newGigRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, auth echo.MiddlewareFunc) *gigRoutesHandler {
	h := &gigRoutesHandler{gigService: services.Gig, validate: v}
	outer.GET("/gigs", h.GetGigs)
	outer.GET("/gigs/my", h.GetMyGigs, auth)
	outer.GET("/gigs/:id", h.GetGig)
	outer.POST("/gigs", h.PostGig, auth)
	outer.DELETE("/gigs/:id", h.DeleteGig, auth)

	return h
}

type getGigsInput struct {
	Page   int    `query:"page" validate:"gte=1"`
	Limit  int    `query:"limit" validate:"gte=1,lte=50"`
	Search string `query:"search" validate:"max=100"`
	Status string `query:"status" validate:"omitempty,oneof=open assigned"`
}

func newGetGigsInput() getGigsInput {
	return getGigsInput{Page: defaultPage, Limit: defaultLimit}
}

// /gigs
func (h *gigRoutesHandler) GetGigs(c echo.Context) error {
	var input = newGetGigsInput()
	if err := c.Bind(&input); err != nil {
		return respondBadInput(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return respondBadInput(c, err)
	}

	pg := entity.NewPagePaginationInput(input.Page, input.Limit)
	filter := &entity.GigFilter{Status: input.Status, Search: input.Search}
	page, err := h.gigService.GetGigs(c.Request().Context(), filter, pg)
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", page); e != nil {
		return e
	}

	return nil
}

// /gigs/my
func (h *gigRoutesHandler) GetMyGigs(c echo.Context) error {
	gigs, err := h.gigService.GetMyGigs(c.Request().Context(), actorId(c))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", gigs); e != nil {
		return e
	}

	return nil
}

// /gigs/:id
func (h *gigRoutesHandler) GetGig(c echo.Context) error {
	gig, err := h.gigService.GetGigById(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", gig); e != nil {
		return e
	}

	return nil
}

type postGigInput struct {
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required,min=20,max=2000"`
	Budget      int64  `json:"budget" validate:"required,gte=1"`
}

// /gigs
func (h *gigRoutesHandler) PostGig(c echo.Context) error {
	var input postGigInput
	if err := c.Bind(&input); err != nil {
		return respondBadInput(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return respondBadInput(c, err)
	}

	model := &entity.CreateGigInput{
		Title: input.Title, Description: input.Description, Budget: input.Budget, OwnerId: actorId(c),
	}

	gig, err := h.gigService.CreateGig(c.Request().Context(), model)
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusCreated, "Gig created successfully", gig); e != nil {
		return e
	}

	return nil
}

// /gigs/:id
func (h *gigRoutesHandler) DeleteGig(c echo.Context) error {
	if err := h.gigService.DeleteGig(c.Request().Context(), c.Param("id"), actorId(c)); err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "Gig deleted successfully", nil); e != nil {
		return e
	}

	return nil
}
