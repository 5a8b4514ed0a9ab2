package controller

import (
	"gig-marketplace-api/internal/entity"
	"gig-marketplace-api/internal/service"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate, auth echo.MiddlewareFunc) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids", h.PostBid, auth)
	outer.GET("/bids/my", h.GetMyBids, auth)
	outer.GET("/bids/:gigId", h.GetGigBids, auth)
	outer.PATCH("/bids/:bidId/hire", h.HireBid, auth)

	return h
}

type postBidInput struct {
	GigId   string  `json:"gigId" validate:"required,max=100"`
	Message string  `json:"message" validate:"required,min=10,max=1000"`
	Price   float64 `json:"price" validate:"required,gte=1"`
}

// /bids
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
	if err := c.Bind(&input); err != nil {
		return respondBadInput(c, err)
	}
	if err := h.validate.Struct(input); err != nil {
		return respondBadInput(c, err)
	}

	model := &entity.CreateBidInput{
		GigId: input.GigId, FreelancerId: actorId(c), Message: input.Message, Price: input.Price,
	}

	bid, err := h.bidService.CreateBid(c.Request().Context(), model)
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusCreated, "Bid submitted successfully", bid); e != nil {
		return e
	}

	return nil
}

// /bids/my
func (h *bidRoutesHandler) GetMyBids(c echo.Context) error {
	bids, err := h.bidService.GetMyBids(c.Request().Context(), actorId(c))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", bids); e != nil {
		return e
	}

	return nil
}

// /bids/:gigId
func (h *bidRoutesHandler) GetGigBids(c echo.Context) error {
	bids, err := h.bidService.GetBidsForGig(c.Request().Context(), c.Param("gigId"), actorId(c))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "", bids); e != nil {
		return e
	}

	return nil
}

// /bids/:bidId/hire
func (h *bidRoutesHandler) HireBid(c echo.Context) error {
	result, err := h.bidService.HireBid(c.Request().Context(), c.Param("bidId"), actorId(c))
	if err != nil {
		return respondError(c, err)
	}

	if e := respondOK(c, http.StatusOK, "Freelancer hired successfully", result); e != nil {
		return e
	}

	return nil
}
