package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shifacare/medstore-api/internal/application/service"
	"github.com/shifacare/medstore-api/internal/domain/enum"
	"github.com/shifacare/medstore-api/internal/domain/repository"
	"github.com/shifacare/medstore-api/internal/presentation/http/dto/response"
)

// DonationHandler handles donation-related HTTP requests
type DonationHandler struct {
	donationService *service.DonationService
}

// NewDonationHandler creates a new donation handler
func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreateDonation handles POST /donations
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	var input service.CreateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.RecordedBy = GetUserEmail(c)

	donation, err := h.donationService.CreateDonation(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Donation recorded successfully", donation)
}

// ListDonations handles GET /donations
func (h *DonationHandler) ListDonations(c *gin.Context) {
	params := &repository.DonationFilterParams{
		Pagination: bindPagination(c),
		Search:     c.Query("search"),
	}

	if kindStr := c.Query("kind"); kindStr != "" {
		kind := enum.DonationKind(kindStr)
		if !kind.Valid() {
			response.BadRequest(c, "Invalid donation kind")
			return
		}
		params.Kind = &kind
	}

	if monthStr := c.Query("month"); monthStr != "" {
		month, err := time.Parse("2006-01", monthStr)
		if err != nil {
			response.BadRequest(c, "Invalid month, expected YYYY-MM")
			return
		}
		params.Month = &month
	}

	result, err := h.donationService.ListDonations(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Donations retrieved successfully", result)
}

// GetDonation handles GET /donations/:id
func (h *DonationHandler) GetDonation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID")
		return
	}

	donation, err := h.donationService.GetDonation(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Donation retrieved successfully", donation)
}

// UpdateDonation handles PUT /donations/:id
func (h *DonationHandler) UpdateDonation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID")
		return
	}

	var input service.UpdateDonationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	input.ID = id

	donation, err := h.donationService.UpdateDonation(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Donation updated successfully", donation)
}

// DeleteDonation handles DELETE /donations/:id
func (h *DonationHandler) DeleteDonation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid donation ID")
		return
	}

	if err := h.donationService.DeleteDonation(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Donation deleted successfully", nil)
}
