package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/queue"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
)

// DonationHandler records donations from authenticated donors.
type DonationHandler struct {
	Donations *repository.DonationRepo
}

func NewDonationHandler(donations *repository.DonationRepo) *DonationHandler {
	return &DonationHandler{Donations: donations}
}

type donateReq struct {
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transaction_id"`
}

// Donate records a donation against an active campaign and bumps its
// raised amount.
func (h *DonationHandler) Donate(c echo.Context) error {
	donorID, _, err := identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	campaignID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}
	var req donateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Donations.Create(ctx, model.Donation{
		DonorID:       donorID,
		CampaignID:    campaignID,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record donation failed"})
	}

	_ = queue.PublishDonationReceived(context.Background(), queue.DonationReceivedEvent{
		DonationID: id,
		CampaignID: campaignID,
		DonorID:    donorID,
		Amount:     req.Amount,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}
