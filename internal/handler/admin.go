package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/repository"
)

// AdminHandler exposes the approval mutators for NGO and campaigner
// profiles. The review process itself happens elsewhere; this is the
// interface point that flips the flag.
type AdminHandler struct {
	Profiles *repository.ProfileRepo
}

func NewAdminHandler(profiles *repository.ProfileRepo) *AdminHandler {
	return &AdminHandler{Profiles: profiles}
}

type approvalReq struct {
	Approved bool `json:"approved"`
}

// SetNGOApproval updates the approval flag on an NGO profile.
func (h *AdminHandler) SetNGOApproval(c echo.Context) error {
	return h.setApproval(c, h.Profiles.UpdateNGOApproval)
}

// SetCampaignerApproval updates the approval flag on a campaigner profile.
func (h *AdminHandler) SetCampaignerApproval(c echo.Context) error {
	return h.setApproval(c, h.Profiles.UpdateCampaignerApproval)
}

func (h *AdminHandler) setApproval(c echo.Context, update func(context.Context, uint64, bool) error) error {
	accountID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid account id"})
	}
	var req approvalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := update(ctx, accountID, req.Approved); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "profile not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update approval failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"approved": req.Approved})
}
