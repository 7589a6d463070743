package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
	"github.com/iliyamo/charity-donation-platform/internal/storage"
)

// CampaignHandler implements campaign CRUD. Creation and mutation are
// restricted to NGO and campaigner accounts; mutation additionally to the
// owning organizer.
type CampaignHandler struct {
	Campaigns *repository.CampaignRepo
	Files     *storage.LocalStore
}

func NewCampaignHandler(campaigns *repository.CampaignRepo, files *storage.LocalStore) *CampaignHandler {
	return &CampaignHandler{Campaigns: campaigns, Files: files}
}

type campaignResp struct {
	ID            uint64  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	TargetAmount  float64 `json:"target_amount"`
	RaisedAmount  float64 `json:"raised_amount"`
	OrganizerID   uint64  `json:"organizer_id"`
	OrganizerRole string  `json:"organizer_role"`
	OrganizerName string  `json:"organizer_name"`
	Category      string  `json:"category"`
	Location      string  `json:"location,omitempty"`
	ImageURL      string  `json:"image_url,omitempty"`
	StartDate     string  `json:"start_date,omitempty"`
	EndDate       string  `json:"end_date,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// Create adds a campaign for the authenticated organizer. Multipart body;
// optional "image" attachment.
func (h *CampaignHandler) Create(c echo.Context) error {
	organizerID, role, err := identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	cp, err := h.bindCampaignForm(c)
	if err != nil {
		return writeUploadErr(c, err)
	}
	if cp.Title == "" || cp.Description == "" || cp.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, description and category required"})
	}
	if cp.TargetAmount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "target_amount must be positive"})
	}
	cp.OrganizerID = organizerID
	cp.OrganizerRole = role

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Campaigns.Create(ctx, cp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create campaign failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List returns all active campaigns. Public; sits behind the response
// cache when Redis is available.
func (h *CampaignHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	campaigns, err := h.Campaigns.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list campaigns failed"})
	}
	out := make([]campaignResp, 0, len(campaigns))
	for _, cp := range campaigns {
		out = append(out, toCampaignResp(cp))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one active campaign by id. Public.
func (h *CampaignHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cp, err := h.Campaigns.GetActive(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "campaign not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch campaign failed"})
	}
	return c.JSON(http.StatusOK, toCampaignResp(cp))
}

// Update rewrites a campaign owned by the caller.
func (h *CampaignHandler) Update(c echo.Context) error {
	organizerID, role, err := identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}

	cp, err := h.bindCampaignForm(c)
	if err != nil {
		return writeUploadErr(c, err)
	}
	cp.ID = id
	cp.OrganizerID = organizerID
	cp.OrganizerRole = role

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Keep the existing image when no new one is attached.
	if cp.ImageURL == "" {
		if existing, err := h.Campaigns.GetActive(ctx, id); err == nil {
			cp.ImageURL = existing.ImageURL
		}
	}

	if err := h.Campaigns.Update(ctx, cp); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your campaign"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update campaign failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "campaign updated"})
}

// Delete soft-deletes a campaign owned by the caller.
func (h *CampaignHandler) Delete(c echo.Context) error {
	organizerID, role, err := identity(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid campaign id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Campaigns.SoftDelete(ctx, id, organizerID, role); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not your campaign"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete campaign failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "campaign deleted"})
}

func (h *CampaignHandler) bindCampaignForm(c echo.Context) (model.Campaign, error) {
	target, _ := strconv.ParseFloat(c.FormValue("target_amount"), 64)
	cp := model.Campaign{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		TargetAmount: target,
		Category:     c.FormValue("category"),
		Location:     c.FormValue("location"),
		StartDate:    c.FormValue("start_date"),
		EndDate:      c.FormValue("end_date"),
	}
	if fh, err := c.FormFile("image"); err == nil {
		url, err := h.Files.Save(fh, "image", storage.ImageTypes)
		if err != nil {
			return model.Campaign{}, err
		}
		cp.ImageURL = url
	}
	return cp, nil
}

func toCampaignResp(cp model.Campaign) campaignResp {
	return campaignResp{
		ID:            cp.ID,
		Title:         cp.Title,
		Description:   cp.Description,
		TargetAmount:  cp.TargetAmount,
		RaisedAmount:  cp.RaisedAmount,
		OrganizerID:   cp.OrganizerID,
		OrganizerRole: string(cp.OrganizerRole),
		OrganizerName: cp.OrganizerName,
		Category:      cp.Category,
		Location:      cp.Location,
		ImageURL:      cp.ImageURL,
		StartDate:     cp.StartDate,
		EndDate:       cp.EndDate,
		CreatedAt:     cp.CreatedAt.UTC().Format(time.RFC3339),
	}
}
