// Package handler implements the HTTP endpoints. Handlers bind request
// DTOs, call into the service layer and translate typed failures into
// status codes: validation and duplicates map to 400, bad credentials to
// 401, access-code and ownership failures to 403, store errors to 500.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/model"
	"github.com/iliyamo/charity-donation-platform/internal/queue"
	"github.com/iliyamo/charity-donation-platform/internal/repository"
	"github.com/iliyamo/charity-donation-platform/internal/service"
	"github.com/iliyamo/charity-donation-platform/internal/storage"
)

// AuthHandler bundles dependencies for the signup and login endpoints.
type AuthHandler struct {
	Provision *service.Provisioner
	Sessions  *service.SessionIssuer
	Accounts  *repository.AccountRepo
	Files     *storage.LocalStore
}

func NewAuthHandler(p *service.Provisioner, s *service.SessionIssuer, a *repository.AccountRepo, f *storage.LocalStore) *AuthHandler {
	return &AuthHandler{Provision: p, Sessions: s, Accounts: a, Files: f}
}

// ----- DTOs -----

type donorSignupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	PANCard  string `json:"pan_card"`
}

type adminSignupReq struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	AccessCode       string `json:"access_code"`
	TwoFactorEnabled bool   `json:"two_factor_enabled"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userPart struct {
	ID      uint64         `json:"id"`
	Email   string         `json:"email"`
	Role    string         `json:"role"`
	Profile map[string]any `json:"profile"`
}

type authResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
	User    userPart  `json:"user"`
}

// SignupDonor registers a donor account and returns a session token.
func (h *AuthHandler) SignupDonor(c echo.Context) error {
	var req donorSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.register(c, service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Profile: model.Profile{
			Role: model.RoleDonor,
			Donor: &model.DonorProfile{
				FullName: req.FullName,
				Phone:    req.Phone,
				PANCard:  req.PANCard,
			},
		},
	})
}

// SignupNGO registers an NGO account. The request is multipart so the
// registration certificate can be attached; only the stored reference ends
// up on the profile row.
func (h *AuthHandler) SignupNGO(c echo.Context) error {
	certURL, err := h.saveOptionalFile(c, "certificate", storage.DocumentTypes)
	if err != nil {
		return writeUploadErr(c, err)
	}
	return h.register(c, service.RegisterInput{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Profile: model.Profile{
			Role: model.RoleNGO,
			NGO: &model.NGOProfile{
				OrgName:            c.FormValue("org_name"),
				Phone:              c.FormValue("phone"),
				State:              c.FormValue("state"),
				City:               c.FormValue("city"),
				Website:            c.FormValue("website"),
				RegistrationNumber: c.FormValue("registration_number"),
				CertificateURL:     certURL,
				PANTAN:             c.FormValue("pan_tan"),
			},
		},
	})
}

// SignupCampaigner registers a campaigner account; the government ID
// document may be attached as multipart.
func (h *AuthHandler) SignupCampaigner(c echo.Context) error {
	govtIDURL, err := h.saveOptionalFile(c, "govt_id", storage.DocumentTypes)
	if err != nil {
		return writeUploadErr(c, err)
	}
	return h.register(c, service.RegisterInput{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Profile: model.Profile{
			Role: model.RoleCampaigner,
			Campaigner: &model.CampaignerProfile{
				FullName:  c.FormValue("full_name"),
				Phone:     c.FormValue("phone"),
				City:      c.FormValue("city"),
				State:     c.FormValue("state"),
				PANNumber: c.FormValue("pan_number"),
				IDType:    c.FormValue("id_type"),
				GovtIDURL: govtIDURL,
			},
		},
	})
}

// SignupAdmin registers an admin account. The access code is checked
// against the out-of-band provisioning secret before anything persists.
func (h *AuthHandler) SignupAdmin(c echo.Context) error {
	var req adminSignupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.register(c, service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		AccessCode: req.AccessCode,
		Profile: model.Profile{
			Role: model.RoleAdmin,
			Admin: &model.AdminProfile{
				AccessCode:       req.AccessCode,
				TwoFactorEnabled: req.TwoFactorEnabled,
			},
		},
	})
}

func (h *AuthHandler) register(c echo.Context, in service.RegisterInput) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Provision.Register(ctx, in)
	if err != nil {
		return writeAuthErr(c, err)
	}
	sess, err := h.Sessions.Issue(res.Account, res.Profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}

	_ = queue.PublishSignupCompleted(context.Background(), queue.SignupCompletedEvent{
		AccountID:  res.Account.ID,
		Email:      res.Account.Email,
		Role:       string(res.Account.Role),
		SignedUpAt: res.Account.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, sessionResp(sess))
}

// Login authenticates with email, password and role. The role scopes the
// account lookup so the same email cannot be logged into across roles.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Authenticate(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		return writeAuthErr(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(sess))
}

// Signin is the legacy email-only login: the stored role decides which
// profile is loaded.
func (h *AuthHandler) Signin(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	sess, err := h.Sessions.Authenticate(ctx, req.Email, req.Password, "")
	if err != nil {
		return writeAuthErr(c, err)
	}
	return c.JSON(http.StatusOK, sessionResp(sess))
}

// ListDonors returns the donor directory, newest signup first. Admin only.
func (h *AuthHandler) ListDonors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	donors, err := h.Accounts.ListDonors(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list donors failed"})
	}
	return c.JSON(http.StatusOK, donors)
}

func (h *AuthHandler) saveOptionalFile(c echo.Context, field string, allowed map[string]bool) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// Absent attachment is fine; the reference stays empty.
		return "", nil
	}
	return h.Files.Save(fh, field, allowed)
}

func sessionResp(sess service.Session) authResp {
	return authResp{
		Token:   sess.Token,
		Expires: sess.Exp,
		User: userPart{
			ID:      sess.Account.ID,
			Email:   sess.Account.Email,
			Role:    string(sess.Account.Role),
			Profile: sess.Profile.Snapshot(),
		},
	}
}

func writeAuthErr(c echo.Context, err error) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error()})
	case errors.Is(err, repository.ErrEmailTaken):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists with this email"})
	case errors.Is(err, service.ErrAccessCode):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid access code"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "server error"})
	}
}

func writeUploadErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file too large"})
	case errors.Is(err, storage.ErrBadType):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file type not allowed"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
}
