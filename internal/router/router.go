// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/charity-donation-platform/internal/handler"
	"github.com/iliyamo/charity-donation-platform/internal/middleware"
	"github.com/iliyamo/charity-donation-platform/internal/model"
)

// Deps carries everything the routes need.
type Deps struct {
	Auth      *handler.AuthHandler
	Admin     *handler.AdminHandler
	Campaigns *handler.CampaignHandler
	Donations *handler.DonationHandler
	JWTSecret string
	RateLimit echo.MiddlewareFunc // nil disables
	Cache     echo.MiddlewareFunc // nil disables
	UploadDir string
}

// Register mounts every route on the Echo instance. Signup and login live
// under /v1/auth behind the rate limiter; campaign mutation and donations
// require a session token; the public campaign reads sit behind the
// response cache.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	e.Static("/uploads", d.UploadDir)

	auth := e.Group("/v1/auth")
	if d.RateLimit != nil {
		auth.Use(d.RateLimit)
	}
	auth.POST("/signup/donor", d.Auth.SignupDonor)
	auth.POST("/signup/ngo", d.Auth.SignupNGO)
	auth.POST("/signup/campaigner", d.Auth.SignupCampaigner)
	auth.POST("/signup/admin", d.Auth.SignupAdmin)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/signin", d.Auth.Signin)

	jwtAuth := middleware.JWTAuth(d.JWTSecret)

	adminOnly := e.Group("/v1", jwtAuth, middleware.RequireRole(string(model.RoleAdmin)))
	adminOnly.GET("/auth/donors", d.Auth.ListDonors)
	adminOnly.PATCH("/ngos/:id/approval", d.Admin.SetNGOApproval)
	adminOnly.PATCH("/campaigners/:id/approval", d.Admin.SetCampaignerApproval)

	// Public campaign reads, cached when Redis is up.
	public := e.Group("/v1")
	if d.Cache != nil {
		public.Use(d.Cache)
	}
	public.GET("/campaigns", d.Campaigns.List)
	public.GET("/campaigns/:id", d.Campaigns.Get)

	organizers := e.Group("/v1", jwtAuth,
		middleware.RequireRole(string(model.RoleNGO), string(model.RoleCampaigner)))
	organizers.POST("/campaigns", d.Campaigns.Create)
	organizers.PUT("/campaigns/:id", d.Campaigns.Update)
	organizers.DELETE("/campaigns/:id", d.Campaigns.Delete)

	donors := e.Group("/v1", jwtAuth, middleware.RequireRole(string(model.RoleDonor)))
	donors.POST("/campaigns/:id/donations", d.Donations.Donate)
}
