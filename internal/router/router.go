package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/campus-space-booking/internal/handler"
	"github.com/iliyamo/campus-space-booking/internal/middleware"
	"github.com/iliyamo/campus-space-booking/internal/model"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check, used by load balancers to
// verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication surface.  Unauthenticated
// operations live under /v1/auth; the rate limiter guards them
// against credential stuffing.  /v1/me requires a valid token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth")
	if limiter != nil {
		g.Use(limiter)
	}
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotating refresh: invalidates the old token, returns a new pair.
	g.POST("/refresh", a.Refresh)
	// Non-rotating refresh: new access token, same refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout works with either a bearer token (revoke all sessions) or
	// a refresh_token body (revoke one), so no JWT middleware here.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterReservations registers the requester-facing endpoints.
// Both roles may file and inspect reservations; ownership checks
// inside the handlers keep requesters out of each other's rows.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group("/v1/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleRequester, model.RoleReviewer))
	g.POST("", h.Create)
	g.GET("", h.ListMine)
	g.GET("/:id", h.Get)
	g.POST("/:id/cancel", h.Cancel)
}

// RegisterReview registers the reviewer queue.  Every route requires
// the REVIEWER role.
func RegisterReview(e *echo.Echo, h *handler.ReviewHandler, jwtSecret string) {
	g := e.Group("/v1/review/reservations")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleReviewer))
	g.GET("", h.List)
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
	g.POST("/:id/cancel", h.Cancel)
}

// RegisterPublic registers unauthenticated browse endpoints: the
// organization list for the intake form and the approved-event
// calendar.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/organizations", p.ListOrganizations)
	e.GET("/v1/events", p.ListEvents)
	e.GET("/v1/events/:id", p.GetEvent)
}

// RegisterRooms registers read-only room listings for any
// authenticated user.
func RegisterRooms(e *echo.Echo, h *handler.RoomHandler, jwtSecret string) {
	g := e.Group("/v1/rooms")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
}
