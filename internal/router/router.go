package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/dog-daycare-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/dog-daycare-reservation/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Load balancers and monitoring systems use this endpoint to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware. Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token; refresh-access issues a new
	// access token without rotating.
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts either a refresh_token body or a bearer token and
	// does not require the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("OWNER", "ADMIN"))
	auth.GET("/me", a.Me)
}

// RegisterDogs registers the dog registry endpoints. All of them
// require a valid access token; dogs always belong to the caller.
func RegisterDogs(e *echo.Echo, d *handler.DogHandler, jwtSecret string) {
	g := e.Group("/v1/dogs")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER", "ADMIN"))
	g.POST("", d.Create)
	g.GET("", d.ListMine)
	g.GET("/:id", d.Get)
	g.DELETE("/:id", d.Delete)
}

// RegisterBookings registers the booking endpoints. Creation,
// list-mine and deletion require authentication; the list-all,
// by-day and range reads are public by design and may additionally be
// wrapped with the Redis response cache passed in cacheMW (pass
// nothing to disable caching).
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, cacheMW ...echo.MiddlewareFunc) {
	// Public read paths. The list-all endpoint deliberately returns
	// every booking without an ownership filter.
	e.GET("/v1/bookings", b.ListAll, cacheMW...)
	e.GET("/v1/bookings/day/:date", b.ListByDay, cacheMW...)
	e.GET("/v1/bookings/range/:start/:end", b.ListRange, cacheMW...)

	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER", "ADMIN"))
	g.POST("", b.Create)
	g.GET("/mine", b.ListMine)
	g.DELETE("/:id", b.Delete)
}
