package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dog-daycare-reservation/internal/booking"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
	"github.com/iliyamo/dog-daycare-reservation/internal/queue"
	publisher "github.com/iliyamo/dog-daycare-reservation/internal/service"
)

// BookingHandler exposes booking admission and the read paths over
// HTTP. Creation and deletion assume JWT authentication has already
// run; the day/range/list-all reads are public by design and go
// straight to the query service without any ownership filter.
type BookingHandler struct {
	Engine  *booking.Engine       // admission and delete decisions
	Queries *booking.QueryService // read paths
	Dogs    booking.Registry      // dog names for the published event
}

// NewBookingHandler constructs a BookingHandler. All dependencies
// must be non-nil.
func NewBookingHandler(engine *booking.Engine, queries *booking.QueryService, dogs booking.Registry) *BookingHandler {
	if engine == nil || queries == nil || dogs == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Queries: queries, Dogs: dogs}
}

// ----- DTOs -----

type createBookingReq struct {
	DogID uint64 `json:"dog_id"`
	Day   string `json:"day"` // ISO date, e.g. "2025-03-10"
}

type bookingResp struct {
	ID        uint64    `json:"id"`
	DogID     uint64    `json:"dog_id"`
	Day       string    `json:"day"`
	OwnerID   uint64    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		DogID:     b.DogID,
		Day:       booking.FormatDay(b.Day),
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
	}
}

func toBookingResps(bs []model.Booking) []bookingResp {
	out := make([]bookingResp, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBookingResp(b))
	}
	return out
}

// Create handles POST /v1/bookings. The engine runs the full
// admission sequence; this handler only parses input and maps the
// typed rejections onto HTTP statuses. On success a booking.created
// event is published best-effort.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.DogID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dog_id is required"})
	}
	day, err := booking.ParseDay(req.Day)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be an ISO date (YYYY-MM-DD)"})
	}

	ctx := c.Request().Context()
	b, err := h.Engine.Create(ctx, req.DogID, day, userID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrDogNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		case errors.Is(err, booking.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you are not the owner of this dog"})
		case errors.Is(err, booking.ErrPastDay):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be after today"})
		case errors.Is(err, booking.ErrDuplicateBooking):
			return c.JSON(http.StatusConflict, echo.Map{"error": "a booking already exists for this dog on this day"})
		case errors.Is(err, booking.ErrCapacityExhausted):
			return c.JSON(http.StatusConflict, echo.Map{"error": "no daycare capacity left on this day"})
		case errors.Is(err, booking.ErrTxConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking conflicted with a concurrent request, please retry"})
		}
		c.Logger().Errorf("create booking failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	// Best-effort event; failures are logged by the publisher and
	// never fail the request.
	ev := queue.BookingCreatedEvent{
		BookingID: b.ID,
		DogID:     b.DogID,
		OwnerID:   b.OwnerID,
		Day:       booking.FormatDay(b.Day),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
	if dog, derr := h.Dogs.DogByID(ctx, b.DogID); derr == nil && dog != nil {
		ev.DogName = dog.Name
	}
	_ = publisher.PublishBookingCreated(ctx, ev)

	return c.JSON(http.StatusCreated, echo.Map{"data": toBookingResp(*b)})
}

// ListMine handles GET /v1/bookings/mine and returns the bookings
// created by the authenticated user.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Queries.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("list bookings failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toBookingResps(items)})
}

// ListAll handles GET /v1/bookings. The route is public and returns
// every booking unfiltered.
func (h *BookingHandler) ListAll(c echo.Context) error {
	items, err := h.Queries.ListAll(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("list all bookings failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toBookingResps(items)})
}

// ListByDay handles GET /v1/bookings/day/:date and returns the
// bookings for that exact day. An unknown day yields an empty list.
func (h *BookingHandler) ListByDay(c echo.Context) error {
	day, err := booking.ParseDay(c.Param("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be an ISO date (YYYY-MM-DD)"})
	}
	items, err := h.Queries.ListByDay(c.Request().Context(), day)
	if err != nil {
		c.Logger().Errorf("list bookings by day failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toBookingResps(items)})
}

// ListRange handles GET /v1/bookings/range/:start/:end and returns
// the distinct days in the range that have at least one booking, as
// ISO date strings.
func (h *BookingHandler) ListRange(c echo.Context) error {
	start, err := booking.ParseDay(c.Param("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be an ISO date (YYYY-MM-DD)"})
	}
	end, err := booking.ParseDay(c.Param("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must be an ISO date (YYYY-MM-DD)"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end must not be before start"})
	}
	days, err := h.Queries.OccupiedDays(c.Request().Context(), start, end)
	if err != nil {
		c.Logger().Errorf("list occupied days failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, booking.FormatDay(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out})
}

// Delete handles DELETE /v1/bookings/:id. The booking's owner or an
// admin may delete; deleting an id that does not resolve returns 404,
// including on a repeated delete.
func (h *BookingHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	err = h.Engine.Delete(c.Request().Context(), id, userID, getRole(c))
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this booking"})
		}
		c.Logger().Errorf("delete booking failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{}})
}
