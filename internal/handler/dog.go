package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dog-daycare-reservation/internal/repository"
)

// DogHandler exposes the dog registry over HTTP. Every route
// requires authentication; dogs are always created under the
// authenticated user and ownership never changes afterwards.
type DogHandler struct {
	Dogs *repository.DogRepo
}

// NewDogHandler constructs a DogHandler.
func NewDogHandler(dogs *repository.DogRepo) *DogHandler {
	if dogs == nil {
		panic("nil repository passed to NewDogHandler")
	}
	return &DogHandler{Dogs: dogs}
}

type createDogReq struct {
	Name  string `json:"name"`
	Breed string `json:"breed"`
}

// Create handles POST /v1/dogs.
func (h *DogHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createDogReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx := c.Request().Context()
	id, err := h.Dogs.Create(ctx, userID, req.Name, req.Breed)
	if err != nil {
		c.Logger().Errorf("create dog failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dog failed"})
	}
	dog, err := h.Dogs.DogByID(ctx, id)
	if err != nil || dog == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create dog failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": dog})
}

// ListMine handles GET /v1/dogs and returns the authenticated user's
// dogs.
func (h *DogHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	dogs, err := h.Dogs.ListByOwner(c.Request().Context(), userID)
	if err != nil {
		c.Logger().Errorf("list dogs failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dogs"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": dogs})
}

// Get handles GET /v1/dogs/:id. Any authenticated user may look up
// any dog; the record carries nothing sensitive beyond the owner id.
func (h *DogHandler) Get(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dog id"})
	}
	dog, err := h.Dogs.DogByID(c.Request().Context(), id)
	if err != nil {
		c.Logger().Errorf("get dog failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dog"})
	}
	if dog == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": dog})
}

// Delete handles DELETE /v1/dogs/:id. Only the owner may delete, and
// only when the dog has no bookings.
func (h *DogHandler) Delete(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid dog id"})
	}
	err = h.Dogs.Delete(c.Request().Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dog not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not authorized to delete this dog"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "dog still has bookings"})
		}
		c.Logger().Errorf("delete dog failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete dog failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
