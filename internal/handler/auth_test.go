package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dog-daycare-reservation/internal/config"
	"github.com/iliyamo/dog-daycare-reservation/internal/handler"
	"github.com/iliyamo/dog-daycare-reservation/internal/model"
)

// recordingUserStore captures the role a registration is persisted
// with.
type recordingUserStore struct {
	createdRole string
}

func (s *recordingUserStore) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	s.createdRole = role
	return 1, nil
}
func (s *recordingUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return model.User{}, nil
}
func (s *recordingUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return model.User{ID: id}, nil
}

type noopTokenStore struct{}

func (noopTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	return nil
}
func (noopTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	return 0, nil
}
func (noopTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error  { return nil }
func (noopTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error { return nil }

// Self-registration always produces an OWNER account, even when the
// request body tries to smuggle in a role.
func TestRegisterIgnoresCallerSuppliedRole(t *testing.T) {
	users := &recordingUserStore{}
	h := handler.NewAuthHandler(config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}, users, noopTokenStore{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		strings.NewReader(`{"email":"eve@example.com","password":"pw","role":"ADMIN"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, h.Register(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, model.RoleOwner, users.createdRole)
	require.NotContains(t, rec.Body.String(), model.RoleAdmin)
}
