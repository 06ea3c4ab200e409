package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"tourbook/src/cart"
	"tourbook/src/lib"
	"tourbook/src/models"
	"tourbook/src/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct{}

func (fakeAuth) Login(ctx context.Context, identifier, password string) (string, *models.UserRecord, error) {
	roles := []string{"authenticated"}
	if identifier == "admin" {
		roles = append(roles, "admin")
	}
	return "opaque-" + identifier, &models.UserRecord{ID: 7, Username: identifier, Roles: roles}, nil
}

func (fakeAuth) Me(ctx context.Context, token string) (*models.UserRecord, error) {
	return nil, nil
}

func setup(t *testing.T) (*gin.Engine, *session.Registry) {
	gin.SetMode(gin.TestMode)
	slot := lib.NewMemorySlot()
	reg := session.NewRegistry(slot, fakeAuth{})
	r := gin.New()
	r.Use(RequestID, SecureHeaders, Sessions(reg, cart.NewRegistry(slot)))
	r.GET("/open", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"cart": GetCart(ctx) != nil})
	})
	r.GET("/private", RequireAuth, func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"user": ctx.GetString("username")})
	})
	r.GET("/admin", RequireAdmin, func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})
	return r, reg
}

func get(r http.Handler, path, sessionID string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSessionsIssueID(t *testing.T) {
	r, reg := setup(t)
	w := get(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	id := w.Header().Get(SessionHeader)
	assert.True(t, session.ValidID(id))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = get(r, "/open", id)
	assert.Equal(t, id, w.Header().Get(SessionHeader))
	assert.Equal(t, 1, reg.Len())

	w = get(r, "/open", "not-a-uuid")
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(SessionHeader))
}

func TestRequireAuthAndAdmin(t *testing.T) {
	r, reg := setup(t)
	id := session.NewID()

	w := get(r, "/private", id)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"please login"}`, w.Body.String())

	store, err := reg.Get(context.Background(), id)
	require.NoError(t, err)
	_, err = store.Login(context.Background(), "ann", "secret")
	require.NoError(t, err)

	w = get(r, "/private", id)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"ann"}`, w.Body.String())
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", id).Code)

	adminID := session.NewID()
	store, err = reg.Get(context.Background(), adminID)
	require.NoError(t, err)
	_, err = store.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", adminID).Code)
}
