package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/logger"
	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/repository"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
)

var testImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG"))

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.NewSQLiteDB(t)
	store := repository.NewGormStore(db)
	log := logger.Discard()
	query := service.NewQueryEngine(store)
	auth := service.NewAuthService(store, "test-secret", time.Hour, nil, log)

	deps := Dependencies{
		DB:            db,
		Auth:          auth,
		Recipes:       service.NewRecipeService(store, service.NewLocalImageStore(t.TempDir()), metrics.Nop{}, log),
		Subscriptions: service.NewSubscriptionService(store, query, metrics.Nop{}, log),
		Memberships:   service.NewMembershipService(store, metrics.Nop{}, log),
		Catalog:       service.NewCatalogService(store),
		ShoppingList:  service.NewShoppingListService(query, metrics.Nop{}),
		Query:         query,
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.ErrorHandler(log))
	RegisterRoutes(router, deps)

	return &testAPI{t: t, db: db, router: router, auth: auth}
}

// token returns an Authorization header value for user
func (a *testAPI) token(user *models.User) string {
	a.t.Helper()
	token, err := a.auth.GenerateToken(user)
	require.NoError(a.t, err)
	return "Token " + token
}

func (a *testAPI) do(method, path, auth string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}


