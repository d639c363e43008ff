package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shopmaster/storefront/internal/activity"
	"github.com/shopmaster/storefront/internal/auth"
	"github.com/shopmaster/storefront/internal/events"
	"github.com/shopmaster/storefront/internal/models"
	"github.com/shopmaster/storefront/internal/service"
)

var (
	testJWTSecret      = []byte("test-jwt-secret")
	testProviderSecret = []byte("test-provider-secret")
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
	O  *OrderHandler
	U  *UserHandler
	Ad *AdminHandler

	Recorder *activity.Recorder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.ActivityLog{},
	))

	producer := events.NewProducer(nil)
	recorder := &activity.Recorder{DB: db, Producer: producer}
	users := &service.UserService{DB: db, Policy: auth.AllowlistPolicy("admin@example.com")}

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		A: &AuthHandler{
			Users:          users,
			Recorder:       recorder,
			Producer:       producer,
			JWTSecret:      testJWTSecret,
			ProviderSecret: testProviderSecret,
		},
		P:        &ProductHandler{Svc: &service.ProductService{DB: db}, Producer: producer},
		O:        &OrderHandler{Svc: &service.OrderService{DB: db}, Recorder: recorder, Producer: producer},
		U:        &UserHandler{Svc: users, Recorder: recorder},
		Ad:       &AdminHandler{Recorder: recorder},
		Recorder: recorder,
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createUser(email, role string) models.User {
	env.T.Helper()
	user := models.User{Email: email, Name: "Test User", Role: role}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createProduct(name, price string, stock uint) models.Product {
	env.T.Helper()
	p := models.Product{
		Name:        name,
		Description: "test description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	require.NoError(env.T, env.DB.Create(&p).Error)
	return p
}

func providerToken(t *testing.T, email, name string) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"name":  name,
	}).SignedString(testProviderSecret)
	require.NoError(t, err)
	return raw
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
}
