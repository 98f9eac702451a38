package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/mocks"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/models"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/router"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/service"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/testhelpers"
)

const (
	adminEmail  = "admin@example.com"
	memberEmail = "cliente@example.com"
)

type testApp struct {
	t        *testing.T
	router   *gin.Engine
	db       *gorm.DB
	uploader *mocks.MockObjectUploader
}

func setupApp(t *testing.T, options ...func(*config.Config)) *testApp {
	gin.SetMode(gin.TestMode)
	logger.Discard()

	db := testhelpers.SetupTestDatabase(t)
	testhelpers.SeedSiteData(t, db)
	testhelpers.CreateTestAdmin(t, db, adminEmail)
	testhelpers.CreateTestUser(t, db, memberEmail)

	cfg := &config.Config{
		JWTSecret:    "router-test-secret-with-enough-bytes",
		FrontendURL:  "http://localhost:5173",
		S3BucketName: "restaurant-images",
	}
	for _, option := range options {
		option(cfg)
	}

	uploader := new(mocks.MockObjectUploader)
	storage := service.NewImageServiceWithUploader(uploader, cfg.S3BucketName)
	email := service.NewEmailService(config.SMTPConfig{})

	deps := &router.Dependencies{
		Config:       cfg,
		DB:           db,
		Auth:         service.NewAuthService(db, cfg.JWTSecret, service.NewMemoryTokenStore(), email, cfg.FrontendURL),
		Roles:        service.NewRoleService(db),
		Reservations: service.NewReservationService(db, email),
		Catalog:      service.NewCatalogService(db, storage),
		Gallery:      service.NewGalleryService(db, storage),
		Settings:     service.NewSettingsService(db),
	}

	return &testApp{t: t, router: router.SetupRouter(deps), db: db, uploader: uploader}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func (a *testApp) signIn(email string) string {
	a.t.Helper()
	rr := a.do(http.MethodPost, "/api/v1/auth/signin", "", map[string]string{
		"email":    email,
		"password": testhelpers.TestPassword,
	})
	require.Equal(a.t, http.StatusOK, rr.Code, rr.Body.String())
	return decode(a.t, rr)["token"].(string)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func reservationBody() map[string]interface{} {
	return map[string]interface{}{
		"name":   "Ana García",
		"email":  "ana@example.com",
		"phone":  "600 123 456",
		"date":   tomorrow(),
		"time":   "21:00",
		"guests": 4,
	}
}

func TestHealth(t *testing.T) {
	app := setupApp(t)
	rr := app.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", decode(t, rr)["status"])
}

func TestPublicReservationSubmission(t *testing.T) {
	app := setupApp(t)

	rr := app.do(http.MethodGet, "/api/v1/reservations/options", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 2, decode(t, rr)["default_guests"])

	invalid := reservationBody()
	invalid["guests"] = 0
	rr = app.do(http.MethodPost, "/api/v1/reservations", "", invalid)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, service.MsgInvalidGuests, decode(t, rr)["error"])

	var count int64
	require.NoError(t, app.db.Model(&models.Reservation{}).Count(&count).Error)
	assert.Zero(t, count)

	body := reservationBody()
	body["status"] = "confirmed"
	rr = app.do(http.MethodPost, "/api/v1/reservations", "", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode(t, rr)
	assert.Equal(t, service.MsgSubmissionSuccess, resp["message"])
	assert.Equal(t, "pending", resp["reservation"].(map[string]interface{})["status"])
}

func TestConsoleAccessStates(t *testing.T) {
	app := setupApp(t)

	rr := app.do(http.MethodGet, "/api/v1/admin/reservations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "/auth", decode(t, rr)["redirect"])

	member := app.signIn(memberEmail)
	rr = app.do(http.MethodGet, "/api/v1/admin/reservations", member, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "/", decode(t, rr)["redirect"])

	rr = app.do(http.MethodGet, "/api/v1/auth/session", member, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "authenticated-non-admin", decode(t, rr)["state"])

	rr = app.do(http.MethodGet, "/api/v1/auth/session", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	session := decode(t, rr)
	assert.Equal(t, "unauthenticated", session["state"])
	assert.Equal(t, "/auth", session["redirect"])

	admin := app.signIn(adminEmail)
	rr = app.do(http.MethodGet, "/api/v1/admin/access", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	access := decode(t, rr)
	assert.Equal(t, "authenticated-admin", access["state"])
	assert.Equal(t, true, access["account"].(map[string]interface{})["is_admin"])

	rr = app.do(http.MethodPost, "/api/v1/auth/signout", admin, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = app.do(http.MethodGet, "/api/v1/admin/access", admin, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSignUpCreatesAccountWithoutConsoleAccess(t *testing.T) {
	app := setupApp(t)

	rr := app.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "nuevo@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "nuevo@example.com", "password": "secreto",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	resp := decode(t, rr)
	assert.Equal(t, false, resp["account"].(map[string]interface{})["is_admin"])

	rr = app.do(http.MethodGet, "/api/v1/admin/access", resp["token"].(string), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = app.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "NUEVO@example.com", "password": "secreto",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestReservationModeration(t *testing.T) {
	app := setupApp(t)
	admin := app.signIn(adminEmail)

	rr := app.do(http.MethodPost, "/api/v1/reservations", "", reservationBody())
	require.Equal(t, http.StatusCreated, rr.Code)
	id := decode(t, rr)["reservation"].(map[string]interface{})["id"].(string)
	path := "/api/v1/admin/reservations/" + id

	rr = app.do(http.MethodPatch, path+"/status", admin, map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, []interface{}{"completed"}, decode(t, rr)["allowed_transitions"])

	rr = app.do(http.MethodPatch, path+"/status", admin, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = app.do(http.MethodGet, "/api/v1/admin/reservations?status=confirmed", admin, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["reservations"], 1)

	rr = app.do(http.MethodDelete, path, admin, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	rr = app.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusOK, rr.Code, "unconfirmed delete must not remove the row")

	rr = app.do(http.MethodDelete, path+"?confirm=true", admin, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = app.do(http.MethodGet, path, admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategoryDeleteCascadesThroughAPI(t *testing.T) {
	app := setupApp(t)
	admin := app.signIn(adminEmail)

	for _, name := range []string{"Horchata", "Café"} {
		rr := app.do(http.MethodPost, "/api/v1/admin/items", admin, map[string]interface{}{
			"category": "bebidas", "name": name, "price": 2.5,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	rr := app.do(http.MethodPost, "/api/v1/admin/items", admin, map[string]interface{}{
		"category": "postres", "name": "Flan",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = app.do(http.MethodGet, "/api/v1/menu", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["categories"], 2)

	var drinks models.MenuCategory
	require.NoError(t, app.db.Where("slug = ?", "bebidas").First(&drinks).Error)

	rr = app.do(http.MethodDelete, "/api/v1/admin/categories/"+drinks.ID.String()+"?confirm=true", admin, nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	var remaining int64
	require.NoError(t, app.db.Model(&models.MenuItem{}).Where("category = ?", "bebidas").Count(&remaining).Error)
	assert.Zero(t, remaining)

	rr = app.do(http.MethodGet, "/api/v1/menu", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	menu := decode(t, rr)["categories"].([]interface{})
	require.Len(t, menu, 1)
	assert.Equal(t, "postres", menu[0].(map[string]interface{})["slug"])
}

func TestSettingsThroughAPI(t *testing.T) {
	app := setupApp(t)
	admin := app.signIn(adminEmail)

	rr := app.do(http.MethodPut, "/api/v1/admin/settings", admin, map[string]interface{}{
		"values": map[string]string{"phone": "+34 911 222 333", "twitter": "@x"},
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = app.do(http.MethodPut, "/api/v1/admin/settings", admin, map[string]interface{}{
		"values": map[string]string{"phone": "+34 911 222 333"},
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = app.do(http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "+34 911 222 333", decode(t, rr)["settings"].(map[string]interface{})["phone"])
}

func TestGalleryUploadThroughAPI(t *testing.T) {
	app := setupApp(t)
	admin := app.signIn(adminEmail)

	upload := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		part, err := writer.CreateFormFile("file", "terraza.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
		require.NoError(t, err)
		require.NoError(t, writer.WriteField("alt_text", "Terraza"))
		require.NoError(t, writer.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/gallery/upload", &buf)
		req.Header.Set("Content-Type", writer.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+admin)
		rr := httptest.NewRecorder()
		app.router.ServeHTTP(rr, req)
		return rr
	}

	app.uploader.On("PutObject", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("access denied")).Once()
	rr := upload()
	assert.Equal(t, http.StatusBadGateway, rr.Code)

	rr = app.do(http.MethodGet, "/api/v1/gallery", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode(t, rr)["images"])

	app.uploader.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil).Once()
	rr = upload()
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	image := decode(t, rr)
	assert.Regexp(t, `^https://restaurant-images\.s3\.amazonaws\.com/gallery-.+\.png$`, image["image_url"])
	assert.Equal(t, "Terraza", image["alt_text"])

	rr = app.do(http.MethodGet, "/api/v1/gallery", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode(t, rr)["images"], 1)
	app.uploader.AssertExpectations(t)
}

func (a *testApp) submitFrom(forwardedFor string) int {
	a.t.Helper()
	raw, err := json.Marshal(reservationBody())
	require.NoError(a.t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.RemoteAddr = "10.0.0.1:52000"
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr.Code
}

func TestReservationLimitIgnoresSpoofedForwardingHeaders(t *testing.T) {
	app := setupApp(t)

	accepted := 0
	for i := 0; i < 15; i++ {
		if app.submitFrom(fmt.Sprintf("203.0.113.%d", i+1)) == http.StatusCreated {
			accepted++
		}
	}
	assert.Equal(t, 10, accepted, "one socket address shares one bucket")
	assert.Equal(t, http.StatusTooManyRequests, app.submitFrom("198.51.100.7"))
}

func TestReservationLimitHonoursTrustedProxy(t *testing.T) {
	app := setupApp(t, func(cfg *config.Config) {
		cfg.TrustedProxies = []string{"10.0.0.1"}
	})

	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusCreated, app.submitFrom("203.0.113.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, app.submitFrom("203.0.113.1"))
	assert.Equal(t, http.StatusCreated, app.submitFrom("203.0.113.2"), "clients behind the proxy are limited separately")
}
