package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go-disaster-management/config"
	"go-disaster-management/internal/delivery/http/handler"
	"go-disaster-management/internal/delivery/http/middleware"
	"go-disaster-management/internal/domain/entity"
	"go-disaster-management/internal/infrastructure/database"
	"go-disaster-management/internal/infrastructure/oauth"
	"go-disaster-management/internal/repository"
	"go-disaster-management/internal/usecase"
	"go-disaster-management/pkg/jwt"
	"go-disaster-management/pkg/mailer"
	"go-disaster-management/pkg/validator"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestRouter wires the full stack against in-memory storage. It returns
// the directory signup documents are written to so tests can inspect it.
func newTestRouter(t *testing.T) (*mux.Router, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})
	customValidator := validator.NewValidator()
	mail := mailer.NewLogMailer(log)
	google := oauth.NewGoogleProvider(config.OAuthConfig{})

	userRepo := repository.NewUserRepository()
	friendshipRepo := repository.NewFriendshipRepository()
	districtRepo := repository.NewDistrictRepository()
	shelterRepo := repository.NewShelterRepository()
	reviewRepo := repository.NewShelterReviewRepository()
	disasterRepo := repository.NewDisasterRepository()

	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, districtRepo, jwtService, client, mail, "http://localhost:3000")
	districtUsecase := usecase.NewDistrictUsecase(db, log, districtRepo, shelterRepo)
	shelterUsecase := usecase.NewShelterUsecase(db, log, shelterRepo, districtRepo, reviewRepo)
	reviewUsecase := usecase.NewShelterReviewUsecase(db, log, reviewRepo)
	disasterUsecase := usecase.NewDisasterUsecase(db, log, disasterRepo)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, friendshipRepo)

	uploadDir := t.TempDir()
	router := NewRouter(
		handler.NewAuthHandler(authUsecase, customValidator, jwtService, google, log, uploadDir, "http://localhost:3000"),
		handler.NewDistrictHandler(districtUsecase, customValidator),
		handler.NewShelterHandler(shelterUsecase, customValidator),
		handler.NewShelterReviewHandler(reviewUsecase, customValidator),
		handler.NewDisasterHandler(disasterUsecase, customValidator),
		handler.NewUserHandler(userUsecase, customValidator),
		middleware.NewAuthMiddleware(jwtService, client),
		middleware.NewCORSMiddleware(""),
		middleware.NewRateLimitMiddleware(client, config.RateLimitConfig{Requests: 100, Window: 15 * time.Minute}, log),
	)
	return router.Setup(), db, uploadDir
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func signupMultipart(t *testing.T, router *mux.Router, role, email, districtID string, withDocument bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("email", email))
	require.NoError(t, form.WriteField("password", "secret123"))
	require.NoError(t, form.WriteField("name", "Test Account"))
	require.NoError(t, form.WriteField("role", role))
	if districtID != "" {
		require.NoError(t, form.WriteField("district_id", districtID))
	}
	if withDocument {
		fw, err := form.CreateFormFile("document", "permit.pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte("%PDF-1.4 test"))
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginToken(t *testing.T, router *mux.Router, email string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestAuthoritySignupToShelterFlow(t *testing.T) {
	router, db, _ := newTestRouter(t)

	district := &entity.District{Name: "North", TotalFood: 100, TotalWater: 100, TotalMedicine: 100}
	require.NoError(t, db.Create(district).Error)

	rec := signupMultipart(t, router, entity.RoleAuthority, "authority@example.com", district.ID.String(), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	token := loginToken(t, router, "authority@example.com")

	rec = doJSON(t, router, http.MethodPost, "/shelters/create", token, map[string]interface{}{
		"name":        "Camp A",
		"lat":         -6.2,
		"lng":         106.8,
		"district_id": district.ID.String(),
		"food":        40,
		"water":       30,
		"medicine":    10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/shelters/allWithRatings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data struct {
		Shelters []struct {
			Name          string  `json:"name"`
			AverageRating float64 `json:"averageRating"`
			ReviewCount   int64   `json:"reviewCount"`
		} `json:"shelters"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, 1, data.Total)
	assert.Equal(t, "Camp A", data.Shelters[0].Name)
	assert.Zero(t, data.Shelters[0].AverageRating, "no reviews yet")
	assert.Zero(t, data.Shelters[0].ReviewCount)
}

func TestAuthoritySignupWithoutDocumentRejected(t *testing.T) {
	router, db, _ := newTestRouter(t)

	district := &entity.District{Name: "North"}
	require.NoError(t, db.Create(district).Error)

	rec := signupMultipart(t, router, entity.RoleAuthority, "authority@example.com", district.ID.String(), false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShelterMutationForbiddenForPlainUsers(t *testing.T) {
	router, db, _ := newTestRouter(t)

	district := &entity.District{Name: "North", TotalFood: 100}
	require.NoError(t, db.Create(district).Error)

	rec := signupMultipart(t, router, entity.RoleUser, "user@example.com", "", false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := loginToken(t, router, "user@example.com")

	rec = doJSON(t, router, http.MethodPost, "/shelters/create", token, map[string]interface{}{
		"name":        "Camp A",
		"district_id": district.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Reads stay open to any authenticated identity.
	rec = doJSON(t, router, http.MethodGet, "/shelters/all", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRequireAuthentication(t *testing.T) {
	router, _, _ := newTestRouter(t)

	for _, path := range []string{"/shelters/all", "/district/all", "/user/all", "/disasters/all"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestHealthCheckIsPublic(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaleBulkSaveConflict(t *testing.T) {
	router, db, _ := newTestRouter(t)

	district := &entity.District{Name: "North", TotalFood: 100, TotalWater: 100, TotalMedicine: 100}
	require.NoError(t, db.Create(district).Error)

	rec := signupMultipart(t, router, entity.RoleAdmin, "admin@example.com", "", false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := loginToken(t, router, "admin@example.com")

	save := func(baseRevision int64) *httptest.ResponseRecorder {
		return doJSON(t, router, http.MethodPost, "/shelters/all", token, map[string]interface{}{
			"base_revision": baseRevision,
			"shelters": []map[string]interface{}{
				{"name": fmt.Sprintf("Camp rev %d", baseRevision), "district_id": district.ID.String(), "food": 10},
			},
		})
	}

	require.Equal(t, http.StatusOK, save(0).Code)
	assert.Equal(t, http.StatusConflict, save(0).Code, "same base revision twice is a stale write")
	assert.Equal(t, http.StatusOK, save(1).Code)
}

func TestFailedSignupRemovesUploadedDocument(t *testing.T) {
	router, db, uploadDir := newTestRouter(t)

	district := &entity.District{Name: "North"}
	require.NoError(t, db.Create(district).Error)

	rec := signupMultipart(t, router, entity.RoleAuthority, "authority@example.com", district.ID.String(), true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Duplicate email: the account is rejected, so the document stored ahead
	// of registration must be cleaned up.
	rec = signupMultipart(t, router, entity.RoleAuthority, "authority@example.com", district.ID.String(), true)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the successful signup's document remains")
}

func TestDisasterSeverityDefaultsWhenOmitted(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := signupMultipart(t, router, entity.RoleAdmin, "admin@example.com", "", false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := loginToken(t, router, "admin@example.com")

	rec = doJSON(t, router, http.MethodPost, "/disasters/all", token, map[string]interface{}{
		"disasters": []map[string]interface{}{
			{"title": "River flood", "type": "flood", "occurred_at": "2025-11-02"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var data struct {
		Disasters []struct {
			Severity int `json:"severity"`
		} `json:"disasters"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Disasters, 1)
	assert.Equal(t, 1, data.Disasters[0].Severity)
}
