package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/headway-clinic/checkin-api/internal/database"
	"github.com/headway-clinic/checkin-api/internal/errors"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

const testSecret = "test-secret"

func setupAuthRouter(t *testing.T) (*gin.Engine, repository.DeviceSessionRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateSchema(db))

	deviceRepo := repository.NewDeviceSessionRepository(db)

	r := gin.New()
	r.GET("/probe", RequireAuth(testSecret, deviceRepo), func(c *gin.Context) {
		identity := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": string(identity.Role)})
	})
	r.GET("/staff", RequireAuth(testSecret, deviceRepo), RequireRole(models.RoleClinician, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, deviceRepo
}

func issueToken(t *testing.T, deviceRepo repository.DeviceSessionRepository, userID, role string, ttl time.Duration) (string, string) {
	t.Helper()
	deviceToken := uuid.NewString()
	require.NoError(t, deviceRepo.Create(&models.DeviceSession{
		DeviceToken: deviceToken,
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
	}))
	token, _, err := utils.NewAccessToken(testSecret, userID, role, deviceToken, ttl)
	require.NoError(t, err)
	return token, deviceToken
}

func doRequest(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_AcceptsLiveSession(t *testing.T) {
	r, deviceRepo := setupAuthRouter(t)
	token, _ := issueToken(t, deviceRepo, "user-1", "client", time.Hour)

	w := doRequest(r, "/probe", token)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "user-1", body["user_id"])
	require.Equal(t, "client", body["role"])
}

func TestRequireAuth_RejectsMissingOrMalformedHeader(t *testing.T) {
	r, _ := setupAuthRouter(t)

	w := doRequest(r, "/probe", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_RejectsRevokedSession(t *testing.T) {
	r, deviceRepo := setupAuthRouter(t)
	token, deviceToken := issueToken(t, deviceRepo, "user-1", "client", time.Hour)

	// The token itself is still signed and unexpired; revocation alone
	// must be enough to reject it.
	require.NoError(t, deviceRepo.Delete(deviceToken))

	w := doRequest(r, "/probe", token)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var apiErr errors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	require.Equal(t, errors.ErrCodeSessionRevoked, apiErr.Code)
}

func TestRequireAuth_RejectsBadSignature(t *testing.T) {
	r, deviceRepo := setupAuthRouter(t)
	_, deviceToken := issueToken(t, deviceRepo, "user-1", "client", time.Hour)

	forged, _, err := utils.NewAccessToken("other-secret", "user-1", "client", deviceToken, time.Hour)
	require.NoError(t, err)

	w := doRequest(r, "/probe", forged)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	r, deviceRepo := setupAuthRouter(t)

	clientToken, _ := issueToken(t, deviceRepo, "user-1", "client", time.Hour)
	w := doRequest(r, "/staff", clientToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	staffToken, _ := issueToken(t, deviceRepo, "user-2", "clinician", time.Hour)
	w = doRequest(r, "/staff", staffToken)
	require.Equal(t, http.StatusOK, w.Code)

	unknownToken, _ := issueToken(t, deviceRepo, "user-3", "superuser", time.Hour)
	w = doRequest(r, "/staff", unknownToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}
