package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/headway-clinic/checkin-api/internal/database"
	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
	"github.com/headway-clinic/checkin-api/internal/utils"
)

// setupTestDB opens a fresh in-memory database with both namespaces
// migrated. The shared-cache name keeps every pooled connection on the
// same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateSchema(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, ns storage.Namespace, role models.Role, firstName, lastName string, clinicianID *string) *models.User {
	t.Helper()

	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)

	user := &models.User{
		ID:                  uuid.NewString(),
		FirstName:           firstName,
		LastName:            lastName,
		Email:               strings.ToLower(firstName + "." + lastName + "." + uuid.NewString()[:8] + "@example.com"),
		PasswordHash:        hash,
		Role:                role,
		AssignedClinicianID: clinicianID,
		MigrationStatus:     models.MigrationNone,
		CreatedAt:           time.Now().UTC(),
	}
	if ns == storage.Archived {
		user.MigrationStatus = models.MigrationArchived
	}
	require.NoError(t, db.Table(ns.Users()).Create(user).Error)
	return user
}

// seedSession stores a session of ten integer answers summing to score + 10.
func seedSession(t *testing.T, db *gorm.DB, ns storage.Namespace, userID string, score int, at time.Time) *models.CheckinSession {
	t.Helper()

	total := score + 10
	base, extra := total/10, total%10
	responses := make(models.SummaryResponses, 10)
	for i := range responses {
		value := base
		if i < extra {
			value++
		}
		// float64 so the stored value round-trips the JSON serializer
		// unchanged; whole numbers are exact either way.
		responses[i] = models.SummaryResponse{
			QuestionID:    fmt.Sprintf("q%d", i+1),
			ResponseValue: float64(value),
		}
	}
	session := &models.CheckinSession{
		ID:               uuid.NewString(),
		UserID:           userID,
		QuestionnaireID:  "core-10",
		Timestamp:        at,
		SummaryResponses: responses,
		CreatedAt:        at,
	}
	require.NoError(t, db.Table(ns.Sessions()).Create(session).Error)
	return session
}

func countRows(t *testing.T, db *gorm.DB, table, userColumn, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where(userColumn+" = ?", userID).Count(&n).Error)
	return n
}

func newTestRepos(db *gorm.DB) (repository.UserRepository, repository.CheckinRepository, repository.DeviceSessionRepository) {
	return repository.NewUserRepository(db), repository.NewCheckinRepository(db), repository.NewDeviceSessionRepository(db)
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
