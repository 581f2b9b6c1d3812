package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/storage"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) (*AuthService, *InviteService) {
	t.Helper()
	userRepo, _, deviceRepo := newTestRepos(db)
	inviteRepo := repository.NewInviteRepository(db)
	auth := NewAuthService(userRepo, inviteRepo, deviceRepo, "test-secret", 48*time.Hour, testLogger())
	return auth, NewInviteService(inviteRepo)
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)

	user, err := auth.Register(RegisterInput{
		FirstName:           "  maria ",
		LastName:            "SANTOS",
		Email:               "Maria.Santos@Example.com",
		Password:            "secret1",
		Role:                models.RoleClient,
		AssignedClinicianID: clinician.ID,
	})
	require.NoError(t, err)
	require.Equal(t, "Maria", user.FirstName)
	require.Equal(t, "Santos", user.LastName)
	require.Equal(t, "maria.santos@example.com", user.Email)
	require.NotNil(t, user.AssignedClinicianID)

	result, err := auth.Login(LoginInput{Email: "MARIA.SANTOS@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.DeviceToken)
	require.True(t, result.ExpiresAt.After(time.Now()))

	_, err = auth.Login(LoginInput{Email: "maria.santos@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)

	base := RegisterInput{
		FirstName:           "Maria",
		LastName:            "Santos",
		Email:               "maria@example.com",
		Password:            "secret1",
		Role:                models.RoleClient,
		AssignedClinicianID: clinician.ID,
	}

	missing := base
	missing.Email = ""
	_, err := auth.Register(missing)
	require.ErrorIs(t, err, ErrMissingFields)

	short := base
	short.Password = "a1"
	_, err = auth.Register(short)
	require.ErrorIs(t, err, ErrWeakPassword)

	plain := base
	plain.Password = "letters"
	_, err = auth.Register(plain)
	require.ErrorIs(t, err, ErrWeakPassword)

	badRole := base
	badRole.Role = "superuser"
	_, err = auth.Register(badRole)
	require.ErrorIs(t, err, ErrInvalidRole)

	noClinician := base
	noClinician.AssignedClinicianID = ""
	_, err = auth.Register(noClinician)
	require.ErrorIs(t, err, ErrClinicianRequired)

	_, err = auth.Register(base)
	require.NoError(t, err)
	_, err = auth.Register(base)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_InviteFlow(t *testing.T) {
	db := setupTestDB(t)
	auth, invites := newAuthService(t, db)

	input := RegisterInput{
		FirstName: "Dana",
		LastName:  "Reyes",
		Email:     "dana@example.com",
		Password:  "secret1",
		Role:      models.RoleClinician,
	}

	_, err := auth.Register(input)
	require.ErrorIs(t, err, ErrInviteRequired)

	input.InviteCode = "AAAA-BBBB-CCCC"
	_, err = auth.Register(input)
	require.ErrorIs(t, err, ErrInvalidInviteCode)

	invite, err := invites.Generate(models.RoleClinician)
	require.NoError(t, err)

	// Role on the invite must match the requested role.
	adminInput := input
	adminInput.Role = models.RoleAdmin
	adminInput.Email = "admin@example.com"
	adminInput.InviteCode = invite.InviteCode
	_, err = auth.Register(adminInput)
	require.ErrorIs(t, err, ErrInvalidInviteCode)

	input.InviteCode = invite.InviteCode
	_, err = auth.Register(input)
	require.NoError(t, err)

	// Single use: a second registration on the same code fails.
	reuse := input
	reuse.Email = "other@example.com"
	_, err = auth.Register(reuse)
	require.ErrorIs(t, err, ErrInviteUsed)

	_, err = invites.Validate(invite.InviteCode)
	require.ErrorIs(t, err, ErrInviteUsed)
}

func TestLogin_ArchivedAccountDistinctFromBadCredentials(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	archived := seedUser(t, db, storage.Archived, models.RoleClient, "Maria", "Santos", &clinician.ID)

	_, err := auth.Login(LoginInput{Email: archived.Email, Password: "secret1"})
	require.ErrorIs(t, err, ErrAccountArchived)

	_, err = auth.Login(LoginInput{Email: "nobody@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	auth, _ := newAuthService(t, db)
	_, _, deviceRepo := newTestRepos(db)

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	client := seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &clinician.ID)

	first, err := auth.Login(LoginInput{Email: client.Email, Password: "secret1"})
	require.NoError(t, err)
	second, err := auth.Login(LoginInput{Email: client.Email, Password: "secret1"})
	require.NoError(t, err)

	// Device logout revokes only the calling session.
	require.NoError(t, auth.LogoutDevice(first.DeviceToken))
	live, err := deviceRepo.Exists(second.DeviceToken)
	require.NoError(t, err)
	require.True(t, live)

	require.ErrorIs(t, auth.LogoutDevice(first.DeviceToken), ErrDeviceSessionMissing)

	// A client cannot log out someone else's devices.
	other := Identity{UserID: "someone-else", Role: models.RoleClient}
	require.ErrorIs(t, auth.LogoutAll(other, client.ID), ErrScopeDenied)

	self := Identity{UserID: client.ID, Role: models.RoleClient}
	require.NoError(t, auth.LogoutAll(self, client.ID))
	live, err = deviceRepo.Exists(second.DeviceToken)
	require.NoError(t, err)
	require.False(t, live)
}
