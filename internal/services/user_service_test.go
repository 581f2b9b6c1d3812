package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

func TestSearchClients_RoleScoping(t *testing.T) {
	db := setupTestDB(t)
	userRepo, _, deviceRepo := newTestRepos(db)
	svc := NewUserService(userRepo, deviceRepo, testLogger())

	mine := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	other := seedUser(t, db, storage.Active, models.RoleClinician, "Sam", "Okafor", nil)
	seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &mine.ID)
	seedUser(t, db, storage.Active, models.RoleClient, "Mario", "Rossi", &other.ID)

	clinician := Identity{UserID: mine.ID, Role: models.RoleClinician}
	clients, err := svc.SearchClients(clinician, "")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, "Maria", clients[0].FirstName)

	admin := Identity{UserID: "adm", Role: models.RoleAdmin}
	clients, err = svc.SearchClients(admin, "")
	require.NoError(t, err)
	require.Len(t, clients, 2)

	clients, err = svc.SearchClients(admin, "mar ross")
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, "Mario", clients[0].FirstName)

	client := Identity{UserID: "c1", Role: models.RoleClient}
	_, err = svc.SearchClients(client, "")
	require.ErrorIs(t, err, ErrScopeDenied)
}

func TestSearchAllClients_MergesArchivedWithOrigin(t *testing.T) {
	db := setupTestDB(t)
	userRepo, _, deviceRepo := newTestRepos(db)
	svc := NewUserService(userRepo, deviceRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &clinician.ID)
	seedUser(t, db, storage.Archived, models.RoleClient, "Mario", "Rossi", &clinician.ID)

	admin := Identity{UserID: "adm", Role: models.RoleAdmin}

	records, err := svc.SearchAllClients(admin, "", false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, storage.Active, records[0].Namespace)

	records, err = svc.SearchAllClients(admin, "", true)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, storage.Archived, records[1].Namespace)

	_, err = svc.SearchAllClients(Identity{UserID: clinician.ID, Role: models.RoleClinician}, "", true)
	require.ErrorIs(t, err, ErrScopeDenied)
}

func TestUserInfo_Scoping(t *testing.T) {
	db := setupTestDB(t)
	userRepo, _, deviceRepo := newTestRepos(db)
	svc := NewUserService(userRepo, deviceRepo, testLogger())

	mine := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	other := seedUser(t, db, storage.Active, models.RoleClinician, "Sam", "Okafor", nil)
	assigned := seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &mine.ID)
	unassigned := seedUser(t, db, storage.Active, models.RoleClient, "Mario", "Rossi", &other.ID)
	archived := seedUser(t, db, storage.Archived, models.RoleClient, "Old", "Client", &mine.ID)

	self := Identity{UserID: assigned.ID, Role: models.RoleClient}
	got, err := svc.UserInfo(self, assigned.ID, storage.Active)
	require.NoError(t, err)
	require.Equal(t, assigned.ID, got.ID)

	_, err = svc.UserInfo(self, unassigned.ID, storage.Active)
	require.ErrorIs(t, err, ErrScopeDenied)

	staff := Identity{UserID: mine.ID, Role: models.RoleClinician}
	got, err = svc.UserInfo(staff, assigned.ID, storage.Active)
	require.NoError(t, err)
	require.Equal(t, assigned.ID, got.ID)

	_, err = svc.UserInfo(staff, unassigned.ID, storage.Active)
	require.ErrorIs(t, err, ErrScopeDenied)

	admin := Identity{UserID: "adm", Role: models.RoleAdmin}
	got, err = svc.UserInfo(admin, archived.ID, storage.Archived)
	require.NoError(t, err)
	require.Equal(t, archived.ID, got.ID)
}

func TestRemoveUser_ClinicianUnassignsClients(t *testing.T) {
	db := setupTestDB(t)
	userRepo, _, deviceRepo := newTestRepos(db)
	svc := NewUserService(userRepo, deviceRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	c1 := seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &clinician.ID)
	c2 := seedUser(t, db, storage.Active, models.RoleClient, "Mario", "Rossi", &clinician.ID)

	require.NoError(t, deviceRepo.Create(&models.DeviceSession{
		DeviceToken: uuid.NewString(),
		UserID:      clinician.ID,
		CreatedAt:   time.Now().UTC(),
	}))

	result, err := svc.RemoveUser(clinician.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{c1.ID, c2.ID}, result.UnassignedClientIDs)

	_, err = userRepo.FindByID(storage.Active, clinician.ID)
	require.Error(t, err)

	updated, err := userRepo.FindByID(storage.Active, c1.ID)
	require.NoError(t, err)
	require.Nil(t, updated.AssignedClinicianID)

	_, err = svc.RemoveUser("missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}
