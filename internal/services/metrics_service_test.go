package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

func TestOverallMetrics_EmptyPopulation(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	metrics, err := svc.OverallMetrics(false, MetricsFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, metrics.TotalClients)
	require.Zero(t, metrics.PercentImproved)
	require.Zero(t, metrics.PercentClinicallySignificant)
	require.Zero(t, metrics.PercentImprovedRecent)
	require.Zero(t, metrics.PercentClinicallySignificantRecent)
}

func TestOverallMetrics_InsufficientDataCountsInDenominator(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	now := time.Now().UTC()

	// Two clients with clear improvement.
	for i := 0; i < 2; i++ {
		c := seedUser(t, db, storage.Active, models.RoleClient, "Improving", "Client", &clinician.ID)
		seedSession(t, db, storage.Active, c.ID, 25, now.AddDate(0, -3, 0))
		seedSession(t, db, storage.Active, c.ID, 10, now.AddDate(0, -1, 0))
	}
	// Two clients with a single session each: no outcome, still counted.
	for i := 0; i < 2; i++ {
		c := seedUser(t, db, storage.Active, models.RoleClient, "New", "Client", &clinician.ID)
		seedSession(t, db, storage.Active, c.ID, 20, now.AddDate(0, -1, 0))
	}

	metrics, err := svc.OverallMetrics(false, MetricsFilter{})
	require.NoError(t, err)
	require.Equal(t, 4, metrics.TotalClients)
	require.InDelta(t, 50.0, metrics.PercentImproved, 1e-9)
	require.InDelta(t, 50.0, metrics.PercentClinicallySignificant, 1e-9)
	require.InDelta(t, 50.0, metrics.PercentImprovedRecent, 1e-9)
}

func TestOverallMetrics_IncludesArchivedOnRequest(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	active := seedUser(t, db, storage.Active, models.RoleClient, "Active", "Client", &clinician.ID)
	archived := seedUser(t, db, storage.Archived, models.RoleClient, "Archived", "Client", &clinician.ID)

	now := time.Now().UTC()
	seedSession(t, db, storage.Active, active.ID, 20, now.AddDate(0, -2, 0))
	seedSession(t, db, storage.Active, active.ID, 15, now.AddDate(0, -1, 0))
	seedSession(t, db, storage.Archived, archived.ID, 22, now.AddDate(0, -4, 0))
	seedSession(t, db, storage.Archived, archived.ID, 8, now.AddDate(0, -3, 0))

	activeOnly, err := svc.OverallMetrics(false, MetricsFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, activeOnly.TotalClients)

	merged, err := svc.OverallMetrics(true, MetricsFilter{})
	require.NoError(t, err)
	require.Equal(t, 2, merged.TotalClients)
	require.InDelta(t, 100.0, merged.PercentImproved, 1e-9)
}

func TestCaseloadMetrics_ScopedToClinician(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	mine := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	other := seedUser(t, db, storage.Active, models.RoleClinician, "Sam", "Okafor", nil)

	now := time.Now().UTC()
	c1 := seedUser(t, db, storage.Active, models.RoleClient, "First", "Client", &mine.ID)
	seedSession(t, db, storage.Active, c1.ID, 20, now.AddDate(0, -2, 0))
	seedSession(t, db, storage.Active, c1.ID, 12, now.AddDate(0, -1, 0))

	c2 := seedUser(t, db, storage.Active, models.RoleClient, "Other", "Client", &other.ID)
	seedSession(t, db, storage.Active, c2.ID, 20, now.AddDate(0, -2, 0))

	metrics, err := svc.CaseloadMetrics(mine.ID, MetricsFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, metrics.TotalClients)
	require.InDelta(t, 100.0, metrics.PercentImproved, 1e-9)
}

func TestOverallMetrics_NameFilterTokenizedAndCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	seedUser(t, db, storage.Active, models.RoleClient, "Maria", "Santos", &clinician.ID)
	seedUser(t, db, storage.Active, models.RoleClient, "Mario", "Rossi", &clinician.ID)
	seedUser(t, db, storage.Active, models.RoleClient, "Alice", "Nguyen", &clinician.ID)

	metrics, err := svc.OverallMetrics(false, MetricsFilter{NameQuery: "MARI san"})
	require.NoError(t, err)
	require.Equal(t, 1, metrics.TotalClients)

	all, err := svc.OverallMetrics(false, MetricsFilter{NameQuery: "  "})
	require.NoError(t, err)
	require.Equal(t, 3, all.TotalClients)
}

func TestOverallMetrics_RecentOnlyExcludesStaleClients(t *testing.T) {
	db := setupTestDB(t)
	userRepo, checkinRepo, _ := newTestRepos(db)
	svc := NewMetricsService(userRepo, checkinRepo, testLogger())

	clinician := seedUser(t, db, storage.Active, models.RoleClinician, "Dana", "Reyes", nil)
	now := time.Now().UTC()

	fresh := seedUser(t, db, storage.Active, models.RoleClient, "Fresh", "Client", &clinician.ID)
	seedSession(t, db, storage.Active, fresh.ID, 20, now.AddDate(0, -3, 0))
	seedSession(t, db, storage.Active, fresh.ID, 10, now.AddDate(0, -1, 0))

	stale := seedUser(t, db, storage.Active, models.RoleClient, "Stale", "Client", &clinician.ID)
	seedSession(t, db, storage.Active, stale.ID, 20, now.AddDate(-2, 0, 0))
	seedSession(t, db, storage.Active, stale.ID, 10, now.AddDate(-1, -8, 0))

	// One recent session is not enough to score, but the client checked in
	// recently and still belongs in the denominator.
	newcomer := seedUser(t, db, storage.Active, models.RoleClient, "New", "Client", &clinician.ID)
	seedSession(t, db, storage.Active, newcomer.ID, 20, now.AddDate(0, -1, 0))

	metrics, err := svc.OverallMetrics(false, MetricsFilter{RecentOnly: true})
	require.NoError(t, err)
	require.Equal(t, 2, metrics.TotalClients)
	require.InDelta(t, 50.0, metrics.PercentImproved, 1e-9)
}
