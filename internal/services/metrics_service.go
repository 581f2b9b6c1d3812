package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/headway-clinic/checkin-api/internal/models"
	"github.com/headway-clinic/checkin-api/internal/repository"
	"github.com/headway-clinic/checkin-api/internal/scoring"
	"github.com/headway-clinic/checkin-api/internal/storage"
)

// ClientMetrics is the aggregated outcome view for a client population.
type ClientMetrics struct {
	TotalClients                       int       `json:"total_clients"`
	PercentImproved                    float64   `json:"percent_improved"`
	PercentClinicallySignificant       float64   `json:"percent_clinically_significant"`
	PercentImprovedRecent              float64   `json:"percent_improved_last_6_months"`
	PercentClinicallySignificantRecent float64   `json:"percent_clinically_significant_last_6_months"`
	LastUpdated                        time.Time `json:"last_updated"`
}

// MetricsFilter narrows the population before aggregation.
type MetricsFilter struct {
	// NameQuery keeps only clients whose name matches every query term.
	NameQuery string
	// RecentOnly restricts the population to clients whose latest scored
	// session falls inside the recency window.
	RecentOnly bool
}

// MetricsService aggregates outcome percentages over client populations.
// Clients with fewer than two scoreable sessions contribute to the
// denominator but never to a numerator.
type MetricsService struct {
	userRepo    repository.UserRepository
	checkinRepo repository.CheckinRepository
	log         *zap.Logger
}

// NewMetricsService creates a new MetricsService.
func NewMetricsService(userRepo repository.UserRepository, checkinRepo repository.CheckinRepository, log *zap.Logger) *MetricsService {
	return &MetricsService{userRepo: userRepo, checkinRepo: checkinRepo, log: log}
}

// CaseloadMetrics aggregates over one clinician's active clients.
func (s *MetricsService) CaseloadMetrics(clinicianID string, filter MetricsFilter) (*ClientMetrics, error) {
	clients, err := s.userRepo.ListClientsByClinician(clinicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to list caseload: %w", err)
	}
	members := make([]populationMember, 0, len(clients))
	for i := range clients {
		members = append(members, populationMember{user: &clients[i], ns: storage.Active})
	}
	return s.aggregate(members, filter)
}

// OverallMetrics aggregates over every client in the practice. When
// includeArchived is set, archived clients join the population alongside
// active ones.
func (s *MetricsService) OverallMetrics(includeArchived bool, filter MetricsFilter) (*ClientMetrics, error) {
	members, err := s.population(includeArchived)
	if err != nil {
		return nil, err
	}
	return s.aggregate(members, filter)
}

// populationMember tags a client with the namespace its sessions live in,
// so aggregation reads the right tables per client.
type populationMember struct {
	user *models.User
	ns   storage.Namespace
}

func (s *MetricsService) population(includeArchived bool) ([]populationMember, error) {
	active, err := s.userRepo.ListClients(storage.Active)
	if err != nil {
		return nil, fmt.Errorf("failed to list active clients: %w", err)
	}
	members := make([]populationMember, 0, len(active))
	for i := range active {
		members = append(members, populationMember{user: &active[i], ns: storage.Active})
	}

	if includeArchived {
		archived, err := s.userRepo.ListClients(storage.Archived)
		if err != nil {
			return nil, fmt.Errorf("failed to list archived clients: %w", err)
		}
		for i := range archived {
			members = append(members, populationMember{user: &archived[i], ns: storage.Archived})
		}
	}
	return members, nil
}

// aggregate walks the population sequentially, scoring each client's
// session history. An empty population yields all zeros rather than NaN.
func (s *MetricsService) aggregate(members []populationMember, filter MetricsFilter) (*ClientMetrics, error) {
	now := time.Now().UTC()

	var (
		total             int
		improved          int
		significant       int
		improvedRecent    int
		significantRecent int
	)

	for _, m := range members {
		if !matchesNameQuery(m.user, filter.NameQuery) {
			continue
		}

		sessions, err := s.checkinRepo.ListSessionsByUser(m.ns, m.user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions for %s: %w", m.user.ID, err)
		}

		if filter.RecentOnly && !recentActivity(sessions, now) {
			continue
		}

		outcome := scoring.Progress(sessions)
		if outcome.Dropped > 0 {
			s.log.Warn("Skipped non-numeric response values while scoring",
				zap.String("user_id", m.user.ID),
				zap.Int("dropped", outcome.Dropped))
		}

		// Insufficient-data clients count toward the denominator only.
		total++
		if !outcome.Valid {
			continue
		}

		recent := outcome.Recent(now)
		if outcome.Improved() {
			improved++
			if recent {
				improvedRecent++
			}
		}
		if outcome.ClinicallySignificant() {
			significant++
			if recent {
				significantRecent++
			}
		}
	}

	return &ClientMetrics{
		TotalClients:                       total,
		PercentImproved:                    percent(improved, total),
		PercentClinicallySignificant:       percent(significant, total),
		PercentImprovedRecent:              percent(improvedRecent, total),
		PercentClinicallySignificantRecent: percent(significantRecent, total),
		LastUpdated:                        now,
	}, nil
}

// recentActivity reports whether the client's newest session falls inside
// the recency window. Scoreability does not matter here: a client who
// checked in recently belongs to the recent population even when their
// history is still too short to score.
func recentActivity(sessions []models.CheckinSession, now time.Time) bool {
	if len(sessions) == 0 {
		return false
	}
	latest := sessions[len(sessions)-1].Timestamp
	return !latest.Before(now.Add(-scoring.RecencyWindow))
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
