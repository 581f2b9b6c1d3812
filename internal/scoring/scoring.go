// Package scoring turns a client's ordered check-in sessions into an
// outcome measure: the first and latest session scores plus the predicates
// the dashboards aggregate over.
package scoring

import (
	"sort"
	"strconv"
	"time"

	"github.com/headway-clinic/checkin-api/internal/models"
)

const (
	// ScoreOffset is subtracted from the raw response sum. It is the
	// minimum possible raw sum of the questionnaire, so a score of zero
	// means every item was answered at the floor.
	ScoreOffset = 10

	// SignificanceMinInitial and SignificanceMinDrop define clinically
	// significant improvement: an initial score above 18 that has dropped
	// by at least 12. Fixed clinical thresholds, not per-questionnaire.
	SignificanceMinInitial = 18
	SignificanceMinDrop    = 12

	// RecencyWindow is the lookback used for the last-6-months metrics.
	RecencyWindow = 182 * 24 * time.Hour

	// scoreEpsilon absorbs float accumulation error when scores are
	// compared against the clinical thresholds. Fractional response
	// values can sum a hair off the exact boundary in either direction.
	scoreEpsilon = 1e-9
)

// Outcome is the progress measure for one client. Valid is false when the
// client has fewer than two scoreable sessions; that is a null result, not
// an error, and such clients still count toward population totals.
type Outcome struct {
	Initial  float64
	Latest   float64
	LatestAt time.Time
	Dropped  int
	Valid    bool
}

// Improved reports whether the latest score is below the initial one.
// Lower is better: the questionnaire measures symptom severity.
func (o Outcome) Improved() bool {
	return o.Valid && o.Latest < o.Initial
}

// ClinicallySignificant reports whether the drop from initial to latest
// clears the clinical threshold. A drop of exactly SignificanceMinDrop
// qualifies, so the comparison tolerates accumulation error.
func (o Outcome) ClinicallySignificant() bool {
	return o.Valid &&
		o.Initial > SignificanceMinInitial+scoreEpsilon &&
		o.Initial-o.Latest >= SignificanceMinDrop-scoreEpsilon
}

// Recent reports whether the latest scoreable session falls inside the
// recency window ending at now.
func (o Outcome) Recent(now time.Time) bool {
	return o.Valid && !o.LatestAt.Before(now.Add(-RecencyWindow))
}

// SessionScore sums a session's coercible response values and subtracts
// the offset. counted is the number of values that contributed; dropped is
// the number that failed numeric coercion and were skipped. A session with
// counted == 0 has no score.
func SessionScore(responses []models.SummaryResponse) (score float64, counted, dropped int) {
	var sum float64
	for _, r := range responses {
		v, ok := Coerce(r.ResponseValue)
		if !ok {
			dropped++
			continue
		}
		sum += v
		counted++
	}
	if counted == 0 {
		return 0, 0, dropped
	}
	return sum - ScoreOffset, counted, dropped
}

// Progress computes the outcome for a client's sessions. Sessions are
// ordered by timestamp ascending; ties keep their given order, which is
// enough since only the first and last scores matter.
func Progress(sessions []models.CheckinSession) Outcome {
	type scored struct {
		score float64
		at    time.Time
	}

	var (
		scores  []scored
		dropped int
	)
	for _, s := range sessions {
		score, counted, d := SessionScore(s.SummaryResponses)
		dropped += d
		if counted == 0 {
			continue
		}
		scores = append(scores, scored{score: score, at: s.Timestamp})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].at.Before(scores[j].at)
	})

	if len(scores) < 2 {
		return Outcome{Dropped: dropped}
	}

	return Outcome{
		Initial:  scores[0].score,
		Latest:   scores[len(scores)-1].score,
		LatestAt: scores[len(scores)-1].at,
		Dropped:  dropped,
		Valid:    true,
	}
}

// Coerce converts a loosely typed response value to a float64. Historical
// submissions carry numbers, integer types and numeric strings; anything
// else fails coercion and is counted by the caller.
func Coerce(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
