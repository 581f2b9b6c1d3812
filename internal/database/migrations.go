package database

import (
	"fmt"

	"gorm.io/gorm"
)

// AddIndexes adds the composite indexes the aggregation and search paths
// rely on. AutoMigrate only creates the single-column indexes declared in
// struct tags.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Scoring reads all of a client's sessions in timestamp order.
		{"checkin_sessions", "idx_checkin_sessions_user_ts", "user_id, timestamp"},
		{"archived_checkin_sessions", "idx_archived_checkin_sessions_user_ts", "user_id, timestamp"},

		// Session detail lookups by session.
		{"session_responses", "idx_session_responses_session_question", "session_id, question_id"},

		// Caseload resolution for clinicians.
		{"users", "idx_users_role_clinician", "role, assigned_clinician_id"},
	}

	for _, idx := range indexes {
		sql := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
