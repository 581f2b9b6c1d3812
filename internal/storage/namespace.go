// Package storage names the two parallel table namespaces client records
// live in. A client's record tree belongs to exactly one namespace at a
// time; the archive migrator moves it wholesale between them.
package storage

type Namespace int

const (
	// Active holds clients who can authenticate and submit sessions.
	Active Namespace = iota
	// Archived holds clients removed from active caseloads. Their history
	// stays readable but they cannot log in.
	Archived
)

// Users returns the profile table for the namespace.
func (n Namespace) Users() string {
	if n == Archived {
		return "archived_users"
	}
	return "users"
}

// Sessions returns the check-in session table for the namespace.
func (n Namespace) Sessions() string {
	if n == Archived {
		return "archived_checkin_sessions"
	}
	return "checkin_sessions"
}

// Responses returns the per-question response index table for the namespace.
func (n Namespace) Responses() string {
	if n == Archived {
		return "archived_session_responses"
	}
	return "session_responses"
}

// Other returns the opposite namespace.
func (n Namespace) Other() Namespace {
	if n == Archived {
		return Active
	}
	return Archived
}

func (n Namespace) String() string {
	if n == Archived {
		return "archived"
	}
	return "active"
}
