package constants

// Context keys set by the auth middleware.
const (
	ContextKeyUserID      = "user_id"
	ContextKeyRole        = "role"
	ContextKeyDeviceToken = "device_token"
)

const (
	// MinPasswordLength is the minimum accepted password length at registration.
	MinPasswordLength = 6

	// PasswordSpecialChars are the characters accepted as the required
	// non-alphabetic password character, besides digits.
	PasswordSpecialChars = "@$!%*?&"
)

// MaxBatchWriteOps caps the number of write operations committed in a
// single transaction during archive/unarchive migrations. Larger record
// trees are moved in chunks of this size.
const MaxBatchWriteOps = 500

// Pagination bounds for search endpoints.
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
