package constants

import "time"

// Bootstrap admin seeded into an empty directory.
const (
	BootstrapAdminCode = "FF01"
	BootstrapAdminPIN  = "1991"
)

const (
	DefaultHashCost = 10
	DefaultTokenTTL = 24 * time.Hour
	// DefaultJWTSecret is only used when JWT_SECRET is unset. It is weak and
	// logged as such at startup.
	DefaultJWTSecret = "supersecret"
)

const (
	MemberListCacheKey = "members:list"
	MemberListCacheTTL = 10 * time.Minute
)

// Secret length bounds. bcrypt ignores input past 72 bytes.
const (
	MinSecretLength = 4
	MaxSecretLength = 72
	MaxCodeLength   = 32
	MaxTextLength   = 256
)
