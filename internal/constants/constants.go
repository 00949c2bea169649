package constants

import "time"

const (
	MatchCacheTTL = 5 * time.Minute
)

const (
	RequestTimeout     = 30 * time.Second
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RefreshCallTimeout = 15 * time.Second
	LCURequestTimeout  = 3 * time.Second
)

const (
	DBMaxOpenConns    = 10
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
	LCUPollInterval = 2 * time.Second
)

const (
	DefaultPageSize  = 20
	DefaultMatchSort = "gameCreation,desc"
)

// Outbound rate limit against the remote backend.
const (
	GatewayRatePerSecond = 10
	GatewayRateBurst     = 20
)
