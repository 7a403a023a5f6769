package constants

import "time"

// Default analysis windows, in days.
const (
	DefaultPulseDays        = 7
	DefaultChannelDays      = 7
	DefaultContributorDays  = 30
	DefaultRisingStarDays   = 14
	MaxWindowDays           = 365
)

var WebSocketConfig = struct {
	MaxReconnectAttempts int
	ReconnectDelay       time.Duration
}{
	MaxReconnectAttempts: 5,
	ReconnectDelay:       5 * time.Second,
}

var CacheTTL = struct {
	Report time.Duration
}{
	Report: 5 * time.Minute,
}
