// Package config contains compile-time defaults for bankfront.
// Every value here can be overridden by the config file, BANKFRONT_* environment
// variables or command-line flags.
package config

import "time"

// =============================================================================
// BACKEND
// =============================================================================

const (
	// DefaultBaseURL is the banking API root
	DefaultBaseURL = "http://localhost:8080/api"

	// DefaultRequestTimeout bounds each backend request
	DefaultRequestTimeout = 15 * time.Second
)

// =============================================================================
// SESSION
// =============================================================================

// Session store backends
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

const (
	// DefaultStore keeps the session record in a file under the user config dir
	DefaultStore = StoreFile

	// DefaultProfile names the record when several sessions share one store
	DefaultProfile = "default"

	// DefaultSessionTTL is how long a redis-held record survives without a write
	DefaultSessionTTL = 24 * time.Hour

	// sessionDirName is joined onto the user config dir
	sessionDirName = "bankfront"
)

// =============================================================================
// LOGGING
// =============================================================================

const (
	// DefaultLogLevel keeps the terminal quiet unless something goes wrong
	DefaultLogLevel = "warn"
)

// =============================================================================
// TRANSACTION LIMITS
// =============================================================================

const (
	// DefaultMaxTransactionAmount caps a single deposit or withdrawal
	DefaultMaxTransactionAmount = "50000"

	// DefaultMinFixedDepositPrincipal is the smallest certificate the bank sells
	DefaultMinFixedDepositPrincipal = "50"

	// MaxReasonDetailLength bounds the free-text reason on administrator actions
	MaxReasonDetailLength = 200
)
