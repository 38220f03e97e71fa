// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS, timeouts). AppConfig is everything specific to Gatehouse: the Mongo
// connection, session cookies, and the API rate limit.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max driver connection pool size
	MongoMinPoolSize uint64 // Min driver connection pool size

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: gatehouse-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionTTL    time.Duration // Session lifetime

	// API rate limiting
	RateLimitMax    int           // Requests allowed per window per client IP
	RateLimitWindow time.Duration // Sliding window length
}
