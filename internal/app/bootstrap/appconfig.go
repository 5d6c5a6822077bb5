// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: HTTP ports, TLS, logging
// level and the like belong to WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Caller-identity cookie configuration
	SessionKey    string // Secret key for signing the caller cookie (must be strong in production)
	SessionName   string // Cookie name (default: colloquy-session)
	SessionDomain string // Cookie domain (blank means current host)

	// DefaultGroupName is the group seeded at startup so single-group
	// deployments work without provisioning one through the identity
	// service first. Blank disables seeding.
	DefaultGroupName string

	// Presence sweep worker configuration
	PresenceSweepInterval time.Duration // how often stale presence is swept
	PresenceOfflineAfter  time.Duration // silence before a participant reads as offline
}
