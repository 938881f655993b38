// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/campushq/studyhub/internal/domain/groups"
	"github.com/campushq/studyhub/internal/domain/models"
)

// appConfigKeys defines the configuration keys for StudyHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, sweep_interval, etc.
//   - Environment variables: STUDYHUB_MONGO_URI, STUDYHUB_SWEEP_INTERVAL, etc.
//   - Command-line flags: --mongo_uri, --sweep_interval, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "study_hub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Meeting status sweep
	{Name: "sweep_interval", Default: "1m", Desc: "Interval between meeting status sweeps (e.g., 30s, 1m, 5m)"},

	// Group defaults
	{Name: "default_max_members", Default: 10, Desc: "Member capacity when a group is created without one"},
	{Name: "access_code_length", Default: groups.DefaultCodeLength, Desc: "Length of generated private-group access codes"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, STUDYHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "STUDYHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SweepInterval: appValues.Duration("sweep_interval", time.Minute),

		DefaultMaxMembers: appValues.Int("default_max_members"),
		AccessCodeLength:  appValues.Int("access_code_length"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// StudyHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", appCfg.SweepInterval)
	}
	if appCfg.DefaultMaxMembers < models.MinGroupMembers || appCfg.DefaultMaxMembers > models.MaxGroupMembers {
		return fmt.Errorf("default_max_members must be between %d and %d, got %d",
			models.MinGroupMembers, models.MaxGroupMembers, appCfg.DefaultMaxMembers)
	}
	if appCfg.AccessCodeLength <= 0 {
		return fmt.Errorf("access_code_length must be positive, got %d", appCfg.AccessCodeLength)
	}

	return nil
}
