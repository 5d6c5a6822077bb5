// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	presencestore "github.com/dalemusser/colloquy/internal/app/store/presence"
	"github.com/dalemusser/colloquy/internal/app/system/timeouts"
	"github.com/dalemusser/colloquy/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// presenceSweep is started in Startup and stopped in Shutdown.
var presenceSweep *workers.PresenceSweep

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeout overrides applied from environment", zap.Int("count", n))
	}

	if appCfg.DefaultGroupName != "" {
		if err := ensureDefaultGroup(ctx, deps, appCfg.DefaultGroupName, logger); err != nil {
			return err
		}
	}

	presenceSweep = workers.NewPresenceSweep(
		presencestore.New(deps.ColloquyMongoDatabase),
		logger,
		appCfg.PresenceSweepInterval,
		appCfg.PresenceOfflineAfter,
	)
	presenceSweep.Start()

	return nil
}

// ensureDefaultGroup seeds one group so a fresh deployment can create
// sessions before the identity service has provisioned any groups. The
// upsert is keyed on the group name, so repeated startups reuse the
// same document.
func ensureDefaultGroup(ctx context.Context, deps DBDeps, name string, logger *zap.Logger) error {
	now := time.Now().UTC()
	res, err := deps.ColloquyMongoDatabase.Collection("groups").UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{
			"name":       name,
			"status":     "active",
			"created_at": now,
			"updated_at": now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	if res.UpsertedCount > 0 {
		logger.Info("seeded default group", zap.String("name", name))
	}
	return nil
}
