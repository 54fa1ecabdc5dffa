// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"github.com/mziyad24/academicrecords/internal/app/system/indexes"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/app/system/validators"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB connection used for the lifetime of the service.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	conn, err := dbconn.Open(ctx, appCfg.DBConfig(), logger)
	if err != nil {
		return DBDeps{}, err
	}
	return DBDeps{Conn: conn, MongoDatabase: conn.DB}, nil
}

// EnsureSchema attaches collection validators and reconciles indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Long(), logger, "ensure schema")
	defer cancel()

	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("validators setup failed", zap.Error(err))
		return err
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}
	return nil
}
