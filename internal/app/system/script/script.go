// internal/app/system/script/script.go

// Package script runs one workload against the configured database and
// maps the outcome to a process exit code.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/mziyad24/academicrecords/internal/app/bootstrap"
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1 // the workload failed
	ExitConfig      = 2 // configuration is missing or invalid
	ExitUnreachable = 3 // the deployment could not be reached
)

// Work is a workload. Its result is printed to stdout as indented JSON.
type Work func(ctx context.Context, db *mongo.Database, cfg bootstrap.AppConfig, logger *zap.Logger) (any, error)

// Loader returns the app configuration.
type Loader func(logger *zap.Logger) (bootstrap.AppConfig, error)

// LoadFromEnvironment loads configuration the same way the HTTP service does.
func LoadFromEnvironment(logger *zap.Logger) (bootstrap.AppConfig, error) {
	coreCfg, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		return bootstrap.AppConfig{}, err
	}
	if err := bootstrap.ValidateConfig(coreCfg, appCfg, logger); err != nil {
		return bootstrap.AppConfig{}, err
	}
	return appCfg, nil
}

// Main is the body of a script's main function:
//
//	func main() { os.Exit(script.Main("seed", jobsSeed)) }
func Main(name string, work Work) int {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: build logger: %v\n", name, err)
		return ExitFailure
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeouts.ConfigureFromEnv()
	return Run(ctx, name, os.Stdout, logger, LoadFromEnvironment, work)
}

// Run loads and validates configuration, opens the connection, runs work
// and writes its result to out. The connection is closed on every path.
func Run(ctx context.Context, name string, out io.Writer, logger *zap.Logger, load Loader, work Work) int {
	logger = logger.With(
		zap.String("script", name),
		zap.String("run_id", uuid.NewString()),
	)
	// Packages that log through zap.L() pick up the run fields too.
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	cfg, err := load(logger)
	if err != nil {
		logger.Error("configuration error", zap.Error(err))
		return ExitConfig
	}

	conn, err := dbconn.Open(ctx, cfg.DBConfig(), logger)
	if err != nil {
		if dbconn.IsConfigError(err) {
			logger.Error("configuration error", zap.Error(err))
			return ExitConfig
		}
		logger.Error("cannot reach database", zap.Error(err))
		return ExitUnreachable
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	result, err := work(ctx, conn.DB, cfg, logger)
	if err != nil {
		logger.Error("workload failed", zap.Error(err))
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
		}
		return ExitFailure
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("write result", zap.Error(err))
		return ExitFailure
	}
	logger.Info("done")
	return ExitOK
}
