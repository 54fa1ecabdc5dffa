// internal/app/system/dbconn/dbconn.go

// Package dbconn opens the MongoDB connection shared by one process.
//
// Open fails fast and distinguishes a misconfigured connection string
// (ErrMissingURI, ErrInvalidURI) from an unreachable deployment
// (ErrUnreachable). The returned *Conn is owned by the caller, who must
// Close it on every exit path.
package dbconn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var (
	// ErrMissingURI means no connection string was configured.
	ErrMissingURI = errors.New("mongo connection string is not configured")
	// ErrInvalidURI means the connection string could not be parsed.
	ErrInvalidURI = errors.New("mongo connection string is invalid")
	// ErrMissingDatabase means no database name was configured.
	ErrMissingDatabase = errors.New("mongo database name is not configured")
	// ErrUnreachable means the deployment could not be reached.
	ErrUnreachable = errors.New("mongo deployment is unreachable")
)

// DefaultConnectTimeout bounds the probe and the real connect when
// Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

// Config describes how to reach the deployment.
type Config struct {
	URI            string
	Database       string
	MaxPoolSize    uint64
	MinPoolSize    uint64
	ConnectTimeout time.Duration
}

// IsConfigError reports whether err is a configuration problem rather than
// a connectivity one.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingURI) ||
		errors.Is(err, ErrInvalidURI) ||
		errors.Is(err, ErrMissingDatabase)
}

// Validate checks cfg without touching the network.
func Validate(cfg Config) error {
	if cfg.URI == "" {
		return ErrMissingURI
	}
	if !strings.HasPrefix(cfg.URI, "mongodb://") && !strings.HasPrefix(cfg.URI, "mongodb+srv://") {
		return fmt.Errorf("%w: scheme must be mongodb:// or mongodb+srv://", ErrInvalidURI)
	}
	if err := wafflemongo.ValidateURI(cfg.URI); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURI, err)
	}
	if cfg.Database == "" {
		return ErrMissingDatabase
	}
	return nil
}

// Conn is a connected client plus the application database.
type Conn struct {
	Client *mongo.Client
	DB     *mongo.Database
	log    *zap.Logger
}

// Open validates cfg, probes the deployment with a throwaway client, then
// connects and pings the client that is returned.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (*Conn, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	if err := probe(ctx, cfg); err != nil {
		logger.Error("mongo probe failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	client, err := connect(ctx, cfg, clientOptions(cfg))
	if err != nil {
		logger.Error("mongo connect failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", cfg.Database),
		zap.Uint64("max_pool_size", cfg.MaxPoolSize))

	return &Conn{
		Client: client,
		DB:     client.Database(cfg.Database),
		log:    logger,
	}, nil
}

// Close disconnects the client. It is safe to call on a nil Conn and more
// than once.
func (c *Conn) Close(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	client := c.Client
	c.Client = nil
	if err := client.Disconnect(ctx); err != nil {
		c.log.Error("MongoDB disconnect failed", zap.Error(err))
		return err
	}
	c.log.Info("disconnected from MongoDB")
	return nil
}

func clientOptions(cfg Config) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	if cfg.MinPoolSize > 0 {
		opts.SetMinPoolSize(cfg.MinPoolSize)
	}
	return opts
}

// probe connects a single-connection client, pings and disconnects it.
func probe(ctx context.Context, cfg Config) error {
	opts := options.Client().ApplyURI(cfg.URI).SetMaxPoolSize(1)
	client, err := connect(ctx, cfg, opts)
	if err != nil {
		return err
	}
	return client.Disconnect(ctx)
}

func connect(ctx context.Context, cfg Config, opts *options.ClientOptions) (*mongo.Client, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	opts.SetServerSelectionTimeout(timeout)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(cctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}
