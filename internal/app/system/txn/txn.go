// internal/app/system/txn/txn.go

// Package txn runs a group of writes as one unit of work.
//
// Callers only ever observe two outcomes from Run: every write inside fn was
// committed, or none was. There is no non-transactional fallback; a
// deployment without transaction support (standalone mongod) yields an
// error wrapping ErrNotSupported.
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// ErrNotSupported is wrapped when the server rejects sessions or
// multi-document transactions (e.g. not a replica set member).
var ErrNotSupported = errors.New("transactions are not supported by this deployment")

// Run executes fn inside a session transaction on db's client.
//
// The ctx passed to fn carries the session; every collection call inside fn
// must use it for the write to join the transaction. If fn returns an error
// the transaction is aborted and that error is returned, wrapped with the
// rollback context.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log == nil {
		log = zap.NewNop()
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fmt.Errorf("%w: %v", ErrNotSupported, err)
		}
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	opts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	start := time.Now()
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	}, opts)
	if err != nil {
		if IsNotSupported(err) {
			log.Error("transaction not supported by deployment", zap.Error(err))
			return fmt.Errorf("%w: %v", ErrNotSupported, err)
		}
		log.Warn("transaction rolled back",
			zap.Duration("took", time.Since(start)),
			zap.Error(err))
		return fmt.Errorf("transaction rolled back: %w", err)
	}

	log.Debug("transaction committed", zap.Duration("took", time.Since(start)))
	return nil
}

// IsNotSupported reports whether err means the deployment cannot run
// sessions or transactions.
//
// Server codes: 20 IllegalOperation, 51 (legacy) and 263
// OperationNotSupportedInTransaction. Drivers and proxies sometimes surface
// this only as text, so keyword pairs are checked as well.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263:
			return true
		}
	}

	s := strings.ToLower(err.Error())
	has := func(sub string) bool { return strings.Contains(s, sub) }

	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("illegal operation"):
		return true
	}
	return false
}
