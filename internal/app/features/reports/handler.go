// internal/app/features/reports/handler.go
package reports

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the aggregation reports as JSON.
//
// A thin struct wrapping the shared Mongo database handle and logger,
// constructed once at startup in bootstrap and passed into Routes().
type Handler struct {
	DB       *mongo.Database
	Log      *zap.Logger
	TopLimit int // default n for /top-students
}

// NewHandler constructs a reports Handler bound to the given Mongo
// database and logger.
func NewHandler(db *mongo.Database, topLimit int, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Log:      logger,
		TopLimit: topLimit,
	}
}
