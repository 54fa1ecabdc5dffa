// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"

	"github.com/mziyad24/academicrecords/internal/app/features/shared/respond"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// collections whose sizes are reported.
var collections = []string{
	models.StudentsCollection,
	models.CoursesCollection,
	models.SemestersCollection,
	models.EnrollmentsCollection,
}

// Handler holds dependencies needed for health checks.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a health Handler for db.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger}
}

type healthResponse struct {
	Status      string           `json:"status"`
	Database    string           `json:"database"`
	Name        string           `json:"name"`
	Collections map[string]int64 `json:"collections,omitempty"`
	Message     string           `json:"message,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "name":"schooldb",
//	  "collections":{"students":10,"courses":5,"semesters":2,"enrollments":20} }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "name":"schooldb", "message":"Database unavailable", "error":"…"}
//
// Counts are collection metadata estimates, not exact scans.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "connected", Name: h.DB.Name()}

	if err := h.DB.Client().Ping(ctx, readpref.Primary()); err != nil {
		h.unavailable(w, resp, err)
		return
	}

	resp.Collections = make(map[string]int64, len(collections))
	for _, name := range collections {
		n, err := h.DB.Collection(name).EstimatedDocumentCount(ctx)
		if err != nil {
			h.unavailable(w, resp, err)
			return
		}
		resp.Collections[name] = n
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) unavailable(w http.ResponseWriter, resp healthResponse, err error) {
	h.Log.Error("health-check: mongo unavailable", zap.String("database", resp.Name), zap.Error(err))
	resp.Status = "error"
	resp.Database = "disconnected"
	resp.Collections = nil
	resp.Message = "Database unavailable"
	resp.Error = err.Error()
	respond.JSON(w, http.StatusServiceUnavailable, resp)
}
