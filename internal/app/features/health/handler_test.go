package health_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/mziyad24/academicrecords/internal/app/features/health"
	"github.com/mziyad24/academicrecords/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type healthBody struct {
	Status      string           `json:"status"`
	Database    string           `json:"database"`
	Name        string           `json:"name"`
	Collections map[string]int64 `json:"collections"`
	Message     string           `json:"message"`
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateStudent(ctx, "Ali", "Hassan", "ali@example.com", "IS", nil)
	fx.CreateCourse(ctx, "Databases", "IS434", "IS")

	handler := health.NewHandler(db, zap.NewNop())
	rec := testutil.NewRecorder()
	handler.Serve(rec, testutil.NewRequest("GET", "/health"))

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}

	var response healthBody
	rec.DecodeJSON(t, &response)
	if response.Status != "ok" || response.Database != "connected" {
		t.Errorf("response = %+v, want ok/connected", response)
	}
	if response.Name != db.Name() {
		t.Errorf("name: got %q, want %q", response.Name, db.Name())
	}
	if len(response.Collections) != 4 {
		t.Errorf("collections = %v, want four entries", response.Collections)
	}
	if response.Collections["enrollments"] != 0 {
		t.Errorf("enrollments = %d, want 0", response.Collections["enrollments"])
	}
}

func TestServe_DatabaseUnavailable(t *testing.T) {
	// A client for a port nothing listens on; Connect is lazy, Ping fails.
	opts := options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200 * time.Millisecond)
	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		t.Fatalf("mongo.Connect failed: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	handler := health.NewHandler(client.Database("schooldb"), zap.NewNop())
	rec := testutil.NewRecorder()
	handler.Serve(rec, testutil.NewRequest("GET", "/health"))

	rec.AssertStatus(t, http.StatusServiceUnavailable)

	var response healthBody
	rec.DecodeJSON(t, &response)
	if response.Status != "error" || response.Database != "disconnected" {
		t.Errorf("response = %+v, want error/disconnected", response)
	}
	if response.Name != "schooldb" {
		t.Errorf("name = %q", response.Name)
	}
	if response.Message != "Database unavailable" {
		t.Errorf("message = %q", response.Message)
	}
	if response.Collections != nil {
		t.Errorf("collections should be omitted, got %v", response.Collections)
	}
}

func TestRoutes_MountsServe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := health.Routes(health.NewHandler(db, zap.NewNop()))

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"status":"ok"`)
}
