package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"github.com/mziyad24/academicrecords/internal/app/system/timeouts"
	"github.com/mziyad24/academicrecords/internal/domain/models"
	"github.com/mziyad24/academicrecords/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "schooldb",
		MongoMaxPoolSize: 20,
		TopStudentsLimit: 3,
		QueryDepartment:  "IS",
		GPAThreshold:     3.5,
		UpdateEmailFrom:  "mziyad154@gmail.com",
		UpdateEmailTo:    "ziyad.updated@gmail.com",
		DeleteGrade:      "F",
		SampleLevel:      3,
	}
}

func TestValidateApp(t *testing.T) {
	tests := []struct {
		name       string
		mut        func(*AppConfig)
		wantErr    bool
		wantConfig bool
	}{
		{"valid", func(*AppConfig) {}, false, false},
		{"missing uri", func(c *AppConfig) { c.MongoURI = "" }, true, true},
		{"bad scheme", func(c *AppConfig) { c.MongoURI = "http://localhost" }, true, true},
		{"missing database", func(c *AppConfig) { c.MongoDatabase = "" }, true, true},
		{"pool sizes inverted", func(c *AppConfig) { c.MongoMinPoolSize = 50 }, true, true},
		{"negative limit", func(c *AppConfig) { c.TopStudentsLimit = -1 }, true, true},
		{"bad delete grade", func(c *AppConfig) { c.DeleteGrade = "E" }, true, true},
		{"lower-case delete grade", func(c *AppConfig) { c.DeleteGrade = "f" }, false, false},
		{"zero sample level", func(c *AppConfig) { c.SampleLevel = 0 }, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mut(&cfg)
			err := validateApp(cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateApp() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantConfig && !IsConfigError(err) {
				t.Errorf("IsConfigError(%v) = false, want true", err)
			}
		})
	}
}

func TestValidateApp_MissingURIIsDistinct(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = ""
	if err := validateApp(cfg); !errors.Is(err, dbconn.ErrMissingURI) {
		t.Errorf("expected ErrMissingURI, got %v", err)
	}
}

func TestApplyLegacyEnv(t *testing.T) {
	env := map[string]string{LegacyMongoURIEnv: " mongodb://legacy:27017 "}
	getenv := func(k string) string { return env[k] }

	cfg := applyLegacyEnv(AppConfig{}, getenv)
	if cfg.MongoURI != "mongodb://legacy:27017" {
		t.Errorf("MongoURI = %q, want legacy value", cfg.MongoURI)
	}

	cfg = applyLegacyEnv(AppConfig{MongoURI: "mongodb://explicit:27017"}, getenv)
	if cfg.MongoURI != "mongodb://explicit:27017" {
		t.Errorf("MongoURI = %q, explicit value must win", cfg.MongoURI)
	}
}

func TestParseThreshold(t *testing.T) {
	if v, err := parseThreshold(" 3.5 "); err != nil || v != 3.5 {
		t.Errorf("parseThreshold(3.5) = %v, %v", v, err)
	}
	if _, err := parseThreshold("high"); !IsConfigError(err) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestAppConfig_Params(t *testing.T) {
	cfg := validConfig()
	cfg.MongoConnectTimeout = 3 * time.Second

	db := cfg.DBConfig()
	if db.URI != cfg.MongoURI || db.Database != "schooldb" || db.ConnectTimeout != 3*time.Second {
		t.Errorf("DBConfig() = %+v", db)
	}
	q := cfg.QueryParams()
	if q.Department != "IS" || q.GPAThreshold != 3.5 || q.DeleteGrade != "F" || q.SampleLevel != 3 {
		t.Errorf("QueryParams() = %+v", q)
	}
	if cfg.ReportParams().TopN != 3 {
		t.Errorf("ReportParams().TopN = %d, want 3", cfg.ReportParams().TopN)
	}
}

func TestStartup_AppliesTimeoutEnv(t *testing.T) {
	t.Cleanup(timeouts.Reset)
	t.Setenv("TIMEOUT_SHORT", "7s")

	if err := Startup(context.Background(), nil, validConfig(), DBDeps{}, testLogger()); err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	if timeouts.Short() != 7*time.Second {
		t.Errorf("Short() = %v, want 7s", timeouts.Short())
	}
}

func TestEnsureSchema_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	// Idempotent.
	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("second EnsureSchema failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	if len(names) < 4 {
		t.Errorf("collections = %v, want the four academic collections", names)
	}
	for _, want := range []string{models.StudentsCollection, models.EnrollmentsCollection} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing collection %q", want)
		}
	}
}

func TestConnectDB_AndShutdown(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = testutil.MongoURI(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps, err := ConnectDB(ctx, nil, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB failed: %v", err)
	}
	if deps.MongoDatabase == nil || deps.MongoDatabase.Name() != "schooldb" {
		t.Fatalf("deps = %+v", deps)
	}
	if err := Shutdown(ctx, nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	// A second shutdown is a no-op.
	if err := Shutdown(ctx, nil, cfg, deps, testLogger()); err != nil {
		t.Fatalf("second Shutdown failed: %v", err)
	}
}

func TestConnectDB_Unreachable(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = "mongodb://127.0.0.1:1"
	cfg.MongoConnectTimeout = 300 * time.Millisecond

	_, err := ConnectDB(context.Background(), nil, cfg, testLogger())
	if !errors.Is(err, dbconn.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if IsConfigError(err) {
		t.Error("unreachable must not be reported as a config error")
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h, err := BuildHandler(nil, validConfig(), DBDeps{MongoDatabase: db}, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler failed: %v", err)
	}

	tests := []struct {
		target string
		status int
	}{
		{"/health", http.StatusOK},
		{"/reports/top-students", http.StatusOK},
		{"/reports/semester-gpa", http.StatusOK},
		{"/students?department=IS", http.StatusOK},
		{"/students/courses", http.StatusOK},
		{"/nope", http.StatusNotFound},
	}
	for _, tc := range tests {
		rec := testutil.NewRecorder()
		h.ServeHTTP(rec, testutil.NewRequest("GET", tc.target))
		if rec.Code != tc.status {
			t.Errorf("GET %s: status %d, want %d", tc.target, rec.Code, tc.status)
		}
	}
}

