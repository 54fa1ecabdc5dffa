package script_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mziyad24/academicrecords/internal/app/bootstrap"
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"github.com/mziyad24/academicrecords/internal/app/system/script"
	"github.com/mziyad24/academicrecords/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func loaderFor(cfg bootstrap.AppConfig) script.Loader {
	return func(*zap.Logger) (bootstrap.AppConfig, error) {
		if err := dbconn.Validate(cfg.DBConfig()); err != nil {
			return bootstrap.AppConfig{}, err
		}
		return cfg, nil
	}
}

func neverCalled(t *testing.T) script.Work {
	return func(context.Context, *mongo.Database, bootstrap.AppConfig, *zap.Logger) (any, error) {
		t.Error("work must not run")
		return nil, nil
	}
}

func TestRun_MissingURIIsConfigError(t *testing.T) {
	var out bytes.Buffer
	cfg := bootstrap.AppConfig{MongoDatabase: "schooldb"}

	code := script.Run(context.Background(), "test", &out, zap.NewNop(), loaderFor(cfg), neverCalled(t))
	if code != script.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, script.ExitConfig)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRun_LoaderErrorIsConfigError(t *testing.T) {
	load := func(*zap.Logger) (bootstrap.AppConfig, error) { return bootstrap.AppConfig{}, errors.New("bad flag") }
	code := script.Run(context.Background(), "test", &bytes.Buffer{}, zap.NewNop(), load, neverCalled(t))
	if code != script.ExitConfig {
		t.Errorf("exit code = %d, want %d", code, script.ExitConfig)
	}
}

func TestRun_UnreachableIsDistinct(t *testing.T) {
	cfg := bootstrap.AppConfig{
		MongoURI:            "mongodb://127.0.0.1:1",
		MongoDatabase:       "schooldb",
		MongoConnectTimeout: 300 * time.Millisecond,
	}
	code := script.Run(context.Background(), "test", &bytes.Buffer{}, zap.NewNop(), loaderFor(cfg), neverCalled(t))
	if code != script.ExitUnreachable {
		t.Errorf("exit code = %d, want %d", code, script.ExitUnreachable)
	}
}

func testConfig(t *testing.T) bootstrap.AppConfig {
	return bootstrap.AppConfig{
		MongoURI:      testutil.MongoURI(t),
		MongoDatabase: "ar_script_" + primitive.NewObjectID().Hex(),
	}
}

func TestRun_WritesIndentedJSON(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	var gotDB string
	work := func(ctx context.Context, db *mongo.Database, c bootstrap.AppConfig, _ *zap.Logger) (any, error) {
		gotDB = db.Name()
		return map[string]int{"students": 10}, nil
	}

	code := script.Run(context.Background(), "test", &out, zap.NewNop(), loaderFor(cfg), work)
	if code != script.ExitOK {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if gotDB != cfg.MongoDatabase {
		t.Errorf("work got database %q, want %q", gotDB, cfg.MongoDatabase)
	}

	var decoded map[string]int
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if decoded["students"] != 10 {
		t.Errorf("decoded = %v", decoded)
	}
	if !bytes.Contains(out.Bytes(), []byte("\n  \"students\"")) {
		t.Errorf("output is not indented: %q", out.String())
	}
}

func TestRun_WorkFailure(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	work := func(context.Context, *mongo.Database, bootstrap.AppConfig, *zap.Logger) (any, error) {
		return nil, errors.New("boom")
	}
	code := script.Run(context.Background(), "test", &out, zap.NewNop(), loaderFor(cfg), work)
	if code != script.ExitFailure {
		t.Errorf("exit code = %d, want %d", code, script.ExitFailure)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output on failure: %s", out.String())
	}
}
