package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// TestMongoURIEnv names the env var that points tests at an existing
// deployment. When unset, a single-node replica set is started in a
// container (shared by every test in the package binary).
const TestMongoURIEnv = "ACADEMIC_TEST_MONGO_URI"

const (
	testDBPrefix = "ar_test_"
	mongoImage   = "mongo:7.0"
)

// provider lazily connects to the test deployment once per test binary.
type provider struct {
	start func(ctx context.Context) (string, error)

	once   sync.Once
	client *mongo.Client
	uri    string
	err    error
}

var shared = &provider{start: startContainer}

// startContainer runs a single-node replica set and returns its URI.
func startContainer(ctx context.Context) (string, error) {
	return startContainerWith(ctx, runReplicaSet)
}

// startContainerWith calls run, reporting a panic as an error:
// testcontainers panics when no Docker host can be found, and tests must
// skip rather than crash the package binary.
func startContainerWith(ctx context.Context, run func(context.Context) (string, error)) (uri string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("start mongo container: %v", r)
		}
	}()
	return run(ctx)
}

func runReplicaSet(ctx context.Context) (string, error) {
	c, err := mongodb.Run(ctx, mongoImage, mongodb.WithReplicaSet("rs0"))
	if err != nil {
		return "", fmt.Errorf("start mongo container: %w", err)
	}
	uri, err := c.ConnectionString(ctx)
	if err != nil {
		return "", fmt.Errorf("container connection string: %w", err)
	}
	// The replica set advertises the container hostname; talk to the
	// mapped port directly.
	return withDirectConnection(uri), nil
}

func (p *provider) connect() (*mongo.Client, error) {
	p.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		uri := os.Getenv(TestMongoURIEnv)
		if uri == "" {
			var err error
			if uri, err = p.start(ctx); err != nil {
				p.err = err
				return
			}
		}

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err != nil {
			p.err = fmt.Errorf("connect test mongo: %w", err)
			return
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			p.err = fmt.Errorf("ping test mongo: %w", err)
			return
		}
		p.client = client
		p.uri = uri
	})
	return p.client, p.err
}

// require returns the client or skips the test.
func (p *provider) require(t *testing.T) *mongo.Client {
	t.Helper()
	client, err := p.connect()
	if err != nil {
		t.Skipf("mongo not available: %v", err)
	}
	return client
}

func withDirectConnection(uri string) string {
	if strings.Contains(uri, "directConnection=") {
		return uri
	}
	sep := "?"
	if strings.Contains(uri, "?") {
		sep = "&"
	} else if !strings.HasSuffix(uri, "/") {
		sep = "/?"
	}
	return uri + sep + "directConnection=true"
}

// MongoURI returns the connection string of the test deployment, for code
// under test that opens its own client. The test is skipped if no MongoDB
// is reachable.
func MongoURI(t *testing.T) string {
	t.Helper()
	shared.require(t)
	return shared.uri
}

// SetupTestDB returns an empty, uniquely named database that is dropped when
// the test finishes. The test is skipped if no MongoDB is reachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client := shared.require(t)
	db := client.Database(testDBPrefix + primitive.NewObjectID().Hex())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
	})
	return db
}

// TestContext returns a context with a generous timeout for test queries.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// RequireTransactions skips the test unless db's deployment is a replica
// set or sharded cluster.
func RequireTransactions(t *testing.T, db *mongo.Database) {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	var hello struct {
		SetName string `bson:"setName"`
		Msg     string `bson:"msg"`
	}
	if err := db.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello); err != nil {
		t.Skipf("hello command failed: %v", err)
	}
	if hello.SetName == "" && hello.Msg != "isdbgrid" {
		t.Skip("deployment does not support transactions (standalone mongod)")
	}
}
