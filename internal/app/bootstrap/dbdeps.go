// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	Conn          *dbconn.Conn
	MongoDatabase *mongo.Database
}
