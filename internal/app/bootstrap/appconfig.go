// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/mziyad24/academicrecords/internal/app/jobs"
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
)

// AppConfig holds the academic records configuration shared by the HTTP
// service and the command-line scripts.
//
// These values come from environment variables (ACADEMIC_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// keeps the framework-level settings (ports, TLS, log level).
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI            string        // MongoDB connection string (required)
	MongoDatabase       string        // Database name within MongoDB
	MongoMaxPoolSize    uint64        // Max connections in the driver pool
	MongoMinPoolSize    uint64        // Min idle connections kept open
	MongoConnectTimeout time.Duration // Bound on the connect probe and ping

	// Reports
	TopStudentsLimit int // Default n for the top students report

	// Ad-hoc query sequence
	QueryDepartment string  // Department listed by the queries script
	GPAThreshold    float64 // Students strictly above this GPA are listed
	UpdateEmailFrom string  // Email to rename...
	UpdateEmailTo   string  // ...and its replacement
	DeleteGrade     string  // Grade of the single enrollment to delete
	SampleLevel     int     // Level used to pick the sample student
}

// DBConfig returns the connection settings for dbconn.Open.
func (c AppConfig) DBConfig() dbconn.Config {
	return dbconn.Config{
		URI:            c.MongoURI,
		Database:       c.MongoDatabase,
		MaxPoolSize:    c.MongoMaxPoolSize,
		MinPoolSize:    c.MongoMinPoolSize,
		ConnectTimeout: c.MongoConnectTimeout,
	}
}

// QueryParams returns the parameters of the ad-hoc query sequence.
func (c AppConfig) QueryParams() jobs.QueryParams {
	return jobs.QueryParams{
		Department:      c.QueryDepartment,
		GPAThreshold:    c.GPAThreshold,
		UpdateEmailFrom: c.UpdateEmailFrom,
		UpdateEmailTo:   c.UpdateEmailTo,
		DeleteGrade:     c.DeleteGrade,
		SampleLevel:     c.SampleLevel,
	}
}

// ReportParams returns the parameters of the aggregation reports.
func (c AppConfig) ReportParams() jobs.ReportParams {
	return jobs.ReportParams{TopN: c.TopStudentsLimit}
}
