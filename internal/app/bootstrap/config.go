// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/config"
	"github.com/mziyad24/academicrecords/internal/app/system/dbconn"
	"github.com/mziyad24/academicrecords/internal/app/system/normalize"
	"github.com/mziyad24/academicrecords/internal/domain/grades"
	"go.uber.org/zap"
)

// EnvPrefix is the environment variable prefix for app keys
// (ACADEMIC_MONGO_URI, ACADEMIC_GPA_THRESHOLD, ...).
const EnvPrefix = "ACADEMIC"

// LegacyMongoURIEnv is honored when mongo_uri is not set any other way.
const LegacyMongoURIEnv = "MONGO_URI"

// appConfigKeys defines the configuration keys for the academic records app.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, gpa_threshold, etc.
//   - Environment variables: ACADEMIC_MONGO_URI, ACADEMIC_GPA_THRESHOLD, etc.
//   - Command-line flags: --mongo_uri, --gpa_threshold, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (required; MONGO_URI is also read)"},
	{Name: "mongo_database", Default: "schooldb", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 20, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 0, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "Connect and ping timeout (e.g., 10s, 1m)"},

	// Reports
	{Name: "top_students_limit", Default: 3, Desc: "Number of students in the top students report"},

	// Ad-hoc queries
	{Name: "query_department", Default: "IS", Desc: "Department listed by the queries script"},
	{Name: "gpa_threshold", Default: "3.5", Desc: "List students with a GPA strictly above this value"},
	{Name: "update_email_from", Default: "mziyad154@gmail.com", Desc: "Email address to rename"},
	{Name: "update_email_to", Default: "ziyad.updated@gmail.com", Desc: "Replacement email address"},
	{Name: "delete_grade", Default: "F", Desc: "Grade of the single enrollment to delete"},
	{Name: "sample_level", Default: 3, Desc: "Level used to pick the sample student"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ACADEMIC_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	gpa, err := parseThreshold(appValues.String("gpa_threshold"))
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:            appValues.String("mongo_uri"),
		MongoDatabase:       appValues.String("mongo_database"),
		MongoMaxPoolSize:    uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:    uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout: appValues.Duration("mongo_connect_timeout", dbconn.DefaultConnectTimeout),

		TopStudentsLimit: appValues.Int("top_students_limit"),

		QueryDepartment: appValues.String("query_department"),
		GPAThreshold:    gpa,
		UpdateEmailFrom: appValues.String("update_email_from"),
		UpdateEmailTo:   appValues.String("update_email_to"),
		DeleteGrade:     appValues.String("delete_grade"),
		SampleLevel:     appValues.Int("sample_level"),
	}

	appCfg = applyLegacyEnv(appCfg, os.Getenv)
	if appCfg.MongoURI != "" {
		logger.Debug("mongo uri configured", zap.String("database", appCfg.MongoDatabase))
	}
	return coreCfg, appCfg, nil
}

// applyLegacyEnv fills MongoURI from MONGO_URI when no app-level value was
// given.
func applyLegacyEnv(appCfg AppConfig, getenv func(string) string) AppConfig {
	if strings.TrimSpace(appCfg.MongoURI) == "" {
		appCfg.MongoURI = strings.TrimSpace(getenv(LegacyMongoURIEnv))
	}
	return appCfg
}

func parseThreshold(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: gpa_threshold %q: %v", errBadSetting, raw, err)
	}
	return v, nil
}

// ValidateConfig performs app-specific config validation.
//
// A missing or malformed MongoDB URI is reported here, before any connection
// attempt, so callers can tell configuration errors from connectivity ones.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := validateApp(appCfg); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		return err
	}
	return nil
}

var errBadSetting = errors.New("invalid setting")

func validateApp(appCfg AppConfig) error {
	if err := dbconn.Validate(appCfg.DBConfig()); err != nil {
		return err
	}
	switch {
	case appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize && appCfg.MongoMaxPoolSize > 0:
		return fmt.Errorf("%w: mongo_min_pool_size exceeds mongo_max_pool_size", errBadSetting)
	case appCfg.MongoConnectTimeout < 0:
		return fmt.Errorf("%w: mongo_connect_timeout must not be negative", errBadSetting)
	case appCfg.TopStudentsLimit < 0:
		return fmt.Errorf("%w: top_students_limit must not be negative", errBadSetting)
	case appCfg.GPAThreshold < 0:
		return fmt.Errorf("%w: gpa_threshold must not be negative", errBadSetting)
	case !grades.Valid(normalize.Grade(appCfg.DeleteGrade)):
		return fmt.Errorf("%w: delete_grade %q is not a letter grade", errBadSetting, appCfg.DeleteGrade)
	case appCfg.SampleLevel <= 0:
		return fmt.Errorf("%w: sample_level must be positive", errBadSetting)
	}
	return nil
}

// IsConfigError reports whether err came from configuration loading or
// validation rather than from the database.
func IsConfigError(err error) bool {
	return dbconn.IsConfigError(err) || errors.Is(err, errBadSetting)
}
