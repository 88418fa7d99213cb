package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"dataapi/internal/common"
)

// Supported document store backends.
const (
	StoreMongo  = "mongo"
	StoreDynamo = "dynamo"
)

// Config holds all configuration for the application.
type Config struct {
	// HTTP server configuration.
	ListenAddr     string
	CORSOrigins    []string
	CORSHeaders    []string
	MetricsEnabled bool

	// Store selection.
	Store string

	// MongoDB configuration.
	MongoURI        string
	MongoHost       string
	MongoPort       string
	MongoUser       string
	MongoPassword   string
	MongoDB         string
	MongoCollection string

	// DynamoDB configuration.
	DynamoEndpoint    string
	DynamoTable       string
	DynamoIDAttribute string
	AWSRegion         string

	// Logging configuration.
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and config file.
// Fields that are already set are left untouched.
func (c *Config) Load() error {
	v := viper.New()

	// Set default values.
	v.SetDefault("listen_addr", ":5001")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("cors_headers", []string{"*"})
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("store", StoreMongo)
	v.SetDefault("mongo_host", "localhost")
	v.SetDefault("mongo_port", "27017")
	v.SetDefault("mongo_db", "myDatabase")
	v.SetDefault("mongo_collection", "air_quality_traffic")
	v.SetDefault("dynamo_endpoint", "http://localhost:8000")
	v.SetDefault("dynamo_id_attribute", "id")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Read from environment variables.
	v.SetEnvPrefix("DATAAPI")
	v.AutomaticEnv()

	// Read from config file if it exists.
	home, err := os.UserHomeDir()
	if err != nil {
		return &common.FileIOError{Op: "get user home dir", Reason: err.Error(), Err: err}
	}
	v.AddConfigPath(filepath.Join(home, ".dataapi"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// Ignore error if config file doesn't exist, but wrap other errors.
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return &common.FileIOError{Op: "read config file", Reason: err.Error(), Err: err}
		}
	}

	setString(&c.ListenAddr, v.GetString("listen_addr"))
	setString(&c.Store, v.GetString("store"))
	setString(&c.MongoURI, v.GetString("mongo_uri"))
	setString(&c.MongoHost, v.GetString("mongo_host"))
	setString(&c.MongoPort, v.GetString("mongo_port"))
	setString(&c.MongoUser, v.GetString("mongo_user"))
	setString(&c.MongoPassword, v.GetString("mongo_password"))
	setString(&c.MongoDB, v.GetString("mongo_db"))
	setString(&c.MongoCollection, v.GetString("mongo_collection"))
	setString(&c.DynamoEndpoint, v.GetString("dynamo_endpoint"))
	setString(&c.DynamoTable, v.GetString("dynamo_table"))
	setString(&c.DynamoIDAttribute, v.GetString("dynamo_id_attribute"))
	setString(&c.AWSRegion, v.GetString("aws_region"))
	setString(&c.LogLevel, v.GetString("log_level"))
	setString(&c.LogFormat, v.GetString("log_format"))
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = v.GetStringSlice("cors_origins")
	}
	if len(c.CORSHeaders) == 0 {
		c.CORSHeaders = v.GetStringSlice("cors_headers")
	}
	if !c.MetricsEnabled {
		c.MetricsEnabled = v.GetBool("metrics_enabled")
	}

	return nil
}

func setString(dst *string, val string) {
	if *dst == "" {
		*dst = val
	}
}

// OverrideConfigWithFlags applies every flag the user explicitly set on cmd.
func (c *Config) OverrideConfigWithFlags(cmd *cobra.Command) error {
	fs := cmd.Flags()

	stringFlags := map[string]*string{
		"listen-addr":         &c.ListenAddr,
		"store":               &c.Store,
		"mongo-uri":           &c.MongoURI,
		"mongo-host":          &c.MongoHost,
		"mongo-port":          &c.MongoPort,
		"mongo-user":          &c.MongoUser,
		"mongo-password":      &c.MongoPassword,
		"mongo-db":            &c.MongoDB,
		"mongo-collection":    &c.MongoCollection,
		"dynamo-endpoint":     &c.DynamoEndpoint,
		"dynamo-table":        &c.DynamoTable,
		"dynamo-id-attribute": &c.DynamoIDAttribute,
		"aws-region":          &c.AWSRegion,
		"log-level":           &c.LogLevel,
		"log-format":          &c.LogFormat,
	}
	for name, dst := range stringFlags {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		val, err := fs.GetString(name)
		if err != nil {
			return &common.ConfigError{Op: "read flag", Reason: fmt.Sprintf("flag '%s': %v", name, err), Err: err}
		}
		*dst = val
	}

	sliceFlags := map[string]*[]string{
		"cors-origins": &c.CORSOrigins,
		"cors-headers": &c.CORSHeaders,
	}
	for name, dst := range sliceFlags {
		if fs.Lookup(name) == nil || !fs.Changed(name) {
			continue
		}
		val, err := fs.GetStringSlice(name)
		if err != nil {
			return &common.ConfigError{Op: "read flag", Reason: fmt.Sprintf("flag '%s': %v", name, err), Err: err}
		}
		*dst = val
	}
	if fs.Lookup("metrics") != nil && fs.Changed("metrics") {
		enabled, err := fs.GetBool("metrics")
		if err != nil {
			return &common.ConfigError{Op: "read flag", Reason: fmt.Sprintf("flag 'metrics': %v", err), Err: err}
		}
		c.MetricsEnabled = enabled
	}

	return nil
}

// Validate checks if all required fields are set.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return &common.ConfigError{Op: "validate", Reason: "listen_addr field is required"}
	}

	switch c.Store {
	case StoreMongo:
		if c.GetMongoURI() == "" {
			return &common.ConfigError{Op: "validate", Reason: "mongo_uri or mongo_host/mongo_port is required"}
		}
		if c.MongoDB == "" {
			return &common.ConfigError{Op: "validate", Reason: "mongo_db field is required"}
		}
		if c.MongoCollection == "" {
			return &common.ConfigError{Op: "validate", Reason: "mongo_collection field is required"}
		}
	case StoreDynamo:
		if c.DynamoTable == "" {
			return &common.ConfigError{Op: "validate", Reason: "dynamo_table field is required"}
		}
		if c.DynamoIDAttribute == "" {
			return &common.ConfigError{Op: "validate", Reason: "dynamo_id_attribute field is required"}
		}
	default:
		return &common.ConfigError{Op: "validate", Reason: fmt.Sprintf("store must be one of '%s' or '%s', got '%s'", StoreMongo, StoreDynamo, c.Store)}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &common.ConfigError{Op: "validate", Reason: fmt.Sprintf("log_level '%s' is not a valid level", c.LogLevel), Err: err}
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return &common.ConfigError{Op: "validate", Reason: "log_format must be one of 'text' or 'json'"}
	}

	return nil
}

func (c *Config) GetListenAddr() string {
	return c.ListenAddr
}

func (c *Config) GetCORSOrigins() []string {
	return c.CORSOrigins
}

func (c *Config) GetCORSHeaders() []string {
	return c.CORSHeaders
}

func (c *Config) GetStore() string {
	return c.Store
}

// GetMongoURI returns the explicit mongo_uri when set, otherwise a URI built
// from host, port and credentials.
func (c *Config) GetMongoURI() string {
	if c.MongoURI != "" {
		return c.MongoURI
	}
	if c.MongoHost == "" || c.MongoPort == "" {
		return ""
	}
	u := url.URL{Scheme: "mongodb", Host: net.JoinHostPort(c.MongoHost, c.MongoPort)}
	if c.MongoUser != "" && c.MongoPassword != "" {
		u.User = url.UserPassword(c.MongoUser, c.MongoPassword)
	}
	return u.String()
}

func (c *Config) GetMongoDB() string {
	return c.MongoDB
}

func (c *Config) GetMongoCollection() string {
	return c.MongoCollection
}

func (c *Config) GetDynamoEndpoint() string {
	return c.DynamoEndpoint
}

func (c *Config) GetDynamoTable() string {
	return c.DynamoTable
}

func (c *Config) GetDynamoIDAttribute() string {
	return c.DynamoIDAttribute
}

func (c *Config) GetAWSRegion() string {
	return c.AWSRegion
}

// Source returns a short description of the configured collection for logs
// and metric labels.
func (c *Config) Source() (database, collection string) {
	if c.Store == StoreDynamo {
		return "dynamodb", c.DynamoTable
	}
	return c.MongoDB, c.MongoCollection
}

const redactedPassword = "****"

// RedactedMongoURI returns the Mongo URI with any password masked, whether it
// came from mongo_uri or from mongo_password.
func (c *Config) RedactedMongoURI() string {
	uri := c.GetMongoURI()
	u, err := url.Parse(uri)
	if err != nil {
		// Unparseable: hide everything after the scheme.
		if scheme, _, ok := strings.Cut(uri, "://"); ok {
			return scheme + "://" + redactedPassword
		}
		return redactedPassword
	}
	if u.User == nil {
		return uri
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), redactedPassword)
	}
	return u.String()
}
