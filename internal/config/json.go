package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/userkeeper/internal/flagx"
	"github.com/dmitrijs2005/userkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for the store timeout, which allows parsing both
// string values such as "5s" and integer nanoseconds.
//
// Example file:
//
//	{
//	  "backend": "dynamodb",
//	  "aws_region": "eu-west-1",
//	  "store_timeout": "3s",
//	  "stages": {
//	    "dev":  {"users_table_name": "users-dev"},
//	    "prod": {"environment_variables": {"USERS_TABLE_NAME": "users-prod"}}
//	  }
//	}
type JsonConfig struct {
	Backend            string                 `json:"backend"`
	DatabaseDSN        string                 `json:"database_dsn"`
	RedisAddr          string                 `json:"redis_addr"`
	RedisPassword      string                 `json:"redis_password"`
	RedisDB            int                    `json:"redis_db"`
	AWSRegion          string                 `json:"aws_region"`
	AWSEndpoint        string                 `json:"aws_endpoint"`
	AWSAccessKeyID     string                 `json:"aws_access_key_id"`
	AWSSecretAccessKey string                 `json:"aws_secret_access_key"`
	S3Bucket           string                 `json:"s3_bucket"`
	StoreTimeout       timex.Duration         `json:"store_timeout"`
	LogFormat          string                 `json:"log_format"`
	Stages             map[string]StageConfig `json:"stages"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -config command-line flag. If it is not set,
// no JSON file is loaded. Only keys present in the file override the
// current values. If the file cannot be read or contains invalid JSON, the
// function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.Backend, c.Backend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.AWSRegion, c.AWSRegion)
	setString(&config.AWSEndpoint, c.AWSEndpoint)
	setString(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setString(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.LogFormat, c.LogFormat)

	if c.RedisDB != 0 {
		config.RedisDB = c.RedisDB
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if len(c.Stages) > 0 {
		config.Stages = c.Stages
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
