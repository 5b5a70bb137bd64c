package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/userkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-c, --create-user    create a user (prompts for username and password)
//	-l, --list-users     list usernames
//	-t, --test-password  test a password (prompts for username and password)
//	-s, --stage string   stage name (selects the table from the JSON config)
//	-b string       storage backend: memory, postgres, redis, dynamodb, s3
//	-table string   table name, overrides the stage section
//	-d string       PostgreSQL DSN
//	-r string       Redis address
//	-region string  AWS region
//	-endpoint string AWS endpoint override (e.g. a local DynamoDB or MinIO)
//	-bucket string  S3 bucket
//	-timeout dur    upper bound for each store call (e.g. "5s")
//	-log string     log format: text, json, zerolog
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, so the -config flag handled by parseJson does not
// collide with them. Every flag may be spelled with one or two dashes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:],
		flagx.Variants("s", "stage", "b", "table", "d", "r", "region", "endpoint", "bucket", "timeout", "log"),
		flagx.Variants("c", "create-user", "l", "list-users", "t", "test-password")...,
	)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.BoolVar(&config.CreateUser, "c", config.CreateUser, "create user")
	fs.BoolVar(&config.ListUsers, "l", config.ListUsers, "list users")
	fs.BoolVar(&config.TestPassword, "t", config.TestPassword, "test password")
	fs.BoolVar(&config.CreateUser, "create-user", config.CreateUser, "create user")
	fs.BoolVar(&config.ListUsers, "list-users", config.ListUsers, "list users")
	fs.BoolVar(&config.TestPassword, "test-password", config.TestPassword, "test password")

	fs.StringVar(&config.Stage, "s", config.Stage, "stage name")
	fs.StringVar(&config.Stage, "stage", config.Stage, "stage name")
	fs.StringVar(&config.Backend, "b", config.Backend, "storage backend")
	fs.StringVar(&config.TableName, "table", config.TableName, "users table name")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.AWSRegion, "region", config.AWSRegion, "AWS region")
	fs.StringVar(&config.AWSEndpoint, "endpoint", config.AWSEndpoint, "AWS endpoint override")
	fs.StringVar(&config.S3Bucket, "bucket", config.S3Bucket, "S3 bucket")
	fs.DurationVar(&config.StoreTimeout, "timeout", config.StoreTimeout, "store call timeout")
	fs.StringVar(&config.LogFormat, "log", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
