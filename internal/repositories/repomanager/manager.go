// Package repomanager builds the users.Repository selected by configuration,
// opening the backend client it needs and, for PostgreSQL, running the
// embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/userkeeper/internal/config"
	"github.com/dmitrijs2005/userkeeper/internal/migrations"
	"github.com/dmitrijs2005/userkeeper/internal/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
)

// CloseFunc releases the backend client behind a repository.
type CloseFunc func() error

func noopClose() error { return nil }

var (
	sqlOpen = sql.Open

	// gooseUpContext is a seam for testing goose.UpContext.
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}

	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig
)

// NewUsersRepository returns the repository for cfg.Backend together with a
// function that closes its client.
func NewUsersRepository(ctx context.Context, cfg *config.Config) (users.Repository, CloseFunc, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return users.NewMemoryRepository(), noopClose, nil
	case config.BackendPostgres:
		return newPostgres(ctx, cfg)
	case config.BackendRedis:
		return newRedis(cfg)
	case config.BackendDynamoDB:
		return newDynamoDB(ctx, cfg)
	case config.BackendS3:
		return newS3(ctx, cfg)
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

func newPostgres(ctx context.Context, cfg *config.Config) (users.Repository, CloseFunc, error) {
	db, err := sqlOpen("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db open error: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}

	return users.NewPostgresRepository(db), db.Close, nil
}

func newRedis(cfg *config.Config) (users.Repository, CloseFunc, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return users.NewRedisRepository(client, cfg.TableName), client.Close, nil
}

func newDynamoDB(ctx context.Context, cfg *config.Config) (users.Repository, CloseFunc, error) {
	awsCfg, err := awsConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWSEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
		}
	})

	return users.NewDynamoDBRepository(client, cfg.TableName), noopClose, nil
}

func newS3(ctx context.Context, cfg *config.Config) (users.Repository, CloseFunc, error) {
	awsCfg, err := awsConfig(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpoint != "" {
			// S3-compatible servers such as MinIO expect path-style addressing
			o.BaseEndpoint = aws.String(cfg.AWSEndpoint)
			o.UsePathStyle = true
		}
	})

	return users.NewS3Repository(client, cfg.S3Bucket, cfg.TableName), noopClose, nil
}

func awsConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("aws config error: %w", err)
	}

	return awsCfg, nil
}
