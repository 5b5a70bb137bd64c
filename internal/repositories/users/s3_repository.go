package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/userkeeper/internal/common"
	"github.com/dmitrijs2005/userkeeper/internal/models"
)

// Verify interface compliance
var _ Repository = (*S3Repository)(nil)

const s3DocumentSuffix = ".json"

// S3API is the subset of *s3.Client used by S3Repository.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Repository stores each credential as a JSON object at
// "<table>/<path-escaped username>.json" in a bucket. Object PUTs replace
// whole objects, which gives the single-key atomicity Repository needs.
type S3Repository struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Repository(client S3API, bucket, table string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, prefix: table + "/"}
}

func (r *S3Repository) key(username string) string {
	return r.prefix + url.PathEscape(username) + s3DocumentSuffix
}

func (r *S3Repository) Put(ctx context.Context, username string, cred *models.Credential) error {
	if err := validatePut(username, cred); err != nil {
		return err
	}

	data, err := models.MarshalCredential(withUsername(username, cred))
	if err != nil {
		return err
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key(username)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return storeError("s3", err)
	}

	return nil
}

func (r *S3Repository) Get(ctx context.Context, username string) (*models.Credential, error) {
	if err := validateGet(username); err != nil {
		return nil, err
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key(username)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrorNotFound
		}
		return nil, storeError("s3", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, storeError("s3", err)
	}

	cred, err := models.UnmarshalCredential(data)
	if err != nil {
		return nil, fmt.Errorf("s3 object %q: %w", r.key(username), err)
	}

	return cred, nil
}

func (r *S3Repository) ListUsernames(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(r.prefix),
	})

	names := make([]string, 0)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, storeError("s3", err)
		}
		for _, obj := range page.Contents {
			name, ok := r.usernameFromKey(aws.ToString(obj.Key))
			if ok {
				names = append(names, name)
			}
		}
	}

	return names, nil
}

// usernameFromKey reverses key. Objects that do not follow the layout are
// skipped.
func (r *S3Repository) usernameFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, r.prefix)
	if !ok {
		return "", false
	}
	escaped, ok := strings.CutSuffix(rest, s3DocumentSuffix)
	if !ok || escaped == "" || strings.Contains(escaped, "/") {
		return "", false
	}
	name, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return name, true
}
