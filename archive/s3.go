package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	smithyhttp "github.com/aws/smithy-go/transport/http"
)

// S3Config configures an S3Archiver.
type S3Config struct {
	Bucket string
	Prefix string
	Region string
	// Endpoint overrides the default AWS endpoint, for S3-compatible
	// providers (Cloudflare R2, MinIO).
	Endpoint string
	// UsePathStyle forces path-style addressing, required by most
	// S3-compatible providers.
	UsePathStyle bool
}

// S3Archiver uploads flushed trace files to S3 and prunes them by the
// steady-clock timestamp embedded in their name.
type S3Archiver struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Archiver loads AWS credentials from the default chain (env vars,
// shared config, IAM role) and constructs an Archiver for cfg.
func NewS3Archiver(ctx context.Context, cfg S3Config) (*S3Archiver, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive: S3 bucket is required")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("archive: load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		endpoint := cfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) { o.BaseEndpoint = &endpoint })
	}
	if cfg.UsePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) { o.UsePathStyle = true })
	}

	return &S3Archiver{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (a *S3Archiver) key(filename string) string {
	if a.prefix == "" {
		return filename
	}
	return path.Join(a.prefix, filename)
}

// Upload reads the file at path and puts it to the configured bucket
// under the same base filename.
func (a *S3Archiver) Upload(ctx context.Context, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return &Error{Kind: ErrNotFound, Op: "upload", Path: filePath, Err: err}
	}

	filename := path.Base(filePath)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key(filename)),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return &Error{Kind: classifyS3Error(err), Op: "upload", Path: filePath, Err: err}
	}
	return nil
}

// DeleteOlderThan lists objects under the configured prefix and deletes
// those whose trace file name encodes a steady-clock timestamp older
// than threshold (trace.FileName's "{session}-{pid}-{tid}-{steady_ns}"
// naming convention).
func (a *S3Archiver) DeleteOlderThan(ctx context.Context, thresholdUnixNano int64) (DeletedCount, error) {
	var result DeletedCount
	var continuationToken *string

	for {
		out, err := a.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(a.bucket),
			Prefix:            aws.String(a.prefix),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return result, &Error{Kind: classifyS3Error(err), Op: "list", Path: a.prefix, Err: err}
		}

		var toDelete []types.ObjectIdentifier
		for _, obj := range out.Contents {
			if obj.Key == nil {
				continue
			}
			if !olderThan(*obj.Key, thresholdUnixNano) {
				continue
			}
			toDelete = append(toDelete, types.ObjectIdentifier{Key: obj.Key})
			result.DeletedFiles++
			if obj.Size != nil {
				result.DeletedBytes += *obj.Size
			}
		}

		if len(toDelete) > 0 {
			_, err := a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(a.bucket),
				Delete: &types.Delete{Objects: toDelete},
			})
			if err != nil {
				return result, &Error{Kind: classifyS3Error(err), Op: "delete", Path: a.prefix, Err: err}
			}
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuationToken = out.NextContinuationToken
	}

	return result, nil
}

// olderThan parses the steady-clock timestamp suffix out of a
// trace.FileName-shaped key and reports whether it predates threshold.
func olderThan(key string, thresholdUnixNano int64) bool {
	base := path.Base(key)
	base = strings.TrimSuffix(base, ".spoor_trace")
	parts := strings.Split(base, "-")
	if len(parts) != 4 {
		return false
	}
	steadyNs, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return false
	}
	return steadyNs < thresholdUnixNano
}

func classifyS3Error(err error) error {
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 403:
			return ErrAccessDenied
		case 404:
			return ErrNotFound
		case 429, 503:
			return ErrThrottled
		}
	}
	return err
}
