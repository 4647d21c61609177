// Package upload copies finished output files to an S3-compatible bucket.
package upload

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"igbatch/pkg/config"
	"igbatch/pkg/logger"
)

// putter is the part of *s3.Client the uploader uses
type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader puts run artifacts under <prefix>/<run id>/<file name>
type Uploader struct {
	client putter
	bucket string
	prefix string
	log    logger.Logger
}

// New builds an S3 client from cfg. Static keys are used when both are
// set, otherwise the default AWS credential chain applies. A custom
// endpoint (R2, MinIO) switches to path-style addressing.
func New(ctx context.Context, cfg config.UploadConfig, log logger.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("upload bucket is not configured")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load upload credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newUploader(client, cfg.Bucket, cfg.Prefix, log), nil
}

func newUploader(client putter, bucket, prefix string, log logger.Logger) *Uploader {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Uploader{
		client: client,
		bucket: bucket,
		prefix: prefix,
		log:    log,
	}
}

// Key returns the object key for a local file of the given run
func (u *Uploader) Key(runID, file string) string {
	return path.Join(u.prefix, runID, filepath.Base(file))
}

// UploadFiles uploads files in order and returns their object keys.
// It stops at the first failure.
func (u *Uploader) UploadFiles(ctx context.Context, runID string, files []string) ([]string, error) {
	keys := make([]string, 0, len(files))
	for _, file := range files {
		key := u.Key(runID, file)
		if err := u.put(ctx, key, file); err != nil {
			return keys, err
		}
		keys = append(keys, key)

		u.log.InfoWithFields("Uploaded artifact", map[string]interface{}{
			"run_id": runID,
			"bucket": u.bucket,
			"key":    key,
		})
	}
	return keys, nil
}

func (u *Uploader) put(ctx context.Context, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s for upload: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType(file)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch filepath.Ext(file) {
	case ".csv":
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
