package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// R2Settings locates an S3-compatible bucket (Cloudflare R2 by default).
type R2Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	ObjectKey string
}

// objectPutter is the subset of *s3.Client used by R2Store.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Store mirrors the snapshot document into object storage so the display
// client can read it from a CDN.
type R2Store struct {
	client objectPutter
	bucket string
	key    string
}

func NewR2Store(ctx context.Context, settings R2Settings) (*R2Store, error) {
	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				settings.AccessKey,
				settings.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(settings.Endpoint)
		o.UsePathStyle = true
	})

	return newR2Store(client, settings.Bucket, settings.ObjectKey), nil
}

func newR2Store(client objectPutter, bucket, key string) *R2Store {
	return &R2Store{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

func (r *R2Store) Name() string {
	return "r2"
}

func (r *R2Store) Save(ctx context.Context, snap snapshot.Snapshot) error {
	data, err := Encode(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(r.bucket),
		Key:          aws.String(r.key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json; charset=utf-8"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", r.bucket, r.key, err)
	}
	return nil
}
