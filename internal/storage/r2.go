// Package storage archives uploaded vendor bills in Cloudflare R2 so a
// reconciliation run can always be traced back to the document it came from.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"fleet-backend/internal/config"
)

// BillArchive stores uploaded bill files. A nil archive (missing credentials)
// turns every call into a no-op so bill uploads keep working without R2.
type BillArchive struct {
	client *s3.Client
	bucket string
}

// NewBillArchive builds an archive client from config. Returns nil when R2 is
// not configured.
func NewBillArchive(cfg *config.Config) *BillArchive {
	if cfg.R2.Endpoint == "" || cfg.R2.AccessKey == "" || cfg.R2.Bucket == "" {
		log.Printf("[Storage] R2 not configured, bill archiving disabled")
		return nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.R2.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.R2.AccessKey,
			cfg.R2.SecretKey,
			"",
		)),
	)
	if err != nil {
		log.Printf("[Storage] R2 config failed, bill archiving disabled: %v", err)
		return nil
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.R2.Endpoint)
	})

	return &BillArchive{client: client, bucket: cfg.R2.Bucket}
}

// Store uploads a bill under bills/<date>/<filename> and returns the object
// key. Failures are logged, not fatal; reconciliation must not depend on R2.
func (a *BillArchive) Store(ctx context.Context, filename, contentType string, data []byte) string {
	if a == nil {
		return ""
	}

	key := fmt.Sprintf("bills/%s/%s", time.Now().Format("2006-01-02"), filename)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Printf("[Storage] bill archive upload failed for %s: %v", filename, err)
		return ""
	}
	return key
}

// Delete removes an archived bill by key
func (a *BillArchive) Delete(ctx context.Context, key string) error {
	if a == nil || key == "" {
		return nil
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	return err
}
