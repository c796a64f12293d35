// utils/s3.go
package utils

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var snapshotClient *s3.Client
var snapshotBucket string

// InitSnapshotStore configures the S3-compatible bucket that approved
// matching snapshots are published to as the long-cache fallback channel.
// Returns false when SNAPSHOT_BUCKET_NAME is unset: the feature is optional
// and the service runs fine without it.
func InitSnapshotStore() (bool, error) {
	snapshotBucket = os.Getenv("SNAPSHOT_BUCKET_NAME")
	if snapshotBucket == "" {
		return false, nil
	}

	endpoint := os.Getenv("SNAPSHOT_S3_ENDPOINT")
	accessKeyID := os.Getenv("SNAPSHOT_ACCESS_KEY_ID")
	accessKeySecret := os.Getenv("SNAPSHOT_ACCESS_KEY_SECRET")
	region := os.Getenv("SNAPSHOT_S3_REGION")
	if region == "" {
		region = "auto"
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			accessKeyID, accessKeySecret, "",
		)),
	)
	if err != nil {
		return false, fmt.Errorf("failed to load snapshot store config: %w", err)
	}

	snapshotClient = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return true, nil
}

// UploadSnapshot writes a JSON document to the snapshot bucket under key.
func UploadSnapshot(ctx context.Context, key string, data []byte) error {
	if snapshotClient == nil {
		return fmt.Errorf("snapshot store not configured")
	}

	_, err := snapshotClient.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(snapshotBucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("public, max-age=3600"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}
	return nil
}

// SnapshotEnabled reports whether the snapshot bucket was configured.
func SnapshotEnabled() bool {
	return snapshotClient != nil
}
