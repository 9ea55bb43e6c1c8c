package minio_storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/anooppassi66/lms-development/internal/config"
)

const (
	BucketMedia        = "media"
	BucketCertificates = "certificates"
)

type MinioStorage struct {
	client  *minio.Client
	buckets map[string]config.BucketConfig
}

func NewMinioStorage(endpoint, accessKey, secretKey string, useSSL bool, buckets map[string]config.BucketConfig) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	for _, bc := range buckets {
		exists, err := client.BucketExists(ctx, bc.Name)
		if err != nil {
			return nil, fmt.Errorf("error checking bucket %s: %w", bc.Name, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bc.Name, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("error creating bucket %s: %w", bc.Name, err)
			}
		}
	}
	return &MinioStorage{client: client, buckets: buckets}, nil
}

func (m *MinioStorage) Bucket(key string) (config.BucketConfig, error) {
	bc, ok := m.buckets[key]
	if !ok {
		return config.BucketConfig{}, fmt.Errorf("bucket %q is not configured", key)
	}
	return bc, nil
}
