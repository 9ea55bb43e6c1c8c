package minio_storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// CertificateStorage keeps rendered certificate images as the durable
// artifacts referenced by certificate records.
type CertificateStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCertificateStorage(storage *MinioStorage) (*CertificateStorage, error) {
	bc, err := storage.Bucket(BucketCertificates)
	if err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bc.Name, presignedTTL: bc.PresignTTL}, nil
}

func (s *CertificateStorage) Upload(ctx context.Context, userID, courseID uuid.UUID, image []byte) (string, error) {
	objectKey := fmt.Sprintf("certificates/%s/%s/%d.png", userID, courseID, time.Now().UnixNano())
	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(image),
		int64(len(image)),
		minio.PutObjectOptions{ContentType: "image/png"},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CertificateStorage) GetURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignedTTL, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
