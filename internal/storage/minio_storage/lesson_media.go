package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MediaStorage holds lesson videos and thumbnails in one bucket, keyed by
// course and lesson.
type MediaStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewMediaStorage(storage *MinioStorage) (*MediaStorage, error) {
	bc, err := storage.Bucket(BucketMedia)
	if err != nil {
		return nil, err
	}
	return &MediaStorage{storage: storage, bucket: bc.Name, presignedTTL: bc.PresignTTL}, nil
}

func (s *MediaStorage) upload(ctx context.Context, objectKey, filename, contentType string, reader io.Reader, size int64) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}
	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	return err
}

func (s *MediaStorage) UploadVideo(ctx context.Context, courseID, lessonID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/lessons/%s/video%s", courseID, lessonID, ext)
	if err := s.upload(ctx, objectKey, filename, contentType, reader, size); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *MediaStorage) UploadThumbnail(ctx context.Context, courseID, lessonID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/lessons/%s/thumb%s", courseID, lessonID, ext)
	if err := s.upload(ctx, objectKey, filename, contentType, reader, size); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *MediaStorage) UploadCourseImage(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/image%s", courseID, ext)
	if err := s.upload(ctx, objectKey, filename, contentType, reader, size); err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *MediaStorage) GetMediaURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignedTTL, reqParams)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *MediaStorage) Delete(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
