package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"hrms-backend/config"
	s3client "hrms-backend/s3"
)

var ErrNotConfigured = errors.New("file storage is not configured")

// object names are never reused, so cached entries cannot go stale
const cacheTTL = 10 * time.Minute

type cachedFile struct {
	data        []byte
	contentType string
}

type Provider interface {
	IsConfigured() bool
	UploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (objectName string, err error)
	GetFile(ctx context.Context, objectName string) (data []byte, contentType string, err error)
	DeleteFile(ctx context.Context, objectName string) error
}

var Instance Provider

func NewHandler() {
	Instance = &impl{
		s3client:   s3client.Client,
		bucketName: config.Conf.S3.BucketName,
		cache:      cache.New(cacheTTL, 2*cacheTTL),
	}
}

type impl struct {
	s3client   *minio.Client
	bucketName string
	cache      *cache.Cache
}

func (i impl) IsConfigured() bool {
	return i.s3client != nil
}

func (i impl) UploadAvatar(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if !i.IsConfigured() {
		return "", ErrNotConfigured
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	objectName := fmt.Sprintf("avatars/%s/%s", userID, uuid.NewString())
	_, err := i.s3client.PutObject(ctx, i.bucketName, objectName, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		log.
			WithField("user_id", userID).
			WithError(err).
			Error("avatar upload failed")
		return "", errors.Wrap(err, "avatar upload failed")
	}
	return objectName, nil
}

func (i impl) GetFile(ctx context.Context, objectName string) ([]byte, string, error) {
	if !i.IsConfigured() {
		return nil, "", ErrNotConfigured
	}
	if cached, ok := i.cache.Get(objectName); ok {
		file := cached.(cachedFile)
		return file.data, file.contentType, nil
	}
	obj, err := i.s3client.GetObject(ctx, i.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", errors.Wrap(err, "file download failed")
	}
	defer obj.Close()
	info, err := obj.Stat()
	if err != nil {
		return nil, "", errors.Wrap(err, "file stat failed")
	}
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", errors.Wrap(err, "file read failed")
	}
	i.cache.SetDefault(objectName, cachedFile{data: data, contentType: info.ContentType})
	return data, info.ContentType, nil
}

func (i impl) DeleteFile(ctx context.Context, objectName string) error {
	if !i.IsConfigured() {
		return ErrNotConfigured
	}
	i.cache.Delete(objectName)
	return i.s3client.RemoveObject(ctx, i.bucketName, objectName, minio.RemoveObjectOptions{})
}
