package initializers

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"hrms-backend/config"
	s3client "hrms-backend/s3"
)

// InitS3 leaves s3client.Client nil when no endpoint is configured, avatars are disabled then.
func InitS3(ctx context.Context) {
	if config.Conf.S3.Endpoint == "" {
		log.Warn("S3 endpoint is not configured, avatar storage is disabled")
		return
	}
	minioClient, err := s3client.NewClient(config.Conf.S3.Endpoint, config.Conf.S3.AccessKeyID,
		config.Conf.S3.SecretAccessKey, *config.Conf.S3.UseSSL)
	if err != nil {
		log.WithError(err).Error("S3 client initialization failed")
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = s3client.MakeBucket(checkCtx, minioClient, config.Conf.S3.BucketName); err != nil {
		log.WithError(err).
			WithField("bucket", config.Conf.S3.BucketName).
			Error("S3 bucket check failed")
	}

	s3client.Client = minioClient
	log.Info("S3 client initialized")
}
