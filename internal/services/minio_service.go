package services

import (
	"context"
	"fmt"
	"io"
	"rentalChat/configs"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioService stores chat attachments in an S3 compatible bucket.
type MinioService struct {
	minioClient *minio.Client
	bucket      string
	external    string
	useSSL      bool
}

func NewMinioService(ctx context.Context, config *configs.Config, log *zap.Logger) (*MinioService, error) {
	endpoint := config.Viper.GetString("minio.endpoint")
	accessKeyID := config.Viper.GetString("minio.access_key_id")
	secretAccessKey := config.Viper.GetString("minio.secret_access_key")
	useSSL := config.Viper.GetBool("minio.use_ssl")
	bucketName := config.Viper.GetString("minio.bucket")

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, errBucketExists := minioClient.BucketExists(ctx, bucketName)
		if errBucketExists != nil || !exists {
			return nil, err
		}
		log.Info("attachment bucket already exists", zap.String("bucket", bucketName))
	} else {
		log.Info("attachment bucket created", zap.String("bucket", bucketName))
	}

	return &MinioService{
		minioClient: minioClient,
		bucket:      bucketName,
		external:    config.Viper.GetString("minio.external_endpoint"),
		useSSL:      useSSL,
	}, nil
}

func (ms *MinioService) UploadFile(ctx context.Context, fileName string, file io.Reader, fileSize int64, contentType string) (string, error) {
	info, err := ms.minioClient.PutObject(ctx, ms.bucket, fileName, file, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return ms.GetPublicFileUrl(info.Key), nil
}

func (ms *MinioService) GetPublicFileUrl(fileKey string) string {
	scheme := "http"
	if ms.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, ms.external, ms.bucket, fileKey)
}
