package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arihantcabs/booking-backend/internal/config"
	"github.com/arihantcabs/booking-backend/internal/models"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/sirupsen/logrus"
)

const maxImageSize = 5 << 20

var errImageTooLarge = &models.ValidationError{Field: "image", Message: "Image must be 5 MB or smaller."}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStorage stores vehicle photos and returns their public URL.
type ImageStorage interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

// NewImageStorage picks S3 when AWS credentials are configured and falls back
// to the local upload directory otherwise.
func NewImageStorage(cfg *config.StorageConfig, log logrus.FieldLogger) (ImageStorage, error) {
	if cfg.S3Enabled() {
		sess, err := session.NewSession(&aws.Config{
			Region:      aws.String(cfg.AWSRegion),
			Credentials: credentials.NewStaticCredentials(cfg.AWSKey, cfg.AWSSecret, ""),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		log.WithField("bucket", cfg.S3Bucket).Info("AWS S3 image storage initialized")
		return &S3Storage{
			uploader: s3manager.NewUploader(sess),
			bucket:   cfg.S3Bucket,
			region:   cfg.AWSRegion,
		}, nil
	}

	if err := os.MkdirAll(filepath.Join(cfg.UploadDir, "vehicles"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	log.WithField("dir", cfg.UploadDir).Warn("AWS S3 not configured, storing images on local disk")
	return &LocalStorage{dir: cfg.UploadDir, baseURL: strings.TrimRight(cfg.PublicBase, "/")}, nil
}

// readImage loads the upload and checks it is a reasonably sized image.
func readImage(file *multipart.FileHeader) ([]byte, string, string, error) {
	if file.Size > maxImageSize {
		return nil, "", "", errImageTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, io.LimitReader(src, maxImageSize+1)); err != nil {
		return nil, "", "", fmt.Errorf("failed to read file: %w", err)
	}
	if buffer.Len() > maxImageSize {
		return nil, "", "", errImageTooLarge
	}

	contentType := http.DetectContentType(buffer.Bytes())
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, "", "", &models.ValidationError{Field: "image", Message: "Only JPEG, PNG or WebP images are accepted."}
	}
	return buffer.Bytes(), contentType, ext, nil
}

type S3Storage struct {
	uploader *s3manager.Uploader
	bucket   string
	region   string
}

func (s *S3Storage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	data, contentType, ext, err := readImage(file)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%d%s", folder, time.Now().UnixNano(), ext)
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, baseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (string, error) {
	data, _, ext, err := readImage(file)
	if err != nil {
		return "", err
	}

	folderPath := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(folderPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create folder directory: %w", err)
	}

	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	if err := os.WriteFile(filepath.Join(folderPath, fileName), data, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return fmt.Sprintf("%s/uploads/%s/%s", s.baseURL, filepath.ToSlash(folder), fileName), nil
}
