package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/Gespinal1190/bocados-petal-elegance/backend/config"
	"github.com/Gespinal1190/bocados-petal-elegance/backend/internal/logger"
)

// UploadKind prefixes object keys so menu photos and gallery photos can be told apart.
type UploadKind string

const (
	UploadKindMenu    UploadKind = "menu"
	UploadKindGallery UploadKind = "gallery"
)

// MaxImageSize is the largest image accepted for upload.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageUpload is an image received from the admin console.
type ImageUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ObjectUploader is the subset of the S3 client used to store images.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService stores uploaded images in a public S3 bucket.
type ImageService struct {
	uploader ObjectUploader
	bucket   string
}

// NewImageService creates a new ImageService backed by the configured S3 client
func NewImageService(s3Config *config.S3Config) *ImageService {
	return NewImageServiceWithUploader(s3Config.Client, s3Config.BucketName)
}

func NewImageServiceWithUploader(uploader ObjectUploader, bucket string) *ImageService {
	return &ImageService{
		uploader: uploader,
		bucket:   bucket,
	}
}

// Upload stores the image under a fresh key and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, kind UploadKind, upload *ImageUpload) (string, error) {
	if upload == nil || len(upload.Data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if len(upload.Data) > MaxImageSize {
		return "", fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidImage, MaxImageSize)
	}

	contentType := detectImageType(upload)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, contentType)
	}

	key := fmt.Sprintf("%s-%s%s", kind, uuid.New().String(), ext)
	_, err := s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(upload.Data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		logger.ErrorLogger.WithError(err).WithField("key", key).Error("failed to upload image")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	logger.InfoLogger.WithField("url", publicURL).Info("uploaded image")
	return publicURL, nil
}

// detectImageType trusts the bytes over the declared type. Unknown content
// falls back to the file extension.
func detectImageType(upload *ImageUpload) string {
	sniffed := http.DetectContentType(upload.Data)
	if _, ok := imageExtensions[sniffed]; ok {
		return sniffed
	}

	declared := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if sniffed != "application/octet-stream" {
		return sniffed
	}
	if _, ok := imageExtensions[declared]; ok {
		return declared
	}

	switch strings.ToLower(path.Ext(upload.FileName)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return declared
}

// ValidImageReference reports whether ref is an absolute http(s) URL.
func ValidImageReference(ref string) bool {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
