package services

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageStore keeps uploaded and generated pictures and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, folder, contentType string, data []byte) (string, error)
}

type S3ImageStore struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3ImageStore(ctx context.Context, bucket, region, publicBaseURL string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3ImageStore{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

func (s *S3ImageStore) Put(ctx context.Context, folder, contentType string, data []byte) (string, error) {
	key := ObjectKey(folder, contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload image to S3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// AllowedImageType reports whether uploads of contentType are accepted.
func AllowedImageType(contentType string) bool {
	_, ok := imageExtensions[contentType]
	return ok
}

func ObjectKey(folder, contentType string) string {
	ext := imageExtensions[contentType]
	return path.Join(strings.Trim(folder, "/"), uuid.NewString()+ext)
}
