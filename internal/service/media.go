package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/weekprep/backend/config"
)

// MediaStore uploads recipe photos and returns their public URL.
type MediaStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// S3MediaStore keeps recipe photos in an S3 bucket.
type S3MediaStore struct {
	s3  *config.S3Config
	log *zap.Logger
}

func NewS3MediaStore(s3Config *config.S3Config, log *zap.Logger) *S3MediaStore {
	return &S3MediaStore{s3: s3Config, log: log}
}

func (s *S3MediaStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.s3.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.s3.ObjectURL(key)
	s.log.Info("uploaded recipe image", zap.String("url", url), zap.Int("bytes", len(data)))
	return url, nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// recipeImageKey names the object for a new photo of a recipe.
func recipeImageKey(userID, recipeID uuid.UUID, contentType string) string {
	ext, ok := imageExtensions[contentType]
	if !ok {
		ext = ".jpg"
	}
	return fmt.Sprintf("recipes/%s/%s/%s%s", userID, recipeID, uuid.NewString(), ext)
}

// sniffImage returns the content type of data, or an error if it is not an image.
func sniffImage(data []byte) (string, error) {
	ct := http.DetectContentType(data)
	if _, ok := imageExtensions[ct]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("%w: unsupported image type %s", ErrInvalidRecipe, ct)
}
