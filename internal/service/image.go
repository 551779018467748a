package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/apperror"
	"github.com/google/uuid"
)

// maxImageBytes caps decoded uploads
const maxImageBytes = 5 << 20

const imagePrefix = "recipes/images"

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageStore persists recipe images and returns a reference usable as the
// recipe's image field.
type ImageStore interface {
	Save(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
}

// DecodeDataURI parses data:image/<type>;base64,<payload>
func DecodeDataURI(s string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(s, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", apperror.ValidationFailed("image", "image must be a base64 data URI")
	}
	contentType := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, known := imageExtensions[contentType]; !known {
		return nil, "", apperror.ValidationFailed("image", fmt.Sprintf("unsupported image type %q", contentType))
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, "", apperror.ValidationFailed("image", "image is too large")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return nil, "", apperror.ValidationFailed("image", "image payload is not valid base64")
	}
	return data, contentType, nil
}

func imageKey(contentType string) string {
	return fmt.Sprintf("%s/%s.%s", imagePrefix, uuid.NewString(), imageExtensions[contentType])
}

// S3ImageStore uploads images to an S3 bucket
type S3ImageStore struct {
	s3Config *config.S3Config
}

func NewS3ImageStore(s3Config *config.S3Config) *S3ImageStore {
	return &S3ImageStore{s3Config: s3Config}
}

// Save uploads the image and returns its public URL
func (s *S3ImageStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := imageKey(contentType)
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}
	return s.s3Config.PublicURL(key), nil
}

// Delete removes the object behind a URL returned by Save
func (s *S3ImageStore) Delete(ctx context.Context, ref string) error {
	prefix := s.s3Config.PublicURL("")
	if !strings.HasPrefix(ref, prefix) {
		return nil
	}
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(strings.TrimPrefix(ref, prefix)),
	})
	return err
}

// LocalImageStore writes images below a media directory served at /media
type LocalImageStore struct {
	root string
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: root}
}

// Save writes the image and returns its /media URL path
func (s *LocalImageStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	key := imageKey(contentType)
	full := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join("/media", key), nil
}

// Delete removes an image written by Save. Other references are ignored.
func (s *LocalImageStore) Delete(ctx context.Context, ref string) error {
	key, ok := strings.CutPrefix(ref, "/media/")
	if !ok || !strings.HasPrefix(key, imagePrefix+"/") || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Root is the directory served at /media
func (s *LocalImageStore) Root() string {
	return s.root
}
