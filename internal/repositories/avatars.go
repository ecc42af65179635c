package repositories

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"

	"github.com/kelvinmwangi/pitchhub/internal/config"
)

// AvatarRepository stores profile pictures in an S3-compatible bucket
// (Cloudflare R2) under caller-generated keys.
type AvatarRepository struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewAvatarRepository initializes the S3 client using static credentials and
// a custom endpoint.
func NewAvatarRepository(cfg config.S3Config) *AvatarRepository {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized avatar object store")

	return &AvatarRepository{
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}
}

// Upload writes the avatar bytes under the given key, overwriting nothing
// because keys are freshly generated per upload.
func (r *AvatarRepository) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	return err
}

// URL returns the public URL for a stored avatar key.
func (r *AvatarRepository) URL(key string) string {
	return fmt.Sprintf("%s/%s", r.baseURL, key)
}
